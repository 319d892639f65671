package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-adyen-checkout/config"
	"golang-adyen-checkout/internal/services/payments/providers"
	"golang-adyen-checkout/internal/services/payments/retry"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Http: config.HttpConfig{
			CorsOrigins: "*",
			RateLimit:   "120-M",
		},
		Adyen: config.AdyenConfig{
			APIKey:          "key",
			MerchantAccount: "DemoMerchant",
			ClientKey:       "test_CLIENT",
			Environment:     config.EnvironmentTest,
		},
		Retry: config.RetryConfig{Attempts: 1, Delay: time.Millisecond},
		Store: config.StoreConfig{Backend: "memory"},
	}
}

func newTestService(t *testing.T, cfg *config.AppConfig) (*Service, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	provider := providers.NewAdyenProvider(providers.NewMockCheckout(), cfg.Adyen.MerchantAccount, "", retry.Policy{Attempts: 1})
	return newService(context.Background(), cfg, provider)
}

func TestServiceRoutes(t *testing.T) {
	svc, err := newTestService(t, testConfig())
	require.NoError(t, err)
	defer svc.Close()

	w := httptest.NewRecorder()
	svc.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	svc.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"clientKey":"test_CLIENT","environment":"test"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestServiceRejectsBadRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Http.RateLimit = "fast"

	_, err := newTestService(t, cfg)
	assert.ErrorContains(t, err, "rate limiter")
}

func TestNewProviderUsesConfig(t *testing.T) {
	assert.NotNil(t, NewProvider(testConfig()))
}

func TestWebhookIsNotRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.Http.RateLimit = "1-M"
	svc, err := newTestService(t, cfg)
	require.NoError(t, err)
	defer svc.Close()

	webhook := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/notifications", strings.NewReader(`{"live":"false","notificationItems":[]}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "198.51.100.7:443"
		svc.Router.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 3; i++ {
		w := webhook()
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[accepted]", w.Body.String())
	}

	get := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
		req.RemoteAddr = "198.51.100.7:443"
		svc.Router.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, get())
	assert.Equal(t, http.StatusTooManyRequests, get())
}
