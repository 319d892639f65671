package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ADYEN_API_KEY", "key")
	t.Setenv("ADYEN_MERCHANT_ACCOUNT", "DemoMerchant")
	t.Setenv("ADYEN_CLIENT_KEY", "test_client")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADYEN_ENVIRONMENT", "")
	t.Setenv("APP_ENV", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Http.Port)
	assert.Equal(t, EnvironmentTest, cfg.Adyen.Environment)
	assert.True(t, cfg.Adyen.IsSandbox())
	assert.Equal(t, 3, cfg.Retry.Attempts)
	assert.Equal(t, "memory", cfg.Store.Backend)
}

func TestLoadProductionDefaultsToLive(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADYEN_ENVIRONMENT", "")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, EnvironmentLive, cfg.Adyen.Environment)
	assert.False(t, cfg.Adyen.IsSandbox())
}

func TestValidateNamesEveryMissingVariable(t *testing.T) {
	cfg := AppConfig{Store: StoreConfig{Backend: "memory"}, Retry: RetryConfig{Attempts: 3}}

	err := cfg.Validate()
	require.Error(t, err)
	for _, name := range []string{"ADYEN_API_KEY", "ADYEN_MERCHANT_ACCOUNT", "ADYEN_ENVIRONMENT", "ADYEN_CLIENT_KEY"} {
		assert.Contains(t, err.Error(), name)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() AppConfig {
		return AppConfig{
			Adyen: AdyenConfig{APIKey: "k", MerchantAccount: "m", ClientKey: "c", Environment: EnvironmentTest},
			Store: StoreConfig{Backend: "memory"},
			Retry: RetryConfig{Attempts: 3},
		}
	}

	cfg := base()
	require.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Adyen.Environment = "STAGING"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Store.Backend = "redis"
	assert.ErrorContains(t, cfg.Validate(), "REDIS_URL")

	cfg = base()
	cfg.Retry.Attempts = 0
	assert.Error(t, cfg.Validate())
}
