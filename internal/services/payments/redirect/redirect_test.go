package redirect

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestination(t *testing.T) {
	tests := []struct {
		code string
		want Category
	}{
		{ResultAuthorised, Success},
		{ResultPending, Pending},
		{ResultReceived, Pending},
		{ResultRefused, Failed},
		{ResultError, Failed},
		{ResultCancelled, Failed},
		{"ChallengeShopper", Error},
		{"", Error},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, Destination(tt.code, "scheme", "FR", true))
		})
	}
}

func TestCancelledOverride(t *testing.T) {
	assert.Equal(t, Pending, Destination(ResultCancelled, "mobilepay", "DK", true))
	assert.Equal(t, Pending, Destination(ResultCancelled, "MobilePay", "dk", true))

	// live traffic, other markets and other methods keep the plain mapping
	assert.Equal(t, Failed, Destination(ResultCancelled, "mobilepay", "DK", false))
	assert.Equal(t, Failed, Destination(ResultCancelled, "mobilepay", "NO", true))
	assert.Equal(t, Failed, Destination(ResultCancelled, "vipps", "DK", true))

	// only Cancelled is affected
	assert.Equal(t, Failed, Destination(ResultRefused, "mobilepay", "DK", true))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(ResultReceived))
	assert.True(t, IsTransient(ResultPending))
	assert.False(t, IsTransient(ResultAuthorised))
	assert.False(t, IsTransient(ResultRefused))
}

func TestResultURL(t *testing.T) {
	raw := ResultURL(Success, "ref-1", `{"redirectResult":"abc"}`)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/result/success", u.Path)
	assert.Equal(t, "ref-1", u.Query().Get("orderRef"))
	assert.Equal(t, `{"redirectResult":"abc"}`, u.Query().Get("redirectData"))

	assert.Equal(t, "/result/error?orderRef=x", ResultURL(Error, "x", ""))
}
