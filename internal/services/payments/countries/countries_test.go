package countries

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrencyForCountry(t *testing.T) {
	assert.Equal(t, "NOK", CurrencyForCountry("NO"))
	assert.Equal(t, "USD", CurrencyForCountry("US"))
	assert.Equal(t, "EUR", CurrencyForCountry("FR"))
	assert.Equal(t, "EUR", CurrencyForCountry("ZZ"))
	assert.Equal(t, "EUR", CurrencyForCountry(""))
}

func TestLocaleForCountry(t *testing.T) {
	assert.Equal(t, "sv-SE", LocaleForCountry("SE"))
	assert.Equal(t, "fr-FR", LocaleForCountry("FR"))
	assert.Equal(t, "en-US", LocaleForCountry("ZZ"))
	assert.Equal(t, "en-US", LocaleForCountry(""))
}

func TestNormalizeCountry(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SE", "SE"},
		{"", "FR"},
		{`{"id":"DE","name":"Germany"}`, "DE"},
		{`{"name":"Germany"}`, "FR"},
		{`{broken`, "FR"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCountry(tt.in), tt.in)
	}
}

func TestEnforcedCountry(t *testing.T) {
	assert.Equal(t, "NO", EnforcedCountry("vipps", "FR"))
	assert.Equal(t, "DK", EnforcedCountry("MobilePay", "SE"))
	assert.Equal(t, "NL", EnforcedCountry("ideal", ""))
	assert.Equal(t, "SE", EnforcedCountry("scheme", "SE"))
	assert.Equal(t, "FR", EnforcedCountry("default", ""))
}

func TestLineItemsForMethodReturnsCopy(t *testing.T) {
	items := LineItemsForMethod("vipps")
	assert.Len(t, items, 2)

	items[0].Description = "changed"
	assert.Equal(t, "Sunglasses", LineItemsForMethod("vipps")[0].Description)
}
