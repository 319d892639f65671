// Package payments wires the checkout relay together from configuration.
package payments

import (
	"golang-adyen-checkout/config"
	"golang-adyen-checkout/internal/services/payments/providers"
	"golang-adyen-checkout/internal/services/payments/retry"
)

// NewProvider builds the vendor-backed payment provider.
func NewProvider(cfg *config.AppConfig) *providers.AdyenProvider {
	api := providers.NewAdyenCheckout(cfg.Adyen.APIKey, cfg.Adyen.Environment, cfg.Adyen.LiveURLPrefix)

	return providers.NewAdyenProvider(api, cfg.Adyen.MerchantAccount, cfg.Adyen.HMACKey, retry.Policy{
		Attempts: cfg.Retry.Attempts,
		Delay:    cfg.Retry.Delay,
	})
}
