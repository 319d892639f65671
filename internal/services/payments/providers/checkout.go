package providers

import (
	"context"

	"github.com/adyen/adyen-go-api-library/v9/src/adyen"
	"github.com/adyen/adyen-go-api-library/v9/src/checkout"
	"github.com/adyen/adyen-go-api-library/v9/src/common"
)

// Checkout is the slice of the vendor Checkout API the relay calls. Errors
// returned by implementations are already normalized.
type Checkout interface {
	Sessions(ctx context.Context, req checkout.CreateCheckoutSessionRequest) (checkout.CreateCheckoutSessionResponse, error)
	PaymentMethods(ctx context.Context, req checkout.PaymentMethodsRequest) (checkout.PaymentMethodsResponse, error)
	Payments(ctx context.Context, req checkout.PaymentRequest) (checkout.PaymentResponse, error)
	PaymentsDetails(ctx context.Context, req checkout.PaymentDetailsRequest) (checkout.PaymentDetailsResponse, error)
	PaymentLinks(ctx context.Context, req checkout.PaymentLinkRequest) (checkout.PaymentLinkResponse, error)
}

type adyenCheckout struct {
	api *checkout.APIClient
}

// NewAdyenCheckout builds a Checkout on top of the official client library.
// environment is TEST or LIVE; live traffic needs the account's URL prefix.
func NewAdyenCheckout(apiKey, environment, liveURLPrefix string) Checkout {
	env := common.TestEnv
	if environment == "LIVE" {
		env = common.LiveEnv
	}

	client := adyen.NewClient(&common.Config{
		ApiKey:                apiKey,
		Environment:           env,
		LiveEndpointURLPrefix: liveURLPrefix,
	})

	return &adyenCheckout{api: client.Checkout()}
}

func (c *adyenCheckout) Sessions(ctx context.Context, req checkout.CreateCheckoutSessionRequest) (checkout.CreateCheckoutSessionResponse, error) {
	in := c.api.PaymentsApi.SessionsInput().CreateCheckoutSessionRequest(req)
	res, httpRes, err := c.api.PaymentsApi.Sessions(ctx, in)
	return res, normalizeError(err, httpRes)
}

func (c *adyenCheckout) PaymentMethods(ctx context.Context, req checkout.PaymentMethodsRequest) (checkout.PaymentMethodsResponse, error) {
	in := c.api.PaymentsApi.PaymentMethodsInput().PaymentMethodsRequest(req)
	res, httpRes, err := c.api.PaymentsApi.PaymentMethods(ctx, in)
	return res, normalizeError(err, httpRes)
}

func (c *adyenCheckout) Payments(ctx context.Context, req checkout.PaymentRequest) (checkout.PaymentResponse, error) {
	in := c.api.PaymentsApi.PaymentsInput().PaymentRequest(req)
	res, httpRes, err := c.api.PaymentsApi.Payments(ctx, in)
	return res, normalizeError(err, httpRes)
}

func (c *adyenCheckout) PaymentsDetails(ctx context.Context, req checkout.PaymentDetailsRequest) (checkout.PaymentDetailsResponse, error) {
	in := c.api.PaymentsApi.PaymentsDetailsInput().PaymentDetailsRequest(req)
	res, httpRes, err := c.api.PaymentsApi.PaymentsDetails(ctx, in)
	return res, normalizeError(err, httpRes)
}

func (c *adyenCheckout) PaymentLinks(ctx context.Context, req checkout.PaymentLinkRequest) (checkout.PaymentLinkResponse, error) {
	in := c.api.PaymentLinksApi.PaymentLinksInput().PaymentLinkRequest(req)
	res, httpRes, err := c.api.PaymentLinksApi.PaymentLinks(ctx, in)
	return res, normalizeError(err, httpRes)
}
