package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/adyen/adyen-go-api-library/v9/src/checkout"
	"github.com/google/uuid"

	"golang-adyen-checkout/internal/services/payments/countries"
	"golang-adyen-checkout/internal/services/payments/retry"
	"golang-adyen-checkout/internal/services/payments/types"
)

const (
	channelWeb = "Web"

	interactionEcommerce = "Ecommerce"
	interactionContAuth  = "ContAuth"

	modelCardOnFile            = "CardOnFile"
	modelUnscheduledCardOnFile = "UnscheduledCardOnFile"

	storeAskForConsent = "askForConsent"

	// defaultPaymentValue is charged by the advanced flow when the browser
	// does not send an amount.
	defaultPaymentValue int64 = 999

	defaultMethodsValue int64 = 1000
)

type PaymentProvider interface {
	CreateSession(ctx context.Context, in types.SessionInput) (checkout.CreateCheckoutSessionResponse, error)
	PaymentMethods(ctx context.Context, in types.PaymentMethodsInput) (checkout.PaymentMethodsResponse, error)
	SubmitPayment(ctx context.Context, in types.PaymentInput) (checkout.PaymentResponse, error)
	SubmitDetails(ctx context.Context, in types.DetailsInput) (checkout.PaymentDetailsResponse, error)
	CreatePaymentLink(ctx context.Context, in types.PaymentLinkInput) (types.PaymentLinkResponse, error)
	ParseNotifications(payload []byte) ([]Notification, error)
}

type AdyenProvider struct {
	api             Checkout
	merchantAccount string
	hmacKey         string
	policy          retry.Policy
	now             func() time.Time
}

func NewAdyenProvider(api Checkout, merchantAccount, hmacKey string, policy retry.Policy) *AdyenProvider {
	if api == nil || merchantAccount == "" {
		panic("checkout client and merchantAccount required for AdyenProvider")
	}

	return &AdyenProvider{
		api:             api,
		merchantAccount: merchantAccount,
		hmacKey:         hmacKey,
		policy:          policy,
		now:             time.Now,
	}
}

// DailyShopperReference groups a day's demo payments under one shopper so
// stored cards show up again within the day.
func DailyShopperReference(t time.Time) string {
	return "DEMO_SHOPPER_" + t.Format("20060102")
}

func (p *AdyenProvider) CreateSession(ctx context.Context, in types.SessionInput) (checkout.CreateCheckoutSessionResponse, error) {
	req := p.sessionRequest(in)

	slog.Info("creating session",
		"reference", req.Reference,
		"country", req.GetCountryCode(),
		"currency", req.Amount.Currency,
		"return_url", req.ReturnUrl,
		"shopper_reference", req.GetShopperReference(),
	)

	var res checkout.CreateCheckoutSessionResponse
	err := retry.Do(ctx, p.policy, func(ctx context.Context) error {
		var err error
		res, err = p.api.Sessions(ctx, req)
		return err
	})
	if err != nil {
		return res, fmt.Errorf("creating session: %w", err)
	}

	slog.Info("session created", "session_id", res.GetId(), "reference", req.Reference)
	return res, nil
}

func (p *AdyenProvider) sessionRequest(in types.SessionInput) checkout.CreateCheckoutSessionRequest {
	method := in.PaymentMethod
	if method == "" {
		method = "default"
	}
	country := countries.EnforcedCountry(method, in.SelectedCountry)

	shopperReference := in.ShopperReference
	if shopperReference == "" {
		shopperReference = DailyShopperReference(p.now())
	}

	req := checkout.CreateCheckoutSessionRequest{
		Amount: checkout.Amount{
			Currency: countries.CurrencyForCountry(country),
			Value:    countries.DefaultAmount,
		},
		MerchantAccount: p.merchantAccount,
		Reference:       in.OrderRef,
		ReturnUrl:       returnURL(in.BaseURL, in.OrderRef),
	}
	req.SetCountryCode(country)
	req.SetShopperLocale(countries.LocaleForCountry(country))
	req.SetLineItems(lineItems(countries.LineItemsForMethod(method)))
	req.SetShopperReference(shopperReference)
	req.SetShopperInteraction(interactionEcommerce)
	req.SetStorePaymentMethodMode(storeAskForConsent)
	req.SetRecurringProcessingModel(modelCardOnFile)
	req.SetChannel(channelWeb)
	req.SetAuthenticationData(nativeThreeDS())

	return req
}

func (p *AdyenProvider) PaymentMethods(ctx context.Context, in types.PaymentMethodsInput) (checkout.PaymentMethodsResponse, error) {
	req := p.paymentMethodsRequest(in)

	slog.Info("requesting payment methods",
		"country", req.GetCountryCode(),
		"locale", req.GetShopperLocale(),
		"shopper_reference", req.GetShopperReference(),
	)

	var res checkout.PaymentMethodsResponse
	err := retry.Do(ctx, p.policy, func(ctx context.Context) error {
		var err error
		res, err = p.api.PaymentMethods(ctx, req)
		return err
	})
	if err != nil {
		return res, fmt.Errorf("listing payment methods: %w", err)
	}

	return res, nil
}

func (p *AdyenProvider) paymentMethodsRequest(in types.PaymentMethodsInput) checkout.PaymentMethodsRequest {
	amount := checkout.Amount{Currency: countries.DefaultCurrency, Value: defaultMethodsValue}
	if in.Amount != nil {
		amount = checkout.Amount{Currency: in.Amount.Currency, Value: in.Amount.Value}
	}

	locale := in.ShopperLocale
	if locale == "" {
		locale = countries.LocaleForCountry(in.CountryCode)
	}

	req := checkout.PaymentMethodsRequest{MerchantAccount: p.merchantAccount}
	req.SetChannel(channelWeb)
	req.SetAmount(amount)
	req.SetShopperLocale(locale)
	if in.CountryCode != "" {
		req.SetCountryCode(in.CountryCode)
	}
	if in.ShopperReference != "" {
		req.SetShopperReference(in.ShopperReference)
	}

	return req
}

func (p *AdyenProvider) SubmitPayment(ctx context.Context, in types.PaymentInput) (checkout.PaymentResponse, error) {
	req, err := p.paymentRequest(in)
	if err != nil {
		return checkout.PaymentResponse{}, err
	}

	slog.Info("submitting payment",
		"reference", req.Reference,
		"country", req.GetCountryCode(),
		"amount", req.Amount.Value,
		"currency", req.Amount.Currency,
		"recurring_model", req.GetRecurringProcessingModel(),
		"shopper_interaction", req.GetShopperInteraction(),
		"shopper_conversion_id", in.AdditionalData.ShopperConversionID,
	)

	var res checkout.PaymentResponse
	err = retry.Do(ctx, p.policy, func(ctx context.Context) error {
		var err error
		res, err = p.api.Payments(ctx, req)
		return err
	})
	if err != nil {
		return res, fmt.Errorf("submitting payment %s: %w", req.Reference, err)
	}

	slog.Info("payment submitted", "reference", req.Reference, "result_code", res.GetResultCode(), "psp_reference", res.GetPspReference())
	return res, nil
}

// paymentMethodHint is the part of the component's paymentMethod the relay
// looks at itself.
type paymentMethodHint struct {
	Type                  string `json:"type"`
	StoredPaymentMethodID string `json:"storedPaymentMethodId"`
}

func (p *AdyenProvider) paymentRequest(in types.PaymentInput) (checkout.PaymentRequest, error) {
	if isEmptyJSON(in.PaymentMethod) {
		return checkout.PaymentRequest{}, validationError("MISSING_PAYMENT_METHOD", "paymentMethod is required")
	}

	var hint paymentMethodHint
	if err := json.Unmarshal(in.PaymentMethod, &hint); err != nil {
		return checkout.PaymentRequest{}, validationError("INVALID_PAYMENT_METHOD", "paymentMethod is not an object: %v", err)
	}

	var method checkout.CheckoutPaymentMethod
	if err := json.Unmarshal(in.PaymentMethod, &method); err != nil {
		return checkout.PaymentRequest{}, validationError("INVALID_PAYMENT_METHOD", "unsupported paymentMethod %q: %v", hint.Type, err)
	}

	extra := in.AdditionalData
	reference := in.Reference
	if reference == "" {
		reference = uuid.NewString()
	}

	country := countries.EnforcedCountry(hint.Type, extra.CountryCode)

	origin := in.Origin
	if origin == "" {
		origin = in.BaseURL
	}

	recurring := extra.RecurringProcessingModel
	if recurring == "" {
		recurring = in.RecurringProcessingModel
	}
	unscheduled := recurring == modelUnscheduledCardOnFile

	amount := checkout.Amount{Currency: countries.CurrencyForCountry(country), Value: defaultPaymentValue}
	if extra.Amount != nil {
		amount = checkout.Amount{Currency: extra.Amount.Currency, Value: extra.Amount.Value}
	}

	req := checkout.PaymentRequest{
		MerchantAccount: p.merchantAccount,
		Reference:       reference,
		Amount:          amount,
		ReturnUrl:       returnURL(origin, reference),
		PaymentMethod:   method,
	}
	req.SetChannel(channelWeb)
	req.SetCountryCode(country)
	if origin != "" {
		req.SetOrigin(origin)
	}

	req.SetShopperReference(orDefault(extra.ShopperReference, "TestShopper"))
	req.SetShopperEmail(orDefault(in.ShopperEmail, "test@example.com"))
	req.SetShopperName(checkout.Name{FirstName: "Test", LastName: "Shopper"})
	req.SetShopperLocale(countries.LocaleForCountry(country))
	if in.ShopperIP != "" {
		req.SetShopperIP(in.ShopperIP)
	}

	switch {
	case unscheduled:
		req.SetRecurringProcessingModel(modelUnscheduledCardOnFile)
		req.SetShopperInteraction(interactionContAuth)
	case (in.StorePaymentMethod != nil && *in.StorePaymentMethod) || hint.StoredPaymentMethodID != "":
		req.SetRecurringProcessingModel(modelCardOnFile)
		req.SetShopperInteraction(interactionEcommerce)
	default:
		req.SetShopperInteraction(interactionEcommerce)
	}
	if in.StorePaymentMethod != nil {
		req.SetStorePaymentMethod(*in.StorePaymentMethod)
	}

	// A merchant-initiated payment has no shopper present: no browser and no 3DS.
	if !unscheduled {
		if !isEmptyJSON(in.BrowserInfo) {
			var bi checkout.BrowserInfo
			if err := json.Unmarshal(in.BrowserInfo, &bi); err != nil {
				return checkout.PaymentRequest{}, validationError("INVALID_BROWSER_INFO", "browserInfo: %v", err)
			}
			req.SetBrowserInfo(bi)
		}
		req.SetAuthenticationData(nativeThreeDS())
	}

	if !isEmptyJSON(in.RiskData) {
		var rd checkout.RiskData
		if err := json.Unmarshal(in.RiskData, &rd); err != nil {
			return checkout.PaymentRequest{}, validationError("INVALID_RISK_DATA", "riskData: %v", err)
		}
		req.SetRiskData(rd)
	}

	billing := checkout.BillingAddress{
		Street:            "Teststrasse",
		HouseNumberOrName: "1",
		PostalCode:        "10115",
		City:              "Berlin",
		Country:           country,
	}
	if !isEmptyJSON(in.BillingAddress) {
		if err := json.Unmarshal(in.BillingAddress, &billing); err != nil {
			return checkout.PaymentRequest{}, validationError("INVALID_BILLING_ADDRESS", "billingAddress: %v", err)
		}
	}
	req.SetBillingAddress(billing)

	items := lineItems(countries.LineItemsForMethod(hint.Type))
	if !isEmptyJSON(in.LineItems) {
		items = nil
		if err := json.Unmarshal(in.LineItems, &items); err != nil {
			return checkout.PaymentRequest{}, validationError("INVALID_LINE_ITEMS", "lineItems: %v", err)
		}
	}
	req.SetLineItems(items)

	return req, nil
}

func (p *AdyenProvider) SubmitDetails(ctx context.Context, in types.DetailsInput) (checkout.PaymentDetailsResponse, error) {
	req, err := detailsRequest(in)
	if err != nil {
		return checkout.PaymentDetailsResponse{}, err
	}

	var res checkout.PaymentDetailsResponse
	err = retry.Do(ctx, p.policy, func(ctx context.Context) error {
		var err error
		res, err = p.api.PaymentsDetails(ctx, req)
		return err
	})
	if err != nil {
		return res, fmt.Errorf("submitting payment details: %w", err)
	}

	slog.Info("payment details submitted", "result_code", res.GetResultCode(), "psp_reference", res.GetPspReference())
	return res, nil
}

// detailsRequest shapes the three continuation payloads the components send:
// 3DS2 (paymentData + details), redirect (redirectResult), and bare details.
func detailsRequest(in types.DetailsInput) (checkout.PaymentDetailsRequest, error) {
	var req checkout.PaymentDetailsRequest

	switch {
	case in.PaymentData != "" && !isEmptyJSON(in.Details):
		if err := json.Unmarshal(in.Details, &req.Details); err != nil {
			return req, validationError("INVALID_DETAILS", "details: %v", err)
		}
		req.SetPaymentData(in.PaymentData)
	case in.RedirectResult != "":
		req.Details.SetRedirectResult(in.RedirectResult)
	case !isEmptyJSON(in.Details):
		if err := json.Unmarshal(in.Details, &req.Details); err != nil {
			return req, validationError("INVALID_DETAILS", "details: %v", err)
		}
	case in.Payload != "":
		req.Details.SetPayload(in.Payload)
	default:
		return req, validationError("MISSING_PAYMENT_DETAILS", "redirectResult, payload or details is required")
	}

	return req, nil
}

func (p *AdyenProvider) CreatePaymentLink(ctx context.Context, in types.PaymentLinkInput) (types.PaymentLinkResponse, error) {
	req, err := p.paymentLinkRequest(in)
	if err != nil {
		return types.PaymentLinkResponse{}, err
	}

	slog.Info("creating payment link",
		"reference", req.Reference,
		"amount", req.Amount.Value,
		"currency", req.Amount.Currency,
		"country", req.GetCountryCode(),
	)

	var res checkout.PaymentLinkResponse
	err = retry.Do(ctx, p.policy, func(ctx context.Context) error {
		var err error
		res, err = p.api.PaymentLinks(ctx, req)
		return err
	})
	if err != nil {
		return types.PaymentLinkResponse{}, fmt.Errorf("creating payment link: %w", err)
	}

	link := types.PaymentLinkResponse{
		ID:     res.GetId(),
		URL:    res.GetUrl(),
		Status: res.GetStatus(),
	}
	if res.HasExpiresAt() {
		link.ExpiresAt = formatExpiry(res.GetExpiresAt())
	}

	slog.Info("payment link created", "id", link.ID, "url", link.URL, "expires_at", link.ExpiresAt)
	return link, nil
}

func (p *AdyenProvider) paymentLinkRequest(in types.PaymentLinkInput) (checkout.PaymentLinkRequest, error) {
	if in.AmountValue <= 0 || in.CountryCode == "" {
		return checkout.PaymentLinkRequest{}, validationError("MISSING_PAYMENT_LINK_FIELDS", "amountValue and countryCode are required for payment link")
	}

	shopperReference := in.ShopperReference
	if shopperReference == "" {
		shopperReference = fmt.Sprintf("pbl-%d", p.now().UnixMilli())
	}

	req := checkout.PaymentLinkRequest{
		Amount: checkout.Amount{
			Currency: countries.CurrencyForCountry(in.CountryCode),
			Value:    int64(in.AmountValue),
		},
		MerchantAccount: p.merchantAccount,
		Reference:       "PBL-" + uuid.NewString(),
	}
	req.SetCountryCode(in.CountryCode)
	req.SetShopperReference(shopperReference)
	if in.ShopperEmail != "" {
		req.SetShopperEmail(in.ShopperEmail)
	}
	req.SetShopperLocale(countries.LocaleForCountry(in.CountryCode))
	req.SetStorePaymentMethodMode(storeAskForConsent)
	req.SetRecurringProcessingModel(modelCardOnFile)
	req.SetReusable(false)
	req.SetReturnUrl(in.BaseURL + "/")

	return req, nil
}

// formatExpiry renders the link expiry as RFC 3339 whether the model holds
// a timestamp or the raw string.
func formatExpiry(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case string:
		return t
	}
	return fmt.Sprint(v)
}

func returnURL(base, orderRef string) string {
	return base + "/handleShopperRedirect?orderRef=" + orderRef
}

func nativeThreeDS() checkout.AuthenticationData {
	var td checkout.ThreeDSRequestData
	td.SetNativeThreeDS("preferred")

	var ad checkout.AuthenticationData
	ad.SetThreeDSRequestData(td)
	return ad
}

func lineItems(items []countries.LineItem) []checkout.LineItem {
	out := make([]checkout.LineItem, 0, len(items))
	for _, it := range items {
		var li checkout.LineItem
		li.SetId(it.ID)
		li.SetQuantity(it.Quantity)
		li.SetAmountIncludingTax(it.AmountIncludingTax)
		li.SetAmountExcludingTax(0)
		li.SetTaxAmount(0)
		li.SetTaxPercentage(0)
		li.SetDescription(it.Description)
		out = append(out, li)
	}
	return out
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}"))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
