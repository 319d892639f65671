package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type Amount struct {
	Currency string `json:"currency"`
	Value    int64  `json:"value"`
}

// SessionInput is what the sessions flow knows when a checkout starts.
type SessionInput struct {
	OrderRef         string
	BaseURL          string
	PaymentMethod    string
	SelectedCountry  string
	ShopperReference string
}

type PaymentMethodsInput struct {
	CountryCode      string  `json:"countryCode"`
	Amount           *Amount `json:"amount"`
	ShopperLocale    string  `json:"shopperLocale"`
	ShopperReference string  `json:"shopperReference"`
}

// PaymentContext is the block the browser adds next to the component state.
type PaymentContext struct {
	Amount                   *Amount `json:"amount"`
	CountryCode              string  `json:"countryCode"`
	ShopperReference         string  `json:"shopperReference"`
	Locale                   string  `json:"locale"`
	ShopperConversionID      string  `json:"shopperConversionId"`
	RecurringProcessingModel string  `json:"recurringProcessingModel"`
}

// PaymentInput is the advanced flow /payments body: the component's
// state.data plus the additionalData block. Component objects are kept raw
// and decoded straight into the vendor models.
type PaymentInput struct {
	PaymentMethod            json.RawMessage `json:"paymentMethod"`
	BrowserInfo              json.RawMessage `json:"browserInfo,omitempty"`
	RiskData                 json.RawMessage `json:"riskData,omitempty"`
	BillingAddress           json.RawMessage `json:"billingAddress,omitempty"`
	LineItems                json.RawMessage `json:"lineItems,omitempty"`
	Reference                string          `json:"reference,omitempty"`
	Origin                   string          `json:"origin,omitempty"`
	ShopperEmail             string          `json:"shopperEmail,omitempty"`
	StorePaymentMethod       *bool           `json:"storePaymentMethod,omitempty"`
	RecurringProcessingModel string          `json:"recurringProcessingModel,omitempty"`
	AdditionalData           PaymentContext  `json:"additionalData"`

	// Filled by the server from the inbound request.
	ShopperIP string `json:"-"`
	BaseURL   string `json:"-"`
}

// DetailsInput covers redirect results, 3DS2 results and raw payloads.
type DetailsInput struct {
	PaymentData    string          `json:"paymentData,omitempty"`
	Details        json.RawMessage `json:"details,omitempty"`
	RedirectResult string          `json:"redirectResult,omitempty"`
	Payload        string          `json:"payload,omitempty"`
}

// MinorUnits accepts an amount as a JSON number or as the string an HTML
// input produces.
type MinorUnits int64

func (m *MinorUnits) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		*m = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}

	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("amount %q is not a whole number of minor units", string(b))
	}
	*m = MinorUnits(v)
	return nil
}

type PaymentLinkInput struct {
	AmountValue      MinorUnits `json:"amountValue"`
	CountryCode      string     `json:"-"`
	ShopperEmail     string     `json:"shopperEmail"`
	ShopperReference string     `json:"shopperReference"`
	BaseURL          string     `json:"-"`
}

type PaymentLinkResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

type RecheckRequest struct {
	OrderRef       string `json:"orderRef"`
	RedirectResult string `json:"redirectResult"`
	Payload        string `json:"payload"`
	SessionID      string `json:"sessionId"`
}

type RecheckResponse struct {
	OrderRef     string `json:"orderRef"`
	Status       string `json:"status"`
	PspReference string `json:"pspReference,omitempty"`
	Timestamp    string `json:"timestamp"`
}

// RedirectData travels to the result page so it can re-check the status.
type RedirectData struct {
	RedirectResult string `json:"redirectResult,omitempty"`
	SessionID      string `json:"sessionId,omitempty"`
}

type ClientConfigResponse struct {
	ClientKey   string `json:"clientKey"`
	Environment string `json:"environment"`
}
