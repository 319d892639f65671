package providers

import (
	"fmt"
	"log/slog"

	"github.com/adyen/adyen-go-api-library/v9/src/hmacvalidator"
	"github.com/adyen/adyen-go-api-library/v9/src/webhook"

	"golang-adyen-checkout/internal/services/payments/redirect"
)

const (
	eventAuthorisation  = "AUTHORISATION"
	eventCancellation   = "CANCELLATION"
	eventCancelOrRefund = "CANCEL_OR_REFUND"
)

// Notification is one verified item of a standard webhook.
type Notification struct {
	EventCode         string
	MerchantReference string
	PspReference      string
	Success           bool
	Reason            string
}

// ResultCode translates the event into the result code stored for the
// order. Events that do not change the payment outcome yield
// ErrUnknownWebhookEventType.
func (n Notification) ResultCode() (string, error) {
	switch n.EventCode {
	case eventAuthorisation:
		if n.Success {
			return redirect.ResultAuthorised, nil
		}
		return redirect.ResultRefused, nil
	case eventCancellation, eventCancelOrRefund:
		if n.Success {
			return redirect.ResultCancelled, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownWebhookEventType, n.EventCode)
}

// ParseNotifications decodes a webhook body and drops every item whose HMAC
// signature does not verify. Without a configured key nothing is verified.
func (p *AdyenProvider) ParseNotifications(payload []byte) ([]Notification, error) {
	wh, err := webhook.HandleRequest(string(payload))
	if err != nil {
		return nil, fmt.Errorf("parsing webhook: %w", err)
	}
	if wh.NotificationItems == nil {
		return nil, nil
	}

	var out []Notification
	for _, item := range *wh.NotificationItems {
		nri := item.NotificationRequestItem

		if p.hmacKey != "" && !hmacvalidator.ValidateHmac(nri, p.hmacKey) {
			slog.Error("webhook hmac verification failed", "psp_reference", nri.PspReference, "event_code", nri.EventCode)
			continue
		}

		out = append(out, Notification{
			EventCode:         nri.EventCode,
			MerchantReference: nri.MerchantReference,
			PspReference:      nri.PspReference,
			Success:           nri.Success == "true",
			Reason:            nri.Reason,
		})
	}

	return out, nil
}
