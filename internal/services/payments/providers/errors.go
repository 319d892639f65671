package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrUnknownWebhookEventType = errors.New("unhandled event type")

// VendorError is the normalized shape of any failed vendor call.
type VendorError struct {
	Message    string
	StatusCode int
	ErrorCode  string
	Err        error

	// answered is set when the vendor replied with a success status but the
	// reply could not be used. The call may already have taken effect.
	answered bool
}

func (e *VendorError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("vendor error %d (%s): %s", e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("vendor error %d: %s", e.StatusCode, e.Message)
}

func (e *VendorError) Unwrap() error { return e.Err }

// Temporary marks network failures and vendor 5xx answers as retryable.
func (e *VendorError) Temporary() bool {
	return !e.answered && e.StatusCode >= http.StatusInternalServerError
}

// ValidationError is a request the relay refuses before calling the vendor.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationError(code, format string, args ...any) error {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

const codeInvalidVendorResponse = "INVALID_VENDOR_RESPONSE"

// vendorBody is the error document returned by the Checkout API. Detail and
// Title are the RFC 7807 variant some endpoints answer with.
type vendorBody struct {
	Status    int    `json:"status"`
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
	Detail    string `json:"detail"`
	Title     string `json:"title"`
}

func (b vendorBody) message() string {
	switch {
	case b.Message != "":
		return b.Message
	case b.Detail != "":
		return b.Detail
	}
	return b.Title
}

func (b vendorBody) ok() bool {
	return b.ErrorCode != "" || b.message() != ""
}

// normalizeError converts an SDK failure into a VendorError. A nil response
// means the request never got an answer.
func normalizeError(err error, res *http.Response) error {
	if err == nil {
		return nil
	}

	if res == nil {
		return &VendorError{
			Message:    err.Error(),
			StatusCode: http.StatusBadGateway,
			ErrorCode:  "NETWORK_ERROR",
			Err:        err,
		}
	}

	// A 2xx/3xx with an error means the answer could not be decoded.
	if res.StatusCode < http.StatusBadRequest {
		return &VendorError{
			Message:    err.Error(),
			StatusCode: http.StatusBadGateway,
			ErrorCode:  codeInvalidVendorResponse,
			Err:        err,
			answered:   true,
		}
	}

	ve := &VendorError{
		Message:    err.Error(),
		StatusCode: res.StatusCode,
		Err:        err,
	}
	if body, ok := vendorBodyFromError(err); ok {
		if m := body.message(); m != "" {
			ve.Message = m
		}
		if body.Status >= http.StatusBadRequest {
			ve.StatusCode = body.Status
		}
		ve.ErrorCode = body.ErrorCode
	}

	return ve
}

// vendorBodyFromError reads the error document from the SDK's typed errors,
// which are JSON-tagged service error models. Only when none of the wrapped
// errors carries one is the message text searched.
func vendorBodyFromError(err error) (vendorBody, bool) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		b, mErr := json.Marshal(e)
		if mErr != nil {
			continue
		}
		var body vendorBody
		if json.Unmarshal(b, &body) == nil && body.ok() {
			return body, true
		}
	}
	return parseVendorBody(err.Error())
}

// parseVendorBody digs the JSON error document out of an SDK error message.
func parseVendorBody(msg string) (vendorBody, bool) {
	start := strings.Index(msg, "{")
	end := strings.LastIndex(msg, "}")
	if start < 0 || end <= start {
		return vendorBody{}, false
	}

	var body vendorBody
	if err := json.Unmarshal([]byte(msg[start:end+1]), &body); err != nil {
		return vendorBody{}, false
	}
	return body, body.ok()
}
