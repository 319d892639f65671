// Package redirect maps vendor result codes onto result pages.
package redirect

import (
	"net/url"
	"strings"
)

const (
	ResultAuthorised = "Authorised"
	ResultPending    = "Pending"
	ResultReceived   = "Received"
	ResultRefused    = "Refused"
	ResultCancelled  = "Cancelled"
	ResultError      = "Error"
)

type Category string

const (
	Success Category = "success"
	Pending Category = "pending"
	Failed  Category = "failed"
	Error   Category = "error"
)

var destinations = map[string]Category{
	ResultAuthorised: Success,
	ResultPending:    Pending,
	ResultReceived:   Pending,
	ResultRefused:    Failed,
	ResultError:      Failed,
	ResultCancelled:  Failed,
}

// Destination returns the result page category for a vendor result code.
// Unknown codes land on the error page.
func Destination(resultCode, method, country string, sandbox bool) Category {
	if resultCode == ResultCancelled && ShouldRouteCancelledToPending(method, country, sandbox) {
		return Pending
	}

	if c, ok := destinations[resultCode]; ok {
		return c
	}
	return Error
}

// ShouldRouteCancelledToPending masks a sandbox artifact: test MobilePay
// payments in Denmark come back Cancelled from the redirect even when the
// shopper completed them. Remove this once the sandbox stops doing that.
func ShouldRouteCancelledToPending(method, country string, sandbox bool) bool {
	return sandbox &&
		strings.EqualFold(method, "mobilepay") &&
		strings.EqualFold(country, "DK")
}

// IsTransient reports whether the final outcome is still to come through a
// webhook notification.
func IsTransient(resultCode string) bool {
	return resultCode == ResultReceived || resultCode == ResultPending
}

// ResultURL builds the result page location handed to the browser.
func ResultURL(c Category, orderRef, redirectData string) string {
	q := url.Values{}
	q.Set("orderRef", orderRef)
	if redirectData != "" {
		q.Set("redirectData", redirectData)
	}
	return "/result/" + string(c) + "?" + q.Encode()
}
