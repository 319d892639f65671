package providers

import (
	"context"
	"sync"

	"github.com/adyen/adyen-go-api-library/v9/src/checkout"
)

// MockCheckout records every request and answers with canned responses.
type MockCheckout struct {
	mu sync.Mutex

	SessionResponse checkout.CreateCheckoutSessionResponse
	MethodsResponse checkout.PaymentMethodsResponse
	PaymentResponse checkout.PaymentResponse
	DetailsResponse checkout.PaymentDetailsResponse
	LinkResponse    checkout.PaymentLinkResponse

	// Err, when set, is returned by every call.
	Err error

	Calls           int
	SessionRequests []checkout.CreateCheckoutSessionRequest
	MethodsRequests []checkout.PaymentMethodsRequest
	PaymentRequests []checkout.PaymentRequest
	DetailsRequests []checkout.PaymentDetailsRequest
	LinkRequests    []checkout.PaymentLinkRequest
}

func NewMockCheckout() *MockCheckout {
	return &MockCheckout{}
}

func (m *MockCheckout) Sessions(_ context.Context, req checkout.CreateCheckoutSessionRequest) (checkout.CreateCheckoutSessionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.SessionRequests = append(m.SessionRequests, req)
	return m.SessionResponse, m.Err
}

func (m *MockCheckout) PaymentMethods(_ context.Context, req checkout.PaymentMethodsRequest) (checkout.PaymentMethodsResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.MethodsRequests = append(m.MethodsRequests, req)
	return m.MethodsResponse, m.Err
}

func (m *MockCheckout) Payments(_ context.Context, req checkout.PaymentRequest) (checkout.PaymentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.PaymentRequests = append(m.PaymentRequests, req)
	return m.PaymentResponse, m.Err
}

func (m *MockCheckout) PaymentsDetails(_ context.Context, req checkout.PaymentDetailsRequest) (checkout.PaymentDetailsResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.DetailsRequests = append(m.DetailsRequests, req)
	return m.DetailsResponse, m.Err
}

func (m *MockCheckout) PaymentLinks(_ context.Context, req checkout.PaymentLinkRequest) (checkout.PaymentLinkResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.LinkRequests = append(m.LinkRequests, req)
	return m.LinkResponse, m.Err
}
