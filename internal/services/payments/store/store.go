// Package store keeps the last known result code and checkout metadata per
// order reference.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("order reference not found")

type PaymentStatusRecord struct {
	OrderRef   string    `json:"orderRef"`
	ResultCode string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

type OrderMetadata struct {
	PaymentMethod   string `json:"paymentMethod"`
	SelectedCountry string `json:"selectedCountry"`
}

// Store is last-write-wins per order reference.
type Store interface {
	SaveStatus(ctx context.Context, orderRef, resultCode string) (PaymentStatusRecord, error)
	Status(ctx context.Context, orderRef string) (PaymentStatusRecord, error)
	AllStatuses(ctx context.Context) (map[string]PaymentStatusRecord, error)
	SaveMetadata(ctx context.Context, orderRef string, meta OrderMetadata) error
	Metadata(ctx context.Context, orderRef string) (OrderMetadata, error)
}

// GenerateOrderRef returns a fresh order reference.
func GenerateOrderRef() string {
	return uuid.NewString()
}

// MemoryStore never evicts.
type MemoryStore struct {
	mu       sync.RWMutex
	statuses map[string]PaymentStatusRecord
	metadata map[string]OrderMetadata
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		statuses: make(map[string]PaymentStatusRecord),
		metadata: make(map[string]OrderMetadata),
		now:      time.Now,
	}
}

func (s *MemoryStore) SaveStatus(_ context.Context, orderRef, resultCode string) (PaymentStatusRecord, error) {
	rec := PaymentStatusRecord{
		OrderRef:   orderRef,
		ResultCode: resultCode,
		Timestamp:  s.now().UTC(),
	}

	s.mu.Lock()
	s.statuses[orderRef] = rec
	s.mu.Unlock()

	return rec, nil
}

func (s *MemoryStore) Status(_ context.Context, orderRef string) (PaymentStatusRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.statuses[orderRef]
	if !ok {
		return PaymentStatusRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) AllStatuses(_ context.Context) (map[string]PaymentStatusRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]PaymentStatusRecord, len(s.statuses))
	for k, v := range s.statuses {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) SaveMetadata(_ context.Context, orderRef string, meta OrderMetadata) error {
	s.mu.Lock()
	s.metadata[orderRef] = meta
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Metadata(_ context.Context, orderRef string) (OrderMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, ok := s.metadata[orderRef]
	if !ok {
		return OrderMetadata{}, ErrNotFound
	}
	return meta, nil
}
