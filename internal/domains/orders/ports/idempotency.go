package ports

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrIdempotencyConflict indicates the same key was used with a different payload or order.
	ErrIdempotencyConflict = errors.New("idempotency key reused with a different order")
	// ErrIdempotencyInProgress indicates another request holding the key has not finished placing its order.
	ErrIdempotencyInProgress = errors.New("order for idempotency key is still being placed")
)

// IdempotencyRecord associates a client-supplied key with the order it placed.
// OrderID stays zero while the placement holding the key is in flight.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Pending reports whether the record is reserved but not yet bound to an order.
func (r IdempotencyRecord) Pending() bool {
	return r.OrderID == 0
}

// IdempotencyStore persists idempotency keys so retried placements can be replayed safely.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Reserve atomically inserts a pending record for key. When the key is
	// already taken the stored record is returned and reserved is false.
	Reserve(ctx context.Context, key, requestHash string) (record *IdempotencyRecord, reserved bool, err error)
	// Complete binds a reserved key to the order placed under it.
	Complete(ctx context.Context, key string, orderID int64) error
	// Release drops a pending reservation so the key can be used again.
	Release(ctx context.Context, key string) error
}
