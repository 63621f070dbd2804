package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ipcsmmd/webshop/internal/domains/orders/domain"
	"github.com/ipcsmmd/webshop/internal/domains/orders/ports"
)

type normalizedOrder struct {
	ID           int64            `json:"id"`
	CustomerID   int64            `json:"customerId"`
	OrderDate    time.Time        `json:"orderDate"`
	DeliveryDate time.Time        `json:"deliveryDate"`
	Lines        []normalizedLine `json:"lines"`
}

type normalizedLine struct {
	BeerID   int64 `json:"beerId"`
	Quantity int32 `json:"quantity"`
}

// FingerprintOrder builds a deterministic hash of a placement request. Dates
// are compared in UTC so equal instants in different zones hash the same.
func FingerprintOrder(order *domain.Order) (string, error) {
	if order == nil {
		return "", ErrNilOrder
	}
	normalized := normalizedOrder{
		ID:           order.ID,
		CustomerID:   order.CustomerID(),
		OrderDate:    order.OrderDate.UTC(),
		DeliveryDate: order.DeliveryDate.UTC(),
		Lines:        make([]normalizedLine, 0, len(order.Lines)),
	}
	for _, line := range order.Lines {
		normalized.Lines = append(normalized.Lines, normalizedLine{BeerID: line.BeerID, Quantity: line.Quantity})
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

const (
	defaultPendingPoll = 25 * time.Millisecond
	defaultPendingWait = 30 * time.Second
)

// IdempotentPlacement places orders at most once per client key. A retry with
// the same key and payload returns the order placed first. The key is
// reserved before placement, so concurrent retries wait for the first one.
type IdempotentPlacement struct {
	store       ports.IdempotencyStore
	orders      ports.Service
	placement   ports.WorkflowOrchestrator
	pendingPoll time.Duration
	pendingWait time.Duration
}

// NewIdempotentPlacement guards placement with store. orders is used to load
// the original order when a request is replayed.
func NewIdempotentPlacement(store ports.IdempotencyStore, orders ports.Service, placement ports.WorkflowOrchestrator) *IdempotentPlacement {
	return &IdempotentPlacement{
		store:       store,
		orders:      orders,
		placement:   placement,
		pendingPoll: defaultPendingPoll,
		pendingWait: defaultPendingWait,
	}
}

// Place runs the placement unless key was already used. replayed reports
// whether the returned order comes from an earlier request.
func (p *IdempotentPlacement) Place(ctx context.Context, key string, order *domain.Order) (placed *domain.Order, replayed bool, err error) {
	if key == "" || p.store == nil {
		placed, err = p.placement.PlaceOrder(ctx, order)
		return placed, false, err
	}
	hash, err := FingerprintOrder(order)
	if err != nil {
		return nil, false, err
	}

	deadline := time.Now().Add(p.pendingWait)
	for {
		record, reserved, err := p.store.Reserve(ctx, key, hash)
		if err != nil {
			return nil, false, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if reserved {
			placed, err = p.placeReserved(ctx, key, order)
			return placed, false, err
		}
		if record.RequestHash != hash {
			return nil, false, ports.ErrIdempotencyConflict
		}
		if !record.Pending() {
			placed, err = p.orders.GetOrderByID(ctx, record.OrderID)
			return placed, err == nil, err
		}
		if time.Now().After(deadline) {
			return nil, false, ports.ErrIdempotencyInProgress
		}
		if err := sleepCtx(ctx, p.pendingPoll); err != nil {
			return nil, false, err
		}
	}
}

func (p *IdempotentPlacement) placeReserved(ctx context.Context, key string, order *domain.Order) (*domain.Order, error) {
	placed, err := p.placement.PlaceOrder(ports.WithPlacementKey(ctx, key), order)
	if err != nil {
		if releaseErr := p.store.Release(context.WithoutCancel(ctx), key); releaseErr != nil {
			return nil, errors.Join(err, fmt.Errorf("release idempotency key: %w", releaseErr))
		}
		return nil, err
	}
	if err := p.store.Complete(context.WithoutCancel(ctx), key, placed.ID); err != nil {
		return nil, fmt.Errorf("complete idempotency key: %w", err)
	}
	return placed, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
