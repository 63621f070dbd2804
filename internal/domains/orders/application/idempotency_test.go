package application

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerdomain "github.com/ipcsmmd/webshop/internal/domains/customers/domain"
	"github.com/ipcsmmd/webshop/internal/domains/orders/domain"
	"github.com/ipcsmmd/webshop/internal/domains/orders/ports"
)

type fakeIdempotencyStore struct {
	mu      sync.Mutex
	records map[string]ports.IdempotencyRecord
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{records: map[string]ports.IdempotencyRecord{}}
}

func (s *fakeIdempotencyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *fakeIdempotencyStore) Reserve(_ context.Context, key, requestHash string) (*ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[key]; ok {
		return &existing, false, nil
	}
	record := ports.IdempotencyRecord{Key: key, RequestHash: requestHash}
	s.records[key] = record
	return &record, true, nil
}

func (s *fakeIdempotencyStore) Complete(_ context.Context, key string, orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := s.records[key]
	record.OrderID = orderID
	s.records[key] = record
	return nil
}

func (s *fakeIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[key].Pending() {
		delete(s.records, key)
	}
	return nil
}

type countingPlacement struct {
	service *Service
	calls   int
	keys    []string
}

func (p *countingPlacement) PlaceOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	p.calls++
	p.keys = append(p.keys, ports.PlacementKey(ctx))
	return p.service.AddOrder(ctx, order)
}

func placementFixture() (*IdempotentPlacement, *countingPlacement) {
	service := NewService(newFakeOrderRepo())
	placement := &countingPlacement{service: service}
	return NewIdempotentPlacement(newFakeIdempotencyStore(), service, placement), placement
}

func placeableOrder(customerID int64) *domain.Order {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Order{
		Customer:     &customerdomain.Customer{ID: customerID},
		OrderDate:    now,
		DeliveryDate: now.Add(48 * time.Hour),
		Lines:        []domain.Line{{BeerID: 1, Quantity: 6}},
	}
}

func TestFingerprintOrderIgnoresTimeZone(t *testing.T) {
	a := placeableOrder(1)
	b := placeableOrder(1)
	b.OrderDate = b.OrderDate.In(time.FixedZone("CEST", 2*60*60))

	ha, err := FingerprintOrder(a)
	require.NoError(t, err)
	hb, err := FingerprintOrder(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	c := placeableOrder(2)
	hc, err := FingerprintOrder(c)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)

	_, err = FingerprintOrder(nil)
	require.ErrorIs(t, err, ErrNilOrder)
}

func TestIdempotentPlacementReplaysSameRequest(t *testing.T) {
	guard, placement := placementFixture()
	ctx := context.Background()

	first, replayed, err := guard.Place(ctx, "key-1", placeableOrder(1))
	require.NoError(t, err)
	assert.False(t, replayed)

	second, replayed, err := guard.Place(ctx, "key-1", placeableOrder(1))
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, placement.calls)
	assert.Equal(t, []string{"key-1"}, placement.keys)
}

func TestIdempotentPlacementRejectsChangedPayload(t *testing.T) {
	guard, placement := placementFixture()
	ctx := context.Background()

	_, _, err := guard.Place(ctx, "key-1", placeableOrder(1))
	require.NoError(t, err)

	_, _, err = guard.Place(ctx, "key-1", placeableOrder(2))
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	assert.Equal(t, 1, placement.calls)
}

func TestIdempotentPlacementWithoutKeyAlwaysPlaces(t *testing.T) {
	guard, placement := placementFixture()
	ctx := context.Background()

	a, _, err := guard.Place(ctx, "", placeableOrder(1))
	require.NoError(t, err)
	b, _, err := guard.Place(ctx, "", placeableOrder(1))
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, placement.calls)
	assert.Equal(t, []string{"", ""}, placement.keys)
}

func TestIdempotentPlacementDoesNotRecordRejectedOrders(t *testing.T) {
	guard, _ := placementFixture()
	ctx := context.Background()
	invalid := placeableOrder(1)
	invalid.Customer = nil

	_, _, err := guard.Place(ctx, "key-1", invalid)
	require.ErrorIs(t, err, ErrMissingCustomer)

	placed, replayed, err := guard.Place(ctx, "key-1", invalid)
	require.ErrorIs(t, err, ErrMissingCustomer)
	assert.Nil(t, placed)
	assert.False(t, replayed)
}

// gatedPlacement holds every placement until release is closed.
type gatedPlacement struct {
	service *Service
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func newGatedPlacement(service *Service) *gatedPlacement {
	return &gatedPlacement{service: service, started: make(chan struct{}, 8), release: make(chan struct{})}
}

func (p *gatedPlacement) PlaceOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	p.calls.Add(1)
	p.started <- struct{}{}
	<-p.release
	return p.service.AddOrder(ctx, order)
}

func TestIdempotentPlacementConcurrentRetryWaitsForFirst(t *testing.T) {
	repo := newFakeOrderRepo()
	service := NewService(repo)
	placement := newGatedPlacement(service)
	guard := NewIdempotentPlacement(newFakeIdempotencyStore(), service, placement)
	guard.pendingPoll = time.Millisecond
	ctx := context.Background()

	type outcome struct {
		order    *domain.Order
		replayed bool
		err      error
	}
	results := make(chan outcome, 2)
	place := func() {
		order, replayed, err := guard.Place(ctx, "k1", placeableOrder(1))
		results <- outcome{order, replayed, err}
	}

	go place()
	<-placement.started
	go place()
	time.Sleep(20 * time.Millisecond)
	close(placement.release)

	first, second := <-results, <-results
	require.NoError(t, first.err)
	require.NoError(t, second.err)
	assert.Equal(t, first.order.ID, second.order.ID)
	assert.NotEqual(t, first.replayed, second.replayed)
	assert.Equal(t, int32(1), placement.calls.Load())
	assert.Len(t, repo.orders, 1)
}

func TestIdempotentPlacementGivesUpOnPendingKey(t *testing.T) {
	service := NewService(newFakeOrderRepo())
	placement := newGatedPlacement(service)
	guard := NewIdempotentPlacement(newFakeIdempotencyStore(), service, placement)
	guard.pendingPoll = time.Millisecond
	guard.pendingWait = 10 * time.Millisecond
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, _, err := guard.Place(ctx, "k1", placeableOrder(1))
		done <- err
	}()
	<-placement.started

	_, _, err := guard.Place(ctx, "k1", placeableOrder(1))
	require.ErrorIs(t, err, ports.ErrIdempotencyInProgress)

	_, _, err = guard.Place(ctx, "k1", placeableOrder(2))
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	guard.pendingWait = time.Minute
	_, _, err = guard.Place(cancelled, "k1", placeableOrder(1))
	require.ErrorIs(t, err, context.Canceled)

	close(placement.release)
	require.NoError(t, <-done)
}
