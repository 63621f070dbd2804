package application

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	customerdomain "github.com/ipcsmmd/webshop/internal/domains/customers/domain"
	"github.com/ipcsmmd/webshop/internal/domains/orders/domain"
	"github.com/ipcsmmd/webshop/internal/domains/orders/ports"
	apierrors "github.com/ipcsmmd/webshop/internal/shared/errors"
)

type fakeOrderRepo struct {
	orders     map[int64]*domain.Order
	lastSaved  *domain.Order
	saveCalls  int
	otherCalls int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*domain.Order{}}
}

func (f *fakeOrderRepo) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	f.saveCalls++
	stored := order.Clone()
	stored.ID = int64(len(f.orders) + 1)
	f.orders[stored.ID] = stored
	f.lastSaved = stored
	return stored, nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	f.otherCalls++
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeOrderRepo) GetAll(context.Context) ([]*domain.Order, error) {
	f.otherCalls++
	list := make([]*domain.Order, 0, len(f.orders))
	for _, o := range f.orders {
		list = append(list, o)
	}
	return list, nil
}

func (f *fakeOrderRepo) Update(_ context.Context, order *domain.Order) (*domain.Order, error) {
	f.otherCalls++
	if _, ok := f.orders[order.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeOrderRepo) Remove(_ context.Context, id int64) (*domain.Order, error) {
	f.otherCalls++
	o, ok := f.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	delete(f.orders, id)
	return o, nil
}

func validOrder() *domain.Order {
	ordered := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Order{
		Customer:     &customerdomain.Customer{ID: 3, FirstName: "Ada"},
		OrderDate:    ordered,
		DeliveryDate: ordered.Add(72 * time.Hour),
		Lines:        []domain.Line{{BeerID: 1, Quantity: 6}, {BeerID: 4, Quantity: 12}},
	}
}

func TestAddOrder_ReturnsRepositoryResult(t *testing.T) {
	repo := newFakeOrderRepo()
	saved, err := NewService(repo).AddOrder(context.Background(), validOrder())
	require.NoError(t, err)
	require.Same(t, repo.lastSaved, saved)
	require.Equal(t, validOrder().Lines, saved.Lines)
	require.Equal(t, int64(18), saved.TotalQuantity())
}

func TestAddOrder_RejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.Order) *domain.Order
		want   *apierrors.ValidationError
	}{
		{"nil", func(*domain.Order) *domain.Order { return nil }, ErrNilOrder},
		{"existing id", func(o *domain.Order) *domain.Order { o.ID = 5; return o }, ErrOrderHasID},
		{"missing delivery date", func(o *domain.Order) *domain.Order { o.DeliveryDate = time.Time{}; return o }, ErrMissingDeliveryDate},
		{"missing order date", func(o *domain.Order) *domain.Order { o.OrderDate = time.Time{}; return o }, ErrMissingOrderDate},
		{"missing customer", func(o *domain.Order) *domain.Order { o.Customer = nil; return o }, ErrMissingCustomer},
		{"delivery checked before order date", func(o *domain.Order) *domain.Order {
			o.DeliveryDate, o.OrderDate = time.Time{}, time.Time{}
			return o
		}, ErrMissingDeliveryDate},
		{"dates checked before customer", func(o *domain.Order) *domain.Order {
			o.OrderDate, o.Customer = time.Time{}, nil
			return o
		}, ErrMissingOrderDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeOrderRepo()
			_, err := NewService(repo).AddOrder(context.Background(), tc.mutate(validOrder()))
			require.ErrorIs(t, err, tc.want)
			require.EqualError(t, err, tc.want.Message)
			require.Zero(t, repo.saveCalls)
		})
	}
}

func TestAddOrder_ExistingIDIsInvalidState(t *testing.T) {
	order := validOrder()
	order.ID = 1
	repo := newFakeOrderRepo()
	_, err := NewService(repo).AddOrder(context.Background(), order)
	require.ErrorIs(t, err, apierrors.ErrInvalidState)
	require.Zero(t, repo.saveCalls)
}

func TestGetOrderByID_RejectsNonPositiveIDs(t *testing.T) {
	for _, id := range []int64{0, -1, math.MinInt64} {
		repo := newFakeOrderRepo()
		_, err := NewService(repo).GetOrderByID(context.Background(), id)
		require.ErrorIs(t, err, apierrors.ErrInvalidState)
		require.EqualError(t, err, "ID must be greater than 0!")
		require.Zero(t, repo.otherCalls)
	}
}

func TestUpdateAndRemove_RequireIdentifiers(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.UpdateOrder(ctx, nil)
	require.ErrorIs(t, err, apierrors.ErrArgument)
	require.EqualError(t, err, "Missing update data!")

	withCustomerOnly := validOrder()
	_, err = svc.UpdateOrder(ctx, withCustomerOnly)
	require.ErrorIs(t, err, apierrors.ErrArgument)
	require.EqualError(t, err, "Missing order ID!")

	_, err = svc.RemoveOrder(ctx, 0)
	require.ErrorIs(t, err, ErrMissingOrderID)
	require.Zero(t, repo.otherCalls)
}

func TestOrderLifecycle(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo)
	ctx := context.Background()

	saved, err := svc.AddOrder(ctx, validOrder())
	require.NoError(t, err)

	changed := saved.Clone()
	changed.Lines = append(changed.Lines, domain.Line{BeerID: 9, Quantity: 1})
	updated, err := svc.UpdateOrder(ctx, changed)
	require.NoError(t, err)
	require.Len(t, updated.Lines, 3)

	all, err := svc.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	removed, err := svc.RemoveOrder(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, saved.ID, removed.ID)

	_, err = svc.GetOrderByID(ctx, saved.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
