package application

import (
	"context"

	"github.com/ipcsmmd/webshop/internal/domains/orders/domain"
	"github.com/ipcsmmd/webshop/internal/domains/orders/ports"
)

// Service orchestrates order use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// AddOrder validates a new order and returns exactly what the repository stored.
func (s *Service) AddOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := validateNewOrder(order); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, order)
}

func (s *Service) GetOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateOrder requires the order's own identifier.
func (s *Service) UpdateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, ErrMissingUpdateData
	}
	if order.ID == 0 {
		return nil, ErrMissingOrderID
	}
	return s.repo.Update(ctx, order)
}

func (s *Service) RemoveOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if id == 0 {
		return nil, ErrMissingOrderID
	}
	return s.repo.Remove(ctx, id)
}

func validateNewOrder(order *domain.Order) error {
	switch {
	case order == nil:
		return ErrNilOrder
	case order.ID != 0:
		return ErrOrderHasID
	case order.DeliveryDate.IsZero():
		return ErrMissingDeliveryDate
	case order.OrderDate.IsZero():
		return ErrMissingOrderDate
	case order.Customer == nil:
		return ErrMissingCustomer
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
