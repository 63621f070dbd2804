package ports

import (
	"context"

	"github.com/ipcsmmd/webshop/internal/domains/orders/domain"
)

// Service exposes order use cases to adapters.
type Service interface {
	AddOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetOrders(ctx context.Context) ([]*domain.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	UpdateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	RemoveOrder(ctx context.Context, id int64) (*domain.Order, error)
}
