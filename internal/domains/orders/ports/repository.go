package ports

import (
	"context"
	"errors"

	"github.com/ipcsmmd/webshop/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists orders.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetAll(ctx context.Context) ([]*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) (*domain.Order, error)
	Remove(ctx context.Context, id int64) (*domain.Order, error)
}
