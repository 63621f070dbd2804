package ports

import (
	"context"
	"errors"

	"github.com/ipcsmmd/webshop/internal/domains/customers/domain"
)

var ErrNotFound = errors.New("customer not found")

// Repository persists customers.
type Repository interface {
	Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetAll(ctx context.Context) ([]*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	Remove(ctx context.Context, id int64) (*domain.Customer, error)
}
