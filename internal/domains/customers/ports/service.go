package ports

import (
	"context"

	"github.com/ipcsmmd/webshop/internal/domains/customers/domain"
)

// Service exposes customer use cases to adapters.
type Service interface {
	AddCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	GetCustomerByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetAllCustomers(ctx context.Context) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	RemoveCustomer(ctx context.Context, id int64) (*domain.Customer, error)
}
