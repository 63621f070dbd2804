package application

import (
	"context"

	"github.com/ipcsmmd/webshop/internal/domains/customers/domain"
	"github.com/ipcsmmd/webshop/internal/domains/customers/ports"
)

// Service orchestrates customer use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// AddCustomer validates a new customer and stores it.
func (s *Service) AddCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := validateNewCustomer(customer); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, customer)
}

func (s *Service) GetCustomerByID(ctx context.Context, id int64) (*domain.Customer, error) {
	if id == 0 {
		return nil, ErrMissingCustomerID
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetAllCustomers(ctx context.Context) ([]*domain.Customer, error) {
	customers, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []*domain.Customer{}
	}
	return customers, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil {
		return nil, ErrMissingUpdateData
	}
	if customer.ID == 0 {
		return nil, ErrMissingCustomerID
	}
	return s.repo.Update(ctx, customer)
}

func (s *Service) RemoveCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	if id == 0 {
		return nil, ErrMissingCustomerID
	}
	return s.repo.Remove(ctx, id)
}

func validateNewCustomer(customer *domain.Customer) error {
	switch {
	case customer == nil:
		return ErrNilCustomer
	case customer.ID != 0:
		return ErrCustomerHasID
	case customer.FirstName == "":
		return ErrMissingFirstName
	case customer.LastName == "":
		return ErrMissingLastName
	case customer.Email == "":
		return ErrMissingEmail
	case customer.Address == "":
		return ErrMissingAddress
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
