package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/ipcsmmd/webshop/internal/domains/customers/domain"
	"github.com/ipcsmmd/webshop/internal/domains/customers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory customer persistence adapter.
type Repository struct {
	mu        sync.RWMutex
	customers map[int64]*domain.Customer
	nextID    int64
}

func NewRepository() *Repository {
	return &Repository{customers: map[int64]*domain.Customer{}}
}

func (r *Repository) Save(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	clone := customer.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.customers[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return customer.Clone(), nil
}

// GetAll returns every customer ordered by identifier.
func (r *Repository) GetAll(_ context.Context) ([]*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		list = append(list, customer.Clone())
	}
	slices.SortFunc(list, func(a, b *domain.Customer) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return list, nil
}

// Update overwrites the customer's details. Order identifiers are kept as stored.
func (r *Repository) Update(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.customers[customer.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := customer.Clone()
	clone.OrderIDs = slices.Clone(existing.OrderIDs)
	r.customers[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) Remove(_ context.Context, id int64) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	delete(r.customers, id)
	return customer, nil
}
