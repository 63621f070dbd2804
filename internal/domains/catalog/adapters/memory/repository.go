package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/ipcsmmd/webshop/internal/domains/catalog/domain"
	"github.com/ipcsmmd/webshop/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory beer persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	beers  map[int64]*domain.Beer
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{beers: map[int64]*domain.Beer{}}
}

func (r *Repository) Save(_ context.Context, beer *domain.Beer) (*domain.Beer, error) {
	if beer == nil {
		return nil, errors.New("beer is nil")
	}
	clone := beer.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.beers[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Beer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	beer, ok := r.beers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return beer.Clone(), nil
}

// GetAll returns every beer ordered by identifier.
func (r *Repository) GetAll(_ context.Context) ([]*domain.Beer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(), nil
}

func (r *Repository) GetFiltered(_ context.Context, filter domain.Filter) (*domain.FilteredBeers, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	all := r.snapshot()
	r.mu.RUnlock()

	field := filter.Field()
	matches := make([]*domain.Beer, 0, len(all))
	for _, beer := range all {
		if matchesSearch(beer, field, filter.SearchText) {
			matches = append(matches, beer)
		}
	}
	slices.SortStableFunc(matches, func(a, b *domain.Beer) int {
		if filter.Ascending {
			return compareField(a, b, field)
		}
		return compareField(b, a, field)
	})

	result := &domain.FilteredBeers{Beers: []*domain.Beer{}, TotalCount: int64(len(matches))}
	offset := filter.Offset()
	if offset >= len(matches) {
		return result, nil
	}
	end := min(offset+filter.ItemsPerPage, len(matches))
	result.Beers = matches[offset:end]
	return result, nil
}

func (r *Repository) Update(_ context.Context, beer *domain.Beer) (*domain.Beer, error) {
	if beer == nil {
		return nil, errors.New("beer is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.beers[beer.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	clone := beer.Clone()
	r.beers[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) Remove(_ context.Context, id int64) (*domain.Beer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	beer, ok := r.beers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	delete(r.beers, id)
	return beer, nil
}

// snapshot copies the stored beers in identifier order. Callers hold the lock.
func (r *Repository) snapshot() []*domain.Beer {
	list := make([]*domain.Beer, 0, len(r.beers))
	for _, beer := range r.beers {
		list = append(list, beer.Clone())
	}
	slices.SortFunc(list, func(a, b *domain.Beer) int { return compareInt(a.ID, b.ID) })
	return list
}
