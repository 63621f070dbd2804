package ports

import (
	"context"
	"errors"

	"github.com/ipcsmmd/webshop/internal/domains/catalog/domain"
)

var (
	ErrNotFound      = errors.New("beer not found")
	ErrInvalidFilter = domain.ErrInvalidFilter
)

// Repository persists beers. Implementations own identifier assignment and
// the ordering of concurrent writes.
type Repository interface {
	Save(ctx context.Context, beer *domain.Beer) (*domain.Beer, error)
	GetByID(ctx context.Context, id int64) (*domain.Beer, error)
	GetAll(ctx context.Context) ([]*domain.Beer, error)
	GetFiltered(ctx context.Context, filter domain.Filter) (*domain.FilteredBeers, error)
	Update(ctx context.Context, beer *domain.Beer) (*domain.Beer, error)
	Remove(ctx context.Context, id int64) (*domain.Beer, error)
}
