package ports

import (
	"context"

	"github.com/ipcsmmd/webshop/internal/domains/catalog/domain"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	AddBeer(ctx context.Context, beer *domain.Beer) (*domain.Beer, error)
	GetBeerByID(ctx context.Context, id int64) (*domain.Beer, error)
	GetBeers(ctx context.Context) ([]*domain.Beer, error)
	GetBeersByPrice(ctx context.Context, ascending bool) ([]*domain.Beer, error)
	GetBeersByType(ctx context.Context, beerType domain.Type) ([]*domain.Beer, error)
	GetFilteredBeers(ctx context.Context, filter domain.Filter) (*domain.FilteredBeers, error)
	RemoveBeer(ctx context.Context, id int64) (*domain.Beer, error)
	UpdateBeer(ctx context.Context, beer *domain.Beer) (*domain.Beer, error)
}
