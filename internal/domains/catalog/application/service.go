package application

import (
	"cmp"
	"context"
	"math"
	"slices"

	"github.com/ipcsmmd/webshop/internal/domains/catalog/domain"
	"github.com/ipcsmmd/webshop/internal/domains/catalog/ports"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// AddBeer validates a new beer and stores it. The repository assigns the identifier.
func (s *Service) AddBeer(ctx context.Context, beer *domain.Beer) (*domain.Beer, error) {
	if err := validateNewBeer(beer); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, beer)
}

func (s *Service) GetBeerByID(ctx context.Context, id int64) (*domain.Beer, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBeers(ctx context.Context) ([]*domain.Beer, error) {
	return s.repo.GetAll(ctx)
}

// GetBeersByPrice returns every beer ordered by price. Beers with equal prices
// keep the repository order; beers without a price sort lowest.
func (s *Service) GetBeersByPrice(ctx context.Context, ascending bool) ([]*domain.Beer, error) {
	beers, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sorted := slices.Clone(beers)
	slices.SortStableFunc(sorted, func(a, b *domain.Beer) int {
		if ascending {
			return cmp.Compare(sortPrice(a), sortPrice(b))
		}
		return cmp.Compare(sortPrice(b), sortPrice(a))
	})
	return sorted, nil
}

func (s *Service) GetBeersByType(ctx context.Context, beerType domain.Type) ([]*domain.Beer, error) {
	beers, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]*domain.Beer, 0, len(beers))
	for _, beer := range beers {
		if beer != nil && beer.Type == beerType {
			matches = append(matches, beer)
		}
	}
	return matches, nil
}

// GetFilteredBeers hands the filter to the repository untouched.
func (s *Service) GetFilteredBeers(ctx context.Context, filter domain.Filter) (*domain.FilteredBeers, error) {
	return s.repo.GetFiltered(ctx, filter)
}

func (s *Service) RemoveBeer(ctx context.Context, id int64) (*domain.Beer, error) {
	return s.repo.Remove(ctx, id)
}

func (s *Service) UpdateBeer(ctx context.Context, beer *domain.Beer) (*domain.Beer, error) {
	return s.repo.Update(ctx, beer)
}

func validateNewBeer(beer *domain.Beer) error {
	switch {
	case beer == nil:
		return ErrNilBeer
	case beer.ID != 0:
		return ErrBeerHasID
	case beer.Name == "":
		return ErrMissingName
	case beer.Price == nil:
		return ErrMissingPrice
	case beer.Brand == "":
		return ErrMissingBrand
	}
	return nil
}

func sortPrice(beer *domain.Beer) float64 {
	if beer == nil || beer.Price == nil {
		return math.Inf(-1)
	}
	return *beer.Price
}

var _ ports.Service = (*Service)(nil)
