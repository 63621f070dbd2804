package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipcsmmd/webshop/internal/domains/catalog/domain"
	"github.com/ipcsmmd/webshop/internal/domains/catalog/ports"
)

func seed(t *testing.T, repo *Repository) {
	t.Helper()
	beers := []*domain.Beer{
		{Name: "Pilsner", Brand: "Urquell", Percentage: 4.4, Price: domain.NewPrice(1.9), Type: domain.TypeLight},
		{Name: "Stout", Brand: "Guinness", Percentage: 4.2, Price: domain.NewPrice(2.5), Type: domain.TypeDark},
		{Name: "Brown Ale", Brand: "Newcastle", Percentage: 4.7, Price: domain.NewPrice(2.1), Type: domain.TypeBrown},
		{Name: "Porter", Brand: "Fuller's", Percentage: 5.4, Price: domain.NewPrice(2.5), Type: domain.TypeDark},
		{Name: "Lager", Brand: "Budweiser", Percentage: 5.0, Price: domain.NewPrice(1.2), Type: domain.TypeLight},
	}
	for _, beer := range beers {
		_, err := repo.Save(context.Background(), beer)
		require.NoError(t, err)
	}
}

func ids(beers []*domain.Beer) []int64 {
	out := make([]int64, 0, len(beers))
	for _, beer := range beers {
		out = append(out, beer.ID)
	}
	return out
}

func TestRepository_CRUD(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	saved, err := repo.Save(ctx, &domain.Beer{Name: "Pilsner", Brand: "Urquell", Price: domain.NewPrice(1.9)})
	require.NoError(t, err)
	require.Equal(t, int64(1), saved.ID)

	saved.Name = "mutated"
	stored, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Pilsner", stored.Name)

	stored.Brand = "Plzen"
	updated, err := repo.Update(ctx, stored)
	require.NoError(t, err)
	require.Equal(t, "Plzen", updated.Brand)

	_, err = repo.Update(ctx, &domain.Beer{ID: 99})
	require.ErrorIs(t, err, ports.ErrNotFound)

	removed, err := repo.Remove(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Plzen", removed.Brand)

	_, err = repo.GetByID(ctx, 1)
	require.ErrorIs(t, err, ports.ErrNotFound)
	_, err = repo.Remove(ctx, 1)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ExplicitIDAdvancesSequence(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	_, err := repo.Save(ctx, &domain.Beer{ID: 10, Name: "seeded"})
	require.NoError(t, err)
	next, err := repo.Save(ctx, &domain.Beer{Name: "next"})
	require.NoError(t, err)
	require.Equal(t, int64(11), next.ID)
}

func TestRepository_GetAllOrderedByID(t *testing.T) {
	repo := NewRepository()
	seed(t, repo)

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(all))
}

func TestRepository_GetFiltered(t *testing.T) {
	repo := NewRepository()
	seed(t, repo)

	cases := []struct {
		name   string
		filter domain.Filter
		want   []int64
		total  int64
	}{
		{
			name:   "first page by id",
			filter: domain.Filter{CurrentPage: 1, ItemsPerPage: 2, Ascending: true},
			want:   []int64{1, 2},
			total:  5,
		},
		{
			name:   "last partial page",
			filter: domain.Filter{CurrentPage: 3, ItemsPerPage: 2, Ascending: true},
			want:   []int64{5},
			total:  5,
		},
		{
			name:   "page past the end",
			filter: domain.Filter{CurrentPage: 4, ItemsPerPage: 2, Ascending: true},
			want:   []int64{},
			total:  5,
		},
		{
			name:   "search type case insensitive",
			filter: domain.Filter{CurrentPage: 1, ItemsPerPage: 10, Ascending: true, SearchField: domain.FieldType, SearchText: "DARK"},
			want:   []int64{2, 4},
			total:  2,
		},
		{
			name:   "price descending ties by id",
			filter: domain.Filter{CurrentPage: 1, ItemsPerPage: 10, SearchField: domain.FieldPrice},
			want:   []int64{4, 2, 3, 1, 5},
			total:  5,
		},
		{
			name:   "name substring",
			filter: domain.Filter{CurrentPage: 1, ItemsPerPage: 10, Ascending: true, SearchField: domain.FieldName, SearchText: "er"},
			want:   []int64{5, 1, 4},
			total:  3,
		},
		{
			name:   "brand ascending",
			filter: domain.Filter{CurrentPage: 1, ItemsPerPage: 10, Ascending: true, SearchField: domain.FieldBrand},
			want:   []int64{5, 4, 2, 3, 1},
			total:  5,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := repo.GetFiltered(context.Background(), tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(result.Beers))
			assert.Equal(t, tc.total, result.TotalCount)
		})
	}
}

func TestRepository_GetFilteredRejectsInvalidFilter(t *testing.T) {
	repo := NewRepository()
	_, err := repo.GetFiltered(context.Background(), domain.Filter{CurrentPage: 0, ItemsPerPage: 10})
	require.ErrorIs(t, err, ports.ErrInvalidFilter)
}

func TestRepository_GetFilteredRejectsOverflowingPage(t *testing.T) {
	repo := NewRepository()
	seed(t, repo)

	_, err := repo.GetFiltered(context.Background(), domain.Filter{CurrentPage: 1<<62 + 1, ItemsPerPage: 2})
	require.ErrorIs(t, err, ports.ErrInvalidFilter)

	result, err := repo.GetFiltered(context.Background(), domain.Filter{CurrentPage: 1 << 40, ItemsPerPage: 2})
	require.NoError(t, err)
	assert.Empty(t, result.Beers)
	assert.Equal(t, int64(5), result.TotalCount)
}

func TestRepository_ConcurrentSavesGetDistinctIDs(t *testing.T) {
	repo := NewRepository()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Save(context.Background(), &domain.Beer{Name: "concurrent"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 50)
	assert.Equal(t, int64(50), all[49].ID)
}
