//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ipcsmmd/webshop/internal/domains/catalog/adapters/memory"
	"github.com/ipcsmmd/webshop/internal/domains/catalog/domain"
	"github.com/ipcsmmd/webshop/internal/domains/catalog/ports"
)

func setupRedisContainer(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() {
		_ = client.Close()
		_ = container.Terminate(ctx)
	})
	return client
}

func TestRepository_ServesReadsFromCacheUntilInvalidated(t *testing.T) {
	client := setupRedisContainer(t)
	inner := &countingRepo{Repository: memory.NewRepository()}
	repo := NewRepository(inner, client, WithTTL(time.Minute), WithPrefix("test"))
	ctx := context.Background()

	saved, err := repo.Save(ctx, &domain.Beer{Name: "Stout", Brand: "Guinness", Price: domain.NewPrice(2.5), Type: domain.TypeDark})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := repo.GetByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, "Stout", got.Name)
		_, err = repo.GetAll(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, inner.getByIDCalls)
	assert.Equal(t, 1, inner.getAllCalls)

	saved.Name = "Extra Stout"
	_, err = repo.Update(ctx, saved)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Extra Stout", got.Name)
	assert.Equal(t, 2, inner.getByIDCalls)

	ttl, err := client.TTL(ctx, "test:beer:1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

// racingRepo runs afterRead once, between loading a beer and returning it.
type racingRepo struct {
	ports.Repository
	afterRead func()
}

func (r *racingRepo) GetByID(ctx context.Context, id int64) (*domain.Beer, error) {
	beer, err := r.Repository.GetByID(ctx, id)
	if hook := r.afterRead; hook != nil {
		r.afterRead = nil
		hook()
	}
	return beer, err
}

func TestRepository_ReadRacingAWriteDoesNotCacheStaleBeer(t *testing.T) {
	client := setupRedisContainer(t)
	inner := &racingRepo{Repository: memory.NewRepository()}
	repo := NewRepository(inner, client, WithTTL(time.Minute), WithPrefix("race"))
	ctx := context.Background()

	saved, err := repo.Save(ctx, &domain.Beer{Name: "Stout", Brand: "Guinness", Price: domain.NewPrice(2.5), Type: domain.TypeDark})
	require.NoError(t, err)

	inner.afterRead = func() {
		renamed := saved.Clone()
		renamed.Name = "Extra Stout"
		_, err := repo.Update(ctx, renamed)
		require.NoError(t, err)
	}
	stale, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stout", stale.Name)

	exists, err := client.Exists(ctx, "race:beer:1").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	fresh, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Extra Stout", fresh.Name)
}
