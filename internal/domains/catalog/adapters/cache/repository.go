// Package cache provides a redis read-through decorator for the beer repository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ipcsmmd/webshop/internal/domains/catalog/domain"
	"github.com/ipcsmmd/webshop/internal/domains/catalog/ports"
)

const (
	defaultTTL    = 5 * time.Minute
	defaultPrefix = "webshop:catalog"
)

var _ ports.Repository = (*Repository)(nil)

// fillIfCurrent stores ARGV[2] under KEYS[2] only while the generation in
// KEYS[1] still equals ARGV[1].
var fillIfCurrent = redis.NewScript(`
if (redis.call('GET', KEYS[1]) or '0') == ARGV[1] then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
	return 1
end
return 0
`)

// Repository caches single beers and the full catalog listing in redis.
// Writes go to the inner repository first, then bump the catalog generation
// and invalidate the affected keys. A read miss only fills the cache if no
// write bumped the generation while it loaded from the inner repository.
// Redis failures are logged and the inner repository is used instead.
type Repository struct {
	inner  ports.Repository
	client redis.Cmdable
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

type Option func(*Repository)

func WithTTL(ttl time.Duration) Option {
	return func(r *Repository) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

func WithPrefix(prefix string) Option {
	return func(r *Repository) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRepository(inner ports.Repository, client redis.Cmdable, opts ...Option) *Repository {
	r := &Repository{
		inner:  inner,
		client: client,
		ttl:    defaultTTL,
		prefix: defaultPrefix,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// beerEntry is the cached representation of a beer.
type beerEntry struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Brand      string   `json:"brand"`
	Percentage float64  `json:"percentage"`
	Price      *float64 `json:"price,omitempty"`
	Type       string   `json:"type"`
}

func (r *Repository) Save(ctx context.Context, beer *domain.Beer) (*domain.Beer, error) {
	saved, err := r.inner.Save(ctx, beer)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, saved.ID)
	return saved, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Beer, error) {
	key := r.beerKey(id)
	var entry beerEntry
	if r.read(ctx, key, &entry) {
		return entry.toDomain(), nil
	}
	gen, cacheable := r.generation(ctx)
	beer, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cacheable {
		r.fill(ctx, gen, key, toEntry(beer))
	}
	return beer, nil
}

func (r *Repository) GetAll(ctx context.Context) ([]*domain.Beer, error) {
	key := r.allKey()
	var entries []beerEntry
	if r.read(ctx, key, &entries) {
		beers := make([]*domain.Beer, 0, len(entries))
		for _, entry := range entries {
			beers = append(beers, entry.toDomain())
		}
		return beers, nil
	}
	gen, cacheable := r.generation(ctx)
	beers, err := r.inner.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if cacheable {
		entries = make([]beerEntry, 0, len(beers))
		for _, beer := range beers {
			entries = append(entries, toEntry(beer))
		}
		r.fill(ctx, gen, key, entries)
	}
	return beers, nil
}

// GetFiltered is not cached; page contents depend on every write.
func (r *Repository) GetFiltered(ctx context.Context, filter domain.Filter) (*domain.FilteredBeers, error) {
	return r.inner.GetFiltered(ctx, filter)
}

func (r *Repository) Update(ctx context.Context, beer *domain.Beer) (*domain.Beer, error) {
	updated, err := r.inner.Update(ctx, beer)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, updated.ID)
	return updated, nil
}

func (r *Repository) Remove(ctx context.Context, id int64) (*domain.Beer, error) {
	removed, err := r.inner.Remove(ctx, id)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)
	return removed, nil
}

func (r *Repository) beerKey(id int64) string {
	return fmt.Sprintf("%s:beer:%d", r.prefix, id)
}

func (r *Repository) allKey() string {
	return r.prefix + ":beers"
}

func (r *Repository) generationKey() string {
	return r.prefix + ":generation"
}

// read reports whether key was found and decoded into dst.
func (r *Repository) read(ctx context.Context, key string, dst any) bool {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.WarnContext(ctx, "catalog cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		r.logger.WarnContext(ctx, "catalog cache entry corrupt", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}

// generation returns the current catalog generation. cacheable is false when
// redis cannot be asked, in which case the read must not fill the cache.
func (r *Repository) generation(ctx context.Context) (gen string, cacheable bool) {
	gen, err := r.client.Get(ctx, r.generationKey()).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "0", true
	case err != nil:
		r.logger.WarnContext(ctx, "catalog cache generation read failed", slog.String("error", err.Error()))
		return "", false
	}
	return gen, true
}

func (r *Repository) fill(ctx context.Context, gen, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	keys := []string{r.generationKey(), key}
	if err := fillIfCurrent.Run(ctx, r.client, keys, gen, data, r.ttl.Milliseconds()).Err(); err != nil {
		r.logger.WarnContext(ctx, "catalog cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func (r *Repository) invalidate(ctx context.Context, id int64) {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, r.generationKey())
		pipe.Del(ctx, r.beerKey(id), r.allKey())
		return nil
	})
	if err != nil {
		r.logger.WarnContext(ctx, "catalog cache invalidation failed", slog.Int64("beer.id", id), slog.String("error", err.Error()))
	}
}

func toEntry(beer *domain.Beer) beerEntry {
	return beerEntry{
		ID:         beer.ID,
		Name:       beer.Name,
		Brand:      beer.Brand,
		Percentage: beer.Percentage,
		Price:      beer.Price,
		Type:       string(beer.Type),
	}
}

func (e beerEntry) toDomain() *domain.Beer {
	return &domain.Beer{
		ID:         e.ID,
		Name:       e.Name,
		Brand:      e.Brand,
		Percentage: e.Percentage,
		Price:      e.Price,
		Type:       domain.Type(e.Type),
	}
}
