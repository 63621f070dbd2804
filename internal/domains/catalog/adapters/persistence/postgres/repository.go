package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ipcsmmd/webshop/internal/domains/catalog/domain"
	"github.com/ipcsmmd/webshop/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists beers in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&beerRecord{})
	}
	return repo
}

// beerRecord maps the beer entity to a relational table.
type beerRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	Name       string    `gorm:"column:name;type:varchar(255);index"`
	Brand      string    `gorm:"column:brand;type:varchar(255);index"`
	Percentage float64   `gorm:"column:percentage"`
	Price      *float64  `gorm:"column:price"`
	Type       string    `gorm:"column:type;type:varchar(16);index"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (beerRecord) TableName() string { return "beers" }

// searchColumns renders each searchable field as text for ILIKE matching.
var searchColumns = map[domain.Field]string{
	domain.FieldID:         "CAST(id AS TEXT)",
	domain.FieldName:       "name",
	domain.FieldBrand:      "brand",
	domain.FieldPrice:      "CAST(price AS TEXT)",
	domain.FieldType:       "type",
	domain.FieldPercentage: "CAST(percentage AS TEXT)",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes text match literally inside a LIKE pattern.
func escapeLike(text string) string {
	return likeEscaper.Replace(text)
}

var orderColumns = map[domain.Field]string{
	domain.FieldID:         "id",
	domain.FieldName:       "LOWER(name)",
	domain.FieldBrand:      "LOWER(brand)",
	domain.FieldPrice:      "price",
	domain.FieldType:       "type",
	domain.FieldPercentage: "percentage",
}

// orderBy sorts on the field, then the identifier. Missing prices sort lowest.
func orderBy(field domain.Field, ascending bool) string {
	direction, nulls := "DESC", "NULLS LAST"
	if ascending {
		direction, nulls = "ASC", "NULLS FIRST"
	}
	return fmt.Sprintf("%s %s %s, id %s", orderColumns[field], direction, nulls, direction)
}

// Save inserts a beer, or overwrites it when the identifier is already taken.
func (r *Repository) Save(ctx context.Context, beer *domain.Beer) (*domain.Beer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if beer == nil {
		return nil, errors.New("beer is nil")
	}
	record := toRecord(beer)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":       record.Name,
				"brand":      record.Brand,
				"percentage": record.Percentage,
				"price":      record.Price,
				"type":       record.Type,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a beer by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Beer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record beerRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetAll returns every beer ordered by identifier.
func (r *Repository) GetAll(ctx context.Context) ([]*domain.Beer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []beerRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

// GetFiltered searches, orders and paginates beers in the database.
func (r *Repository) GetFiltered(ctx context.Context, filter domain.Filter) (*domain.FilteredBeers, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	field := filter.Field()
	query := r.db.WithContext(ctx).Model(&beerRecord{})
	if text := strings.TrimSpace(filter.SearchText); text != "" {
		query = query.Where(searchColumns[field]+` ILIKE ? ESCAPE '\'`, "%"+escapeLike(text)+"%")
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var records []beerRecord
	if err := query.
		Order(orderBy(field, filter.Ascending)).
		Offset(filter.Offset()).
		Limit(filter.ItemsPerPage).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return &domain.FilteredBeers{Beers: toDomainList(records), TotalCount: total}, nil
}

// Update overwrites an existing beer.
func (r *Repository) Update(ctx context.Context, beer *domain.Beer) (*domain.Beer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if beer == nil {
		return nil, errors.New("beer is nil")
	}
	record := toRecord(beer)
	result := r.db.WithContext(ctx).Model(&beerRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"name":       record.Name,
		"brand":      record.Brand,
		"percentage": record.Percentage,
		"price":      record.Price,
		"type":       record.Type,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, record.ID)
}

// Remove deletes a beer and returns it as it was stored.
func (r *Repository) Remove(ctx context.Context, id int64) (*domain.Beer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var removed *domain.Beer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record beerRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(&beerRecord{}, id).Error; err != nil {
			return err
		}
		removed = record.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres beer repository not configured")
	}
	return nil
}

func toRecord(beer *domain.Beer) beerRecord {
	return beerRecord{
		ID:         beer.ID,
		Name:       beer.Name,
		Brand:      beer.Brand,
		Percentage: beer.Percentage,
		Price:      beer.Price,
		Type:       string(beer.Type),
	}
}

func (r beerRecord) toDomain() *domain.Beer {
	return &domain.Beer{
		ID:         r.ID,
		Name:       r.Name,
		Brand:      r.Brand,
		Percentage: r.Percentage,
		Price:      r.Price,
		Type:       domain.Type(r.Type),
	}
}

func toDomainList(records []beerRecord) []*domain.Beer {
	beers := make([]*domain.Beer, 0, len(records))
	for i := range records {
		beers = append(beers, records[i].toDomain())
	}
	return beers
}
