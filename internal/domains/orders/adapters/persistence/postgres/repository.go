package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	customerdomain "github.com/ipcsmmd/webshop/internal/domains/customers/domain"
	"github.com/ipcsmmd/webshop/internal/domains/orders/domain"
	"github.com/ipcsmmd/webshop/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
// The customer is stored by identifier only.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{})
	}
	return repo
}

// orderRecord maps the order entity to a relational table. Lines are kept as
// two parallel arrays so an order stays a single row.
type orderRecord struct {
	ID             int64         `gorm:"primaryKey;column:id"`
	CustomerID     int64         `gorm:"column:customer_id;index"`
	OrderDate      time.Time     `gorm:"column:order_date"`
	DeliveryDate   time.Time     `gorm:"column:delivery_date;index"`
	LineBeerIDs    pq.Int64Array `gorm:"column:line_beer_ids;type:bigint[]"`
	LineQuantities pq.Int64Array `gorm:"column:line_quantities;type:bigint[]"`
	CreatedAt      time.Time     `gorm:"column:created_at;index"`
	UpdatedAt      time.Time     `gorm:"column:updated_at;index"`
}

func (orderRecord) TableName() string { return "orders" }

// Save inserts or updates an order.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"customer_id":     record.CustomerID,
				"order_date":      record.OrderDate,
				"delivery_date":   record.DeliveryDate,
				"line_beer_ids":   record.LineBeerIDs,
				"line_quantities": record.LineQuantities,
				"updated_at":      gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

// GetAll returns every order ordered by identifier.
func (r *Repository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		order, err := records[i].toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Update overwrites an existing order.
func (r *Repository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	result := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"customer_id":     record.CustomerID,
		"order_date":      record.OrderDate,
		"delivery_date":   record.DeliveryDate,
		"line_beer_ids":   record.LineBeerIDs,
		"line_quantities": record.LineQuantities,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, record.ID)
}

// Remove deletes an order and returns it as it was stored.
func (r *Repository) Remove(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var removed *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record orderRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		order, err := record.toDomain()
		if err != nil {
			return err
		}
		if err := tx.Delete(&orderRecord{}, id).Error; err != nil {
			return err
		}
		removed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	rec := orderRecord{
		ID:             order.ID,
		CustomerID:     order.CustomerID(),
		OrderDate:      order.OrderDate,
		DeliveryDate:   order.DeliveryDate,
		LineBeerIDs:    make(pq.Int64Array, 0, len(order.Lines)),
		LineQuantities: make(pq.Int64Array, 0, len(order.Lines)),
	}
	for _, line := range order.Lines {
		rec.LineBeerIDs = append(rec.LineBeerIDs, line.BeerID)
		rec.LineQuantities = append(rec.LineQuantities, int64(line.Quantity))
	}
	return rec
}

func (r orderRecord) toDomain() (*domain.Order, error) {
	if len(r.LineBeerIDs) != len(r.LineQuantities) {
		return nil, fmt.Errorf("order %d has %d beer ids but %d quantities", r.ID, len(r.LineBeerIDs), len(r.LineQuantities))
	}
	order := &domain.Order{
		ID:           r.ID,
		OrderDate:    r.OrderDate,
		DeliveryDate: r.DeliveryDate,
	}
	if r.CustomerID != 0 {
		order.Customer = &customerdomain.Customer{ID: r.CustomerID}
	}
	if len(r.LineBeerIDs) > 0 {
		order.Lines = make([]domain.Line, len(r.LineBeerIDs))
		for i := range r.LineBeerIDs {
			order.Lines[i] = domain.Line{BeerID: r.LineBeerIDs[i], Quantity: int32(r.LineQuantities[i])}
		}
	}
	return order, nil
}
