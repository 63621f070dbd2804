package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ipcsmmd/webshop/internal/domains/customers/domain"
	"github.com/ipcsmmd/webshop/internal/domains/customers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists customers in PostgreSQL using GORM. Order identifiers are
// read from the orders table and never written from here.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&customerRecord{})
	}
	return repo
}

// customerRecord maps the customer entity to a relational table.
type customerRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	FirstName   string    `gorm:"column:first_name"`
	LastName    string    `gorm:"column:last_name;index"`
	Email       string    `gorm:"column:email;index"`
	Address     string    `gorm:"column:address"`
	PhoneNumber string    `gorm:"column:phone_number"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }

// orderRef is the slice of an orders row needed to link customers to orders.
type orderRef struct {
	ID         int64
	CustomerID int64
}

// Save inserts or updates a customer.
func (r *Repository) Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	record := toRecord(customer)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"first_name":   record.FirstName,
				"last_name":    record.LastName,
				"email":        record.Email,
				"address":      record.Address,
				"phone_number": record.PhoneNumber,
				"updated_at":   gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a customer and the identifiers of their orders.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record customerRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	orders, err := r.orderIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return record.toDomain(orders[id]), nil
}

// GetAll returns every customer ordered by identifier.
func (r *Repository) GetAll(ctx context.Context) ([]*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []customerRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}
	orders, err := r.orderIDs(ctx, ids...)
	if err != nil {
		return nil, err
	}
	customers := make([]*domain.Customer, 0, len(records))
	for i := range records {
		customers = append(customers, records[i].toDomain(orders[records[i].ID]))
	}
	return customers, nil
}

// Update overwrites an existing customer.
func (r *Repository) Update(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	record := toRecord(customer)
	result := r.db.WithContext(ctx).Model(&customerRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"first_name":   record.FirstName,
		"last_name":    record.LastName,
		"email":        record.Email,
		"address":      record.Address,
		"phone_number": record.PhoneNumber,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, record.ID)
}

// Remove deletes a customer and returns it as it was stored.
func (r *Repository) Remove(ctx context.Context, id int64) (*domain.Customer, error) {
	removed, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Delete(&customerRecord{}, id)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return removed, nil
}

func (r *Repository) orderIDs(ctx context.Context, customerIDs ...int64) (map[int64][]int64, error) {
	result := make(map[int64][]int64, len(customerIDs))
	if len(customerIDs) == 0 || !r.db.Migrator().HasTable("orders") {
		return result, nil
	}
	var refs []orderRef
	if err := r.db.WithContext(ctx).
		Table("orders").
		Select("id, customer_id").
		Where("customer_id IN ?", customerIDs).
		Order("id").
		Scan(&refs).Error; err != nil {
		return nil, err
	}
	for _, ref := range refs {
		result[ref.CustomerID] = append(result[ref.CustomerID], ref.ID)
	}
	return result, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres customer repository not configured")
	}
	return nil
}

func toRecord(customer *domain.Customer) customerRecord {
	return customerRecord{
		ID:          customer.ID,
		FirstName:   customer.FirstName,
		LastName:    customer.LastName,
		Email:       customer.Email,
		Address:     customer.Address,
		PhoneNumber: customer.PhoneNumber,
	}
}

func (r customerRecord) toDomain(orderIDs []int64) *domain.Customer {
	return &domain.Customer{
		ID:          r.ID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Address:     r.Address,
		PhoneNumber: r.PhoneNumber,
		OrderIDs:    orderIDs,
	}
}
