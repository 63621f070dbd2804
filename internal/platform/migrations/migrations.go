package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&beerRecord{},
		&customerRecord{},
		&orderRecord{},
		&orderIdempotencyRecord{},
	)
}

// Beer schema mirrors the catalog Postgres adapter.
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

// Customer schema mirrors the customers Postgres adapter.
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

// Order schema mirrors the orders Postgres adapter.
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

// Placement keys mirror the orders idempotency store.
type orderIdempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     int64     `gorm:"column:order_id;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (orderIdempotencyRecord) TableName() string { return "order_idempotency_keys" }
