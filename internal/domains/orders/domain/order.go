package domain

import (
	"slices"
	"time"

	customerdomain "github.com/ipcsmmd/webshop/internal/domains/customers/domain"
)

// Line is one ordered beer. Lines are carried through the order service untouched.
type Line struct {
	BeerID   int64
	Quantity int32
}

// Order is a customer's purchase. Zero dates mean the date was not supplied.
type Order struct {
	ID           int64
	Customer     *customerdomain.Customer
	OrderDate    time.Time
	DeliveryDate time.Time
	Lines        []Line
}

// CustomerID returns the referenced customer's identifier, or zero when unset.
func (o *Order) CustomerID() int64 {
	if o == nil || o.Customer == nil {
		return 0
	}
	return o.Customer.ID
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Customer = o.Customer.Clone()
	clone.Lines = slices.Clone(o.Lines)
	return &clone
}

// TotalQuantity sums the quantities of all lines.
func (o *Order) TotalQuantity() int64 {
	if o == nil {
		return 0
	}
	var total int64
	for _, line := range o.Lines {
		total += int64(line.Quantity)
	}
	return total
}
