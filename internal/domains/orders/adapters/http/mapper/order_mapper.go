package mapper

import (
	"time"

	customerdomain "github.com/ipcsmmd/webshop/internal/domains/customers/domain"
	orderdomain "github.com/ipcsmmd/webshop/internal/domains/orders/domain"
)

// Line is the HTTP representation of an ordered beer.
type Line struct {
	BeerID   int64 `json:"beerId"`
	Quantity int32 `json:"quantity"`
}

// Order is the HTTP representation of an order. The customer is referenced by id.
type Order struct {
	ID           int64      `json:"id"`
	CustomerID   int64      `json:"customerId,omitempty"`
	OrderDate    *time.Time `json:"orderDate,omitempty"`
	DeliveryDate *time.Time `json:"deliveryDate,omitempty"`
	Lines        []Line     `json:"lines"`
}

// ToDomainOrder converts a transport order into the orders domain model.
// Missing dates and customer stay unset so the service can reject them.
func ToDomainOrder(order Order) *orderdomain.Order {
	result := &orderdomain.Order{ID: order.ID}
	if order.CustomerID != 0 {
		result.Customer = &customerdomain.Customer{ID: order.CustomerID}
	}
	if order.OrderDate != nil {
		result.OrderDate = *order.OrderDate
	}
	if order.DeliveryDate != nil {
		result.DeliveryDate = *order.DeliveryDate
	}
	if len(order.Lines) > 0 {
		result.Lines = make([]orderdomain.Line, 0, len(order.Lines))
		for _, line := range order.Lines {
			result.Lines = append(result.Lines, orderdomain.Line{BeerID: line.BeerID, Quantity: line.Quantity})
		}
	}
	return result
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *orderdomain.Order) Order {
	if order == nil {
		return Order{Lines: []Line{}}
	}
	out := Order{
		ID:         order.ID,
		CustomerID: order.CustomerID(),
		Lines:      make([]Line, 0, len(order.Lines)),
	}
	if !order.OrderDate.IsZero() {
		date := order.OrderDate
		out.OrderDate = &date
	}
	if !order.DeliveryDate.IsZero() {
		date := order.DeliveryDate
		out.DeliveryDate = &date
	}
	for _, line := range order.Lines {
		out.Lines = append(out.Lines, Line{BeerID: line.BeerID, Quantity: line.Quantity})
	}
	return out
}

func FromDomainOrders(orders []*orderdomain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, FromDomainOrder(order))
	}
	return result
}
