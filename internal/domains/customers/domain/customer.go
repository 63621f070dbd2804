package domain

import "slices"

// Customer places orders. A zero ID means the customer has not been stored yet.
// OrderIDs references the customer's orders and is only used for lookups.
type Customer struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	Address     string
	PhoneNumber string
	OrderIDs    []int64
}

// Clone returns a copy that does not share the order id slice.
func (c *Customer) Clone() *Customer {
	if c == nil {
		return nil
	}
	clone := *c
	clone.OrderIDs = slices.Clone(c.OrderIDs)
	return &clone
}

// FullName joins first and last name.
func (c *Customer) FullName() string {
	if c == nil {
		return ""
	}
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
