package mapper

import customerdomain "github.com/ipcsmmd/webshop/internal/domains/customers/domain"

// Customer is the HTTP representation of a customer.
type Customer struct {
	ID          int64   `json:"id"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	Address     string  `json:"address"`
	PhoneNumber string  `json:"phoneNumber,omitempty"`
	OrderIDs    []int64 `json:"orderIds,omitempty"`
}

// ToDomainCustomer converts a transport customer into the domain model.
// Order identifiers are read-only and never taken from requests.
func ToDomainCustomer(customer Customer) *customerdomain.Customer {
	return &customerdomain.Customer{
		ID:          customer.ID,
		FirstName:   customer.FirstName,
		LastName:    customer.LastName,
		Email:       customer.Email,
		Address:     customer.Address,
		PhoneNumber: customer.PhoneNumber,
	}
}

func FromDomainCustomer(customer *customerdomain.Customer) Customer {
	if customer == nil {
		return Customer{}
	}
	return Customer{
		ID:          customer.ID,
		FirstName:   customer.FirstName,
		LastName:    customer.LastName,
		Email:       customer.Email,
		Address:     customer.Address,
		PhoneNumber: customer.PhoneNumber,
		OrderIDs:    customer.OrderIDs,
	}
}

func FromDomainCustomers(customers []*customerdomain.Customer) []Customer {
	result := make([]Customer, 0, len(customers))
	for _, customer := range customers {
		result = append(result, FromDomainCustomer(customer))
	}
	return result
}
