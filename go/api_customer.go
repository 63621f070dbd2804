package webshopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	customermapper "github.com/ipcsmmd/webshop/internal/domains/customers/adapters/http/mapper"
	customerports "github.com/ipcsmmd/webshop/internal/domains/customers/ports"
)

// CustomerAPI wires HTTP transport with the customers service.
type CustomerAPI struct {
	service customerports.Service
}

// NewCustomerAPI creates a CustomerAPI backed by the provided service.
func NewCustomerAPI(service customerports.Service) CustomerAPI {
	return CustomerAPI{service: service}
}

// Get /api/customers
func (api *CustomerAPI) GetCustomers(c *gin.Context) {
	customers, err := api.service.GetAllCustomers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customermapper.FromDomainCustomers(customers))
}

// Post /api/customers
// Registers a customer
func (api *CustomerAPI) AddCustomer(c *gin.Context) {
	var payload customermapper.Customer
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	saved, err := api.service.AddCustomer(c.Request.Context(), customermapper.ToDomainCustomer(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customermapper.FromDomainCustomer(saved))
}

// Get /api/customers/:customerId
func (api *CustomerAPI) GetCustomerByID(c *gin.Context) {
	id, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	customer, err := api.service.GetCustomerByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customermapper.FromDomainCustomer(customer))
}

// Put /api/customers/:customerId
func (api *CustomerAPI) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	var payload customermapper.Customer
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	customer := customermapper.ToDomainCustomer(payload)
	customer.ID = id
	updated, err := api.service.UpdateCustomer(c.Request.Context(), customer)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customermapper.FromDomainCustomer(updated))
}

// Delete /api/customers/:customerId
func (api *CustomerAPI) RemoveCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	removed, err := api.service.RemoveCustomer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customermapper.FromDomainCustomer(removed))
}
