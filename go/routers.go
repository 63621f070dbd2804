package webshopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every bounded context.
type ApiHandleFunctions struct {
	BeerAPI     BeerAPI
	CustomerAPI CustomerAPI
	OrderAPI    OrderAPI
}

// NewRouterWithGinEngine adds routes to an existing gin engine. Middleware
// must be installed on router before the call to apply to these routes.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	registerValidators()
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"GetBeers", http.MethodGet, "/api/beers", handleFunctions.BeerAPI.GetBeers},
		{"SearchBeers", http.MethodGet, "/api/beers/search", handleFunctions.BeerAPI.SearchBeers},
		{"AddBeer", http.MethodPost, "/api/beers", handleFunctions.BeerAPI.AddBeer},
		{"GetBeerByID", http.MethodGet, "/api/beers/:beerId", handleFunctions.BeerAPI.GetBeerByID},
		{"UpdateBeer", http.MethodPut, "/api/beers/:beerId", handleFunctions.BeerAPI.UpdateBeer},
		{"RemoveBeer", http.MethodDelete, "/api/beers/:beerId", handleFunctions.BeerAPI.RemoveBeer},

		{"GetCustomers", http.MethodGet, "/api/customers", handleFunctions.CustomerAPI.GetCustomers},
		{"AddCustomer", http.MethodPost, "/api/customers", handleFunctions.CustomerAPI.AddCustomer},
		{"GetCustomerByID", http.MethodGet, "/api/customers/:customerId", handleFunctions.CustomerAPI.GetCustomerByID},
		{"UpdateCustomer", http.MethodPut, "/api/customers/:customerId", handleFunctions.CustomerAPI.UpdateCustomer},
		{"RemoveCustomer", http.MethodDelete, "/api/customers/:customerId", handleFunctions.CustomerAPI.RemoveCustomer},

		{"GetOrders", http.MethodGet, "/api/orders", handleFunctions.OrderAPI.GetOrders},
		{"AddOrder", http.MethodPost, "/api/orders", handleFunctions.OrderAPI.AddOrder},
		{"GetOrderByID", http.MethodGet, "/api/orders/:orderId", handleFunctions.OrderAPI.GetOrderByID},
		{"UpdateOrder", http.MethodPut, "/api/orders/:orderId", handleFunctions.OrderAPI.UpdateOrder},
		{"RemoveOrder", http.MethodDelete, "/api/orders/:orderId", handleFunctions.OrderAPI.RemoveOrder},
	}
}
