package webshopserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/ipcsmmd/webshop/internal/domains/orders/adapters/http/mapper"
	orderworkflows "github.com/ipcsmmd/webshop/internal/domains/orders/adapters/workflows"
	orderapp "github.com/ipcsmmd/webshop/internal/domains/orders/application"
	orderports "github.com/ipcsmmd/webshop/internal/domains/orders/ports"
)

// IdempotencyKeyHeader lets clients retry order placement safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI wires HTTP transport with the orders service and placement workflows.
type OrderAPI struct {
	service   orderports.Service
	placement *orderapp.IdempotentPlacement
}

// NewOrderAPI creates an OrderAPI. workflows may be nil, in which case orders
// are placed directly through the service. idempotency may be nil to ignore
// the Idempotency-Key header.
func NewOrderAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator, idempotency orderports.IdempotencyStore) OrderAPI {
	if workflows == nil {
		workflows = orderworkflows.NewInlineOrderWorkflows(service)
	}
	return OrderAPI{
		service:   service,
		placement: orderapp.NewIdempotentPlacement(idempotency, service, workflows),
	}
}

// Get /api/orders
func (api *OrderAPI) GetOrders(c *gin.Context) {
	orders, err := api.service.GetOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrders(orders))
}

// Post /api/orders
// Places an order. A replayed Idempotency-Key answers 200 with the original order.
func (api *OrderAPI) AddOrder(c *gin.Context) {
	var payload ordermapper.Order
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	saved, replayed, err := api.placement.Place(c.Request.Context(), key, ordermapper.ToDomainOrder(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	c.JSON(status, ordermapper.FromDomainOrder(saved))
}

// Get /api/orders/:orderId
func (api *OrderAPI) GetOrderByID(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(order))
}

// Put /api/orders/:orderId
func (api *OrderAPI) UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload ordermapper.Order
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	order := ordermapper.ToDomainOrder(payload)
	order.ID = id
	updated, err := api.service.UpdateOrder(c.Request.Context(), order)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(updated))
}

// Delete /api/orders/:orderId
func (api *OrderAPI) RemoveOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	removed, err := api.service.RemoveOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(removed))
}
