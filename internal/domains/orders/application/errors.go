package application

import apierrors "github.com/ipcsmmd/webshop/internal/shared/errors"

// Rule violations reported by the order service.
var (
	ErrNilOrder            = apierrors.NullInput("Input is null!")
	ErrOrderHasID          = apierrors.InvalidState("Cannot save an order with an already existing ID!")
	ErrMissingDeliveryDate = apierrors.InvalidState("Cannot save an order without delivery date!")
	ErrMissingOrderDate    = apierrors.InvalidState("Cannot save an order without order date!")
	ErrMissingCustomer     = apierrors.InvalidState("Cannot save an order without a customer!")
	ErrInvalidID           = apierrors.InvalidState("ID must be greater than 0!")
	ErrMissingUpdateData   = apierrors.Argument("Missing update data!")
	ErrMissingOrderID      = apierrors.Argument("Missing order ID!")
)
