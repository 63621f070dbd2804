package application

import apierrors "github.com/ipcsmmd/webshop/internal/shared/errors"

// Rule violations reported by the customer service.
var (
	ErrNilCustomer       = apierrors.NullInput("Input is null!")
	ErrCustomerHasID     = apierrors.InvalidState("Cannot add customer with existing ID!")
	ErrMissingFirstName  = apierrors.InvalidState("Cannot add customer without first name!")
	ErrMissingLastName   = apierrors.InvalidState("Cannot add customer without last name!")
	ErrMissingEmail      = apierrors.InvalidState("Cannot add customer without email address!")
	ErrMissingAddress    = apierrors.InvalidState("Cannot add customer without address!")
	ErrMissingCustomerID = apierrors.Argument("Missing customer ID!")
	ErrMissingUpdateData = apierrors.Argument("Missing update data!")
)
