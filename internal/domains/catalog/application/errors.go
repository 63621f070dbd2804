package application

import apierrors "github.com/ipcsmmd/webshop/internal/shared/errors"

// Rule violations reported by the catalog service.
var (
	ErrNilBeer      = apierrors.NullInput("Input is null!")
	ErrBeerHasID    = apierrors.InvalidState("Cannot add a Beer with existing id!")
	ErrMissingName  = apierrors.InvalidState("Cannot add a Beer without name!")
	ErrMissingPrice = apierrors.InvalidState("Cannot add a Beer without price!")
	ErrMissingBrand = apierrors.InvalidState("Cannot add a Beer without brand!")
	ErrInvalidID    = apierrors.InvalidState("ID must be greater than 0!")
)
