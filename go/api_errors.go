package webshopserver

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	catalogports "github.com/ipcsmmd/webshop/internal/domains/catalog/ports"
	customerports "github.com/ipcsmmd/webshop/internal/domains/customers/ports"
	orderports "github.com/ipcsmmd/webshop/internal/domains/orders/ports"
	apierrors "github.com/ipcsmmd/webshop/internal/shared/errors"
)

var serviceResponder = newServiceResponder()

func newServiceResponder() *apierrors.Responder {
	responder := apierrors.NewResponder(
		apierrors.ValidationMapper,
		apierrors.SentinelMapper(apierrors.ErrNotFound, catalogports.ErrNotFound, customerports.ErrNotFound, orderports.ErrNotFound),
		apierrors.SentinelMapper(apierrors.ErrBadRequest, catalogports.ErrInvalidFilter),
		apierrors.SentinelMapper(apierrors.ErrConflict, orderports.ErrIdempotencyConflict, orderports.ErrIdempotencyInProgress),
	)
	responder.RequestIDHeader = RequestIDHeader
	return responder
}

// respondServiceError maps errors returned by application services to problem details.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	serviceResponder.RespondError(c, err)
}

// respondBindingError reports malformed requests, listing failed fields when available.
func respondBindingError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = fe.Tag()
		}
		serviceResponder.ValidationFailed(c, fields)
		return
	}
	serviceResponder.BadRequest(c, err.Error())
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		serviceResponder.Respond(c, apierrors.NewParameterProblem(name, name+" must be an integer"))
		return 0, false
	}
	return id, true
}
