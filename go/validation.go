package webshopserver

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	catalogdomain "github.com/ipcsmmd/webshop/internal/domains/catalog/domain"
)

var registerOnce sync.Once

// registerValidators adds the custom binding tags used by request structs.
func registerValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("beerfield", validateBeerField)
		}
	})
}

func validateBeerField(fl validator.FieldLevel) bool {
	return catalogdomain.Field(strings.ToLower(fl.Field().String())).Valid()
}
