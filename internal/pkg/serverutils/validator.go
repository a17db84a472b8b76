package serverutils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks struct tags on a request DTO. The returned error is
// a validator.ValidationErrors, which the error handler maps to 400.
func ValidateRequest(req interface{}) error {
	return validate.Struct(req)
}
