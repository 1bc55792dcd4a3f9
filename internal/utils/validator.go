// internal/utils/validator.go
package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// GetValidationErrors flattens validator errors into field→tag pairs for
// API error details.
func GetValidationErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"error": err.Error()}
	}

	errors := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		errors[fieldError.Field()] = fieldError.Tag()
	}
	return errors
}
