// Package validator wraps go-playground/validator with the request-level
// rules this API needs beyond plain struct tags.
package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FieldError describes one failed rule on a request field.
type FieldError struct {
	Field string // struct namespace of the failing field
	Rule  string // the validate tag that failed
	Param string // the tag's parameter, if any
}

var validate = validator.New()

func init() {
	// uuid_required: a uuid.UUID field must be present and non-zero.
	// "required" alone cannot tell uuid.Nil apart from a missing value.
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		id, ok := fl.Field().Interface().(uuid.UUID)
		return ok && id != uuid.Nil
	})
}

// ValidateStruct runs the struct's validate tags and returns one entry per
// failed field, nil when everything passes.
func ValidateStruct(data interface{}) []*FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrors []*FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		fieldErrors = append(fieldErrors, &FieldError{
			Field: fe.StructNamespace(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return fieldErrors
}
