package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	// Decimals are compared as floats; gte=0 only needs the sign.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).IsValid()
	})
	mustRegister(v, "location", func(fl validator.FieldLevel) bool {
		return Location(fl.Field().String()).IsValid()
	})
	mustRegister(v, "status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).IsValid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Validate checks p against the Inventory constraints. It does not check
// uniqueness; that needs the table and is done by the store.
func (p Product) Validate() error {
	if err := validate.Struct(p); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *Error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return newError(CodeValidation, "invalid product").withDetails(details)
	}
	return newError(CodeValidation, "invalid product").withCause(err)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "category":
		return "must be one of the known categories"
	case "location":
		return "must be one of the known locations"
	case "status":
		return "must be Active or Inactive"
	}
	return "is invalid"
}
