// Package validator maps go-playground/validator failures to one message per
// field, keyed by the field's lower-case name.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Validator interface {
	Validate(payload any) map[string]string
	ValidateField(payload any, field string) map[string]string
}

// Messages overrides the default text for a "field.tag" pair, e.g.
// "email.required".
type Messages map[string]string

type structValidator struct {
	validate *validator.Validate
	messages Messages
}

func New(messages Messages) Validator {
	return &structValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		messages: messages,
	}
}

func (v *structValidator) Validate(payload any) map[string]string {
	return v.collect(v.validate.Struct(payload))
}

// ValidateField validates a single struct field, named by its Go field name.
func (v *structValidator) ValidateField(payload any, field string) map[string]string {
	return v.collect(v.validate.StructPartial(payload, field))
}

func (v *structValidator) collect(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["_"] = err.Error()
		return errs
	}

	for _, fe := range validationErrors {
		fieldName := strings.ToLower(fe.Field())
		if _, seen := errs[fieldName]; seen {
			continue
		}
		if msg, ok := v.messages[fieldName+"."+fe.Tag()]; ok {
			errs[fieldName] = msg
			continue
		}
		errs[fieldName] = defaultMessage(fe)
	}

	return errs
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", fe.Field())
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", fe.Field(), fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s field must be equal to %s field.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}
}
