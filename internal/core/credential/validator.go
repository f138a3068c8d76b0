// Package credential checks login credentials before they are submitted.
package credential

import (
	"fmt"

	"portal/internal/domain"
	"portal/internal/validator"
)

const (
	MsgEmailRequired    = "Email is required"
	MsgEmailInvalid     = "Invalid email address format"
	MsgPasswordRequired = "Password is required"
	MsgPasswordTooShort = "Password must be 8 characters at minimum"
)

var structFields = map[string]string{
	domain.FieldEmail:    "Email",
	domain.FieldPassword: "Password",
}

// Validator is pure: no I/O, no retained state besides the rule set.
type Validator struct {
	v validator.Validator
}

func NewValidator() *Validator {
	return &Validator{
		v: validator.New(validator.Messages{
			"email.required":    MsgEmailRequired,
			"email.email":       MsgEmailInvalid,
			"password.required": MsgPasswordRequired,
			"password.min":      MsgPasswordTooShort,
		}),
	}
}

func (c *Validator) Validate(creds domain.Credentials) domain.FieldErrors {
	errs := c.v.Validate(creds)
	if len(errs) == 0 {
		return nil
	}
	return domain.FieldErrors(errs)
}

// ValidateField checks one field, used on every keystroke.
func (c *Validator) ValidateField(creds domain.Credentials, field string) (domain.FieldErrors, error) {
	structField, ok := structFields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
	}

	errs := c.v.ValidateField(creds, structField)
	if len(errs) == 0 {
		return nil, nil
	}
	return domain.FieldErrors(errs), nil
}
