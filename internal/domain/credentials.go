package domain

const (
	FieldEmail    = "email"
	FieldPassword = "password"
)

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// FieldErrors maps a lower-case field name to its message. Empty means valid.
type FieldErrors map[string]string

func (e FieldErrors) HasErrors() bool {
	return len(e) > 0
}
