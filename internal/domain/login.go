package domain

import (
	"context"
	"fmt"
)

// FailureCode enumerates the authentication outcomes the account API reports.
type FailureCode int

const (
	CodeNotConfirmed FailureCode = iota + 1
	CodeNoAccount
	CodeInvalidPassword
)

const (
	WireCodeNotConfirmed    = "AUTH_NOT_CONFIRMED"
	WireCodeNoAccount       = "AUTH_NO_ACCOUNT"
	WireCodeInvalidPassword = "AUTH_INVALID_PASSWORD"
)

func (c FailureCode) String() string {
	switch c {
	case CodeNotConfirmed:
		return WireCodeNotConfirmed
	case CodeNoAccount:
		return WireCodeNoAccount
	case CodeInvalidPassword:
		return WireCodeInvalidPassword
	default:
		return fmt.Sprintf("FailureCode(%d)", int(c))
	}
}

// ParseFailureCode accepts only the enumerated wire codes. Anything else is a
// transport failure, never a silent invalid-password.
func ParseFailureCode(raw string) (FailureCode, error) {
	switch raw {
	case WireCodeNotConfirmed:
		return CodeNotConfirmed, nil
	case WireCodeNoAccount:
		return CodeNoAccount, nil
	case WireCodeInvalidPassword:
		return CodeInvalidPassword, nil
	default:
		return 0, fmt.Errorf("%w: unrecognized response code %q", ErrTransport, raw)
	}
}

// LoginResult is either LoginSuccess or LoginFailure.
type LoginResult interface {
	isLoginResult()
}

type LoginSuccess struct {
	User User
}

type LoginFailure struct {
	Code FailureCode
}

func (LoginSuccess) isLoginResult() {}
func (LoginFailure) isLoginResult() {}

func (f LoginFailure) Error() string {
	return fmt.Sprintf("%s: %s", ErrAuthentication, f.Code)
}

func (f LoginFailure) Unwrap() error {
	return ErrAuthentication
}

type AccountClient interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
	ResendConfirmationEmail(ctx context.Context, email string) error
}
