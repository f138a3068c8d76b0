// Package domain
package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrAuthentication     = errors.New("authentication failed")
	ErrDependentOperation = errors.New("dependent operation failed")
	ErrTransport          = errors.New("transport failure")
)

var (
	ErrSubmissionInProgress = errors.New("submission already in progress")
	ErrFlowFinished         = errors.New("login flow already redirected")
	ErrUnknownField         = errors.New("unknown form field")
)

var (
	ErrDialogOpen        = errors.New("dialog already open")
	ErrDialogClosed      = errors.New("dialog is not open")
	ErrDialogNotFound    = errors.New("dialog not found")
	ErrUnreachableChoice = errors.New("confirmation choice is not selectable")
)

var ErrSessionNotFound = errors.New("session not found")
