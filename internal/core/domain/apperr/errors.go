// Package apperr defines the typed errors surfaced to API clients.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNode       Kind = "node"
	KindPrice      Kind = "price"
	KindValidation Kind = "validation"
	KindWallet     Kind = "wallet"
)

// Machine readable error codes.
const (
	CodeNodeError        = "NODE_ERROR"
	CodePriceError       = "PRICE_ERROR"
	CodePriceRateLimited = "PRICE_RATE_LIMITED"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeWalletError      = "WALLET_ERROR"
	CodeNotImplemented   = "NOT_IMPLEMENTED"
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Error is a domain error carrying a code and a human message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Field   string
	Details []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind and code so callers can compare against sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

func NewNodeError(message string, cause error) *Error {
	return &Error{Kind: KindNode, Code: CodeNodeError, Message: message, Err: cause}
}

func NewPriceError(message string, cause error) *Error {
	return &Error{Kind: KindPrice, Code: CodePriceError, Message: message, Err: cause}
}

func NewRateLimitedError(message string) *Error {
	return &Error{Kind: KindPrice, Code: CodePriceRateLimited, Message: message}
}

func NewValidationError(message, field string) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidationError, Message: message, Field: field}
}

func NewWalletError(message, code string) *Error {
	if code == "" {
		code = CodeWalletError
	}
	return &Error{Kind: KindWallet, Code: code, Message: message}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err carries a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

// IsRateLimited reports whether err is the upstream rate-limit variant of a price error.
func IsRateLimited(err error) bool {
	e, ok := As(err)
	return ok && e.Code == CodePriceRateLimited
}
