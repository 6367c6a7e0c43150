package model

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	// ErrInvalidInput rejects a malformed code or serial before any
	// upstream round trip.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoSession means the token set is incomplete or the upstream no
	// longer recognizes it and served a login page instead of the form.
	ErrNoSession = errors.New("no active upstream session")
)

// DomainError is a well-formed upstream response stating a business failure,
// as opposed to a transport or parsing problem. Message carries the
// upstream's own wording when the page had one.
type DomainError struct {
	Reason  string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// ParseError means the response matched no known page shape. It is kept
// distinct from DomainError so upstream layout drift shows up in logs as
// drift, not as business failures.
type ParseError struct {
	Detail string
}

func (e *ParseError) Error() string {
	return "unexpected page layout: " + e.Detail
}
