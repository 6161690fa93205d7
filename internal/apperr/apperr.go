// Package apperr classifies failures so transport layers can map them
// to a response without inspecting messages.
package apperr

import (
	"errors"
	"fmt"
)

// Kinds of failure. Match them with errors.Is.
var (
	InvalidInput        = errors.New("invalid input")
	NotFound            = errors.New("not found")
	UpstreamUnavailable = errors.New("upstream unavailable")
	Conflict            = errors.New("conflict")
	Unauthorized        = errors.New("unauthorized")
)

// Error is a classified failure with a short title and a caller-facing message.
type Error struct {
	Kind    error
	Title   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Title, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Message)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// New returns a classified error.
func New(kind error, title, message string) *Error {
	return &Error{Kind: kind, Title: title, Message: message}
}

// Wrap classifies cause, keeping it in the chain.
func Wrap(kind error, cause error, title, message string) *Error {
	return &Error{Kind: kind, Title: title, Message: message, Err: cause}
}

// KindOf returns the kind err was classified with, or nil.
func KindOf(err error) error {
	for _, k := range []error{InvalidInput, NotFound, UpstreamUnavailable, Conflict, Unauthorized} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Describe returns the title and message of the outermost classified
// error in the chain.
func Describe(err error) (title, message string, ok bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Title, ae.Message, true
	}
	return "", "", false
}
