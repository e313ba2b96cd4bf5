// Package apperrors defines the failure taxonomy shared by all services.
// Handlers map these kinds onto HTTP status codes; services never touch
// status codes themselves.
package apperrors

import "errors"

// Kind classifies a domain failure.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindAuth
)

// Error is a domain failure with a client-safe detail message.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

// Validation reports bad input (malformed body, rejected image).
func Validation(detail string) *Error {
	return &Error{Kind: KindValidation, Detail: detail}
}

// Conflict reports a uniqueness violation (duplicate email, duplicate
// pending request, already-accepted mentee).
func Conflict(detail string) *Error {
	return &Error{Kind: KindConflict, Detail: detail}
}

// NotFound reports a missing record. Ownership mismatches use this too, so
// callers cannot probe for the existence of other users' records.
func NotFound(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail}
}

// ErrUnauthenticated is the single failure for every token problem.
// Expired, malformed and bad-signature tokens are deliberately
// indistinguishable.
var ErrUnauthenticated = &Error{Kind: KindAuth, Detail: "could not validate credentials"}

// ErrBadCredentials is the single login failure. Unknown email and wrong
// password produce the identical error.
var ErrBadCredentials = &Error{Kind: KindAuth, Detail: "incorrect email or password"}

// KindOf extracts the failure kind from an error chain, defaulting to
// KindInternal for anything unclassified.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
