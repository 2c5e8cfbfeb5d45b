// Package access holds the authorization core: identity checks, ownership and
// reference-data guards, the game filter compiler and the user lifecycle rules.
//
// Everything here is a pure function over snapshots passed in by the caller.
// Nothing in this package touches storage or keeps mutable state.
package access

import (
	"errors"
	"fmt"
)

// Action is an operation a caller wants to perform on a resource
type Action string

const (
	ActionCreate     Action = "create"
	ActionView       Action = "view"
	ActionList       Action = "list"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionDeactivate Action = "deactivate"
	ActionReactivate Action = "reactivate"
)

// ResourceKind identifies the type of the target resource
type ResourceKind string

const (
	KindUser     ResourceKind = "user"
	KindGame     ResourceKind = "game"
	KindGenre    ResourceKind = "genre"
	KindPlatform ResourceKind = "platform"
)

// IsReference reports whether the kind is shared reference data
func (k ResourceKind) IsReference() bool {
	return k == KindGenre || k == KindPlatform
}

// Reason explains why a request was denied
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "UNAUTHENTICATED"
	ReasonForbidden       Reason = "FORBIDDEN"
	ReasonAdminProtected  Reason = "ADMIN_PROTECTED"
	ReasonNotFound        Reason = "NOT_FOUND"
)

// Decision is the outcome of an authorization check
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Allow returns a permitting decision
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a refusing decision carrying reason
func Deny(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Denied reports whether the decision refuses the request
func (d Decision) Denied() bool {
	return !d.Allowed
}

func (d Decision) String() string {
	if d.Allowed {
		return "ALLOW"
	}
	return fmt.Sprintf("DENY(%s)", d.Reason)
}

// Err converts a denial into its sentinel error; an Allow yields nil
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonUnauthenticated:
		return ErrUnauthenticated
	case ReasonAdminProtected:
		return ErrAdminProtected
	case ReasonNotFound:
		return ErrNotFound
	default:
		return ErrForbidden
	}
}

// Access errors
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrAdminProtected  = errors.New("admin accounts cannot be deleted")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
)

// ValidationError reports a structurally invalid field in a write request
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError for field
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
