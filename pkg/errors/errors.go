package errors

import "fmt"

// Type classifies the failures the harvester can encounter
type Type string

const (
	TypeUsage       Type = "usage"       // bad arguments, nothing executed
	TypeTransient   Type = "transient"   // element briefly absent, recovered locally
	TypeItem        Type = "item"        // one post unreachable, batch continues
	TypePersistence Type = "persistence" // disk write failure for one item
	TypeResource    Type = "resource"    // browser cannot start, fatal for the run
)

// Error carries the failure class alongside the underlying cause
type Error struct {
	Type    Type
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error without an underlying cause
func New(t Type, message string) *Error {
	return &Error{Type: t, Message: message}
}

// Wrap creates an Error wrapping an underlying cause
func Wrap(t Type, message string, err error) *Error {
	return &Error{Type: t, Message: message, Err: err}
}

// IsFatal reports whether an error type must abort the whole run.
// Item and persistence faults are isolated per post; transient faults
// never propagate past the field read that hit them.
func IsFatal(t Type) bool {
	switch t {
	case TypeUsage, TypeResource:
		return true
	default:
		return false
	}
}
