package types

import (
	"errors"
	"fmt"
)

// Kind is the closed set of import/export failure classes.
type Kind string

const (
	KindParse     Kind = "parse"     // unparseable document, missing required field, wrong shape
	KindReference Kind = "reference" // farmId that names no farm of the same import
	KindStorage   Kind = "storage"   // database or backup failure
)

var (
	ErrMalformed    = errors.New("malformed document")
	ErrFarmNotFound = errors.New("farm not found")
	ErrStorage      = errors.New("storage failure")
)

// Error carries the failing collection and entry index when known.
// Index is -1 when the failure is not tied to one entry.
type Error struct {
	Kind       Kind
	Collection string
	Index      int
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Collection != "" && e.Index >= 0:
		return fmt.Sprintf("%s error in %s[%d]: %v", e.Kind, e.Collection, e.Index, e.Err)
	case e.Collection != "":
		return fmt.Sprintf("%s error in %s: %v", e.Kind, e.Collection, e.Err)
	default:
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match the kind sentinel even when Err is a more specific cause.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrMalformed:
		return e.Kind == KindParse
	case ErrFarmNotFound:
		return e.Kind == KindReference
	case ErrStorage:
		return e.Kind == KindStorage
	}
	return false
}

func ParseError(collection string, index int, format string, args ...any) *Error {
	return &Error{Kind: KindParse, Collection: collection, Index: index, Err: fmt.Errorf(format, args...)}
}

func ReferenceError(collection string, index int, farmID int64) *Error {
	return &Error{Kind: KindReference, Collection: collection, Index: index,
		Err: fmt.Errorf("%w: farmId %d", ErrFarmNotFound, farmID)}
}

func StorageError(op string, err error) *Error {
	return &Error{Kind: KindStorage, Index: -1, Err: fmt.Errorf("%s: %w", op, err)}
}

// KindOf classifies any error. Errors that are not *Error count as storage failures.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindStorage
}
