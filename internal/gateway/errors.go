package gateway

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"github.com/xenking/memcommerce-mcp/internal/backend"
	"github.com/xenking/memcommerce-mcp/internal/catalog"
)

// Kind is the externally visible classification of a gateway failure.
type Kind string

const (
	// KindBackendUnavailable means the backend could not be reached or did
	// not complete the request: network error, non-2xx status, non-JSON body.
	KindBackendUnavailable Kind = "BackendUnavailable"
	// KindSchemaValidation means the backend answered with data that does not
	// match the expected entity shape.
	KindSchemaValidation Kind = "SchemaValidationError"
)

// Sentinels matching every *Error of the corresponding kind via errors.Is.
var (
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrSchemaValidation   = errors.New("schema validation failed")
)

func (k Kind) sentinel() error {
	if k == KindSchemaValidation {
		return ErrSchemaValidation
	}
	return ErrBackendUnavailable
}

// Error is the single error type returned by gateway operations.
type Error struct {
	Kind   Kind
	Entity string
	Op     string
	// Index is the failing input record (create) or list element (fetch),
	// or -1 when the failure concerns the whole call.
	Index int
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s %s", e.Kind, e.Op, e.Entity)
	if e.Kind == KindBackendUnavailable && e.Index >= 0 {
		fmt.Fprintf(&b, ": item %d", e.Index)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Classify returns the kind of err. Transport failures and anything not
// recognized as a schema violation are BackendUnavailable.
func Classify(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	var serr *catalog.SchemaError
	if errors.As(err, &serr) {
		return KindSchemaValidation
	}
	return KindBackendUnavailable
}

// classify wraps a transport or codec failure into an *Error.
func classify(entity, op string, index int, err error) *Error {
	kind := Classify(err)

	var serr *catalog.SchemaError
	if kind == KindSchemaValidation && errors.As(err, &serr) && index < 0 {
		index = serr.Index
	}
	var berr *backend.Error
	if kind == KindBackendUnavailable && !errors.As(err, &berr) {
		err = errors.Wrap(err, "unexpected transport failure")
	}

	return &Error{
		Kind:   kind,
		Entity: entity,
		Op:     op,
		Index:  index,
		Err:    err,
	}
}
