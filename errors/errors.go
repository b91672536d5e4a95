// Package errors provides structured error handling for the UI core.
//
// Construction problems surface as *ValidationError and abort a render.
// Failures inside paint callbacks and input handlers are wrapped in *UIError
// (or *PanicError when recovered) and tear down only the tree they came from.
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime/debug"
	"time"
)

// Re-exported so callers need a single errors import.
var (
	Is     = stderrors.Is
	As     = stderrors.As
	New    = stderrors.New
	Join   = stderrors.Join
	Unwrap = stderrors.Unwrap
)

var (
	// ErrNoSurface is returned when measuring text without a surface or
	// measurer. It is distinct from a legitimately empty measurement.
	ErrNoSurface = stderrors.New("no surface available for measurement")

	// ErrTreeDestroyed is returned by operations on a torn-down tree.
	ErrTreeDestroyed = stderrors.New("tree destroyed")

	// ErrStaleNode is returned when a node reference from an earlier render
	// generation is resolved.
	ErrStaleNode = stderrors.New("stale node reference")
)

// Kind identifies the category of an error.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is a construction-time property or structure error.
	KindValidation
	// KindMeasure is a failure measuring intrinsic sizes.
	KindMeasure
	// KindPaint is a failure inside the paint phase.
	KindPaint
	// KindInput is a failure while routing mouse, scroll or key input.
	KindInput
	// KindRender is a failure elsewhere in the render pipeline.
	KindRender
	// KindPanic is a recovered panic.
	KindPanic
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindMeasure:
		return "measure"
	case KindPaint:
		return "paint"
	case KindInput:
		return "input"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// UIError is an error attributed to an operation on one tree.
type UIError struct {
	// Op is the operation that failed (e.g. "tree.paint").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Tree is the key of the tree involved, if any.
	Tree string
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *UIError) Error() string {
	if e.Tree != "" {
		return fmt.Sprintf("%s [%s] tree=%s: %v", e.Op, e.Kind, e.Tree, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *UIError) Unwrap() error { return e.Err }

// Wrap attributes err to op and tree. A nil err returns nil.
func Wrap(op string, kind Kind, tree string, err error) error {
	if err == nil {
		return nil
	}
	return &UIError{Op: op, Kind: kind, Tree: tree, Err: err, Timestamp: time.Now()}
}

// KindOf returns the kind of the outermost categorized error in err's chain.
func KindOf(err error) Kind {
	var ue *UIError
	if stderrors.As(err, &ue) {
		return ue.Kind
	}
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return KindValidation
	}
	var pe *PanicError
	if stderrors.As(err, &pe) {
		return KindPanic
	}
	return KindUnknown
}

// ValidationError describes an invalid element description.
type ValidationError struct {
	// Element is the element kind (e.g. "div").
	Element string
	// ID is the element id if one was given.
	ID string
	// Field is the offending property, empty for structural errors.
	Field string
	// Reason explains the problem.
	Reason string
}

func (e *ValidationError) Error() string {
	where := e.Element
	if e.ID != "" {
		where += "#" + e.ID
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s.%s: %s", where, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", where, e.Reason)
}

// Invalid is shorthand for building a ValidationError.
func Invalid(element, id, field, format string, args ...any) *ValidationError {
	return &ValidationError{Element: element, ID: id, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g. "tree.click").
	Op string
	// Value is the value passed to panic().
	Value any
	// Stack is the call stack at recovery.
	Stack string
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes a panicked error value.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Guard runs fn, converting a panic into a *PanicError.
func Guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Op: op, Value: r, Stack: string(debug.Stack())}
		}
	}()
	return fn()
}
