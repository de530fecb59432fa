package interp

import (
	naaberrors "github.com/naab-lang/naab/internal/errors"
	"github.com/naab-lang/naab/internal/runtime"
)

// Non-local control flow travels on the error channel as distinguished
// sentinel types.

// breakSignal and continueSignal are caught by the nearest enclosing loop.
type breakSignal struct{}
type continueSignal struct{}

func (breakSignal) Error() string    { return "break outside loop" }
func (continueSignal) Error() string { return "continue outside loop" }

// returnSignal unwinds to the enclosing function call.
type returnSignal struct {
	value runtime.Value
}

func (returnSignal) Error() string { return "return outside function" }

// thrownError carries a raised NAAb value until a catch clause rebinds
// it. Both host `throw` statements and runtime errors travel
// this way so that try/catch treats them uniformly.
type thrownError struct {
	value runtime.Value
	pos   naaberrors.Position
}

func (t *thrownError) Error() string { return t.value.String() }

// throwValue wraps a Value for propagation.
func throwValue(v runtime.Value, pos naaberrors.Position) error {
	return &thrownError{value: v, pos: pos}
}

// asThrown converts any evaluation error into the exception value a catch
// clause binds: host-raised values pass through, interpreter and foreign
// errors become their message string.
func asThrown(err error) *thrownError {
	if t, ok := err.(*thrownError); ok {
		return t
	}
	if ne, ok := err.(*naaberrors.NaabError); ok {
		return &thrownError{value: runtime.NewString(ne.Error()), pos: ne.Pos}
	}
	return &thrownError{value: runtime.NewString(err.Error())}
}

// isControl reports whether err is loop/return control flow rather than an
// exception, so try/finally can re-propagate it without offering it to
// catch.
func isControl(err error) bool {
	switch err.(type) {
	case breakSignal, continueSignal, returnSignal:
		return true
	}
	return false
}
