package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUIErrorChain(t *testing.T) {
	err := Wrap("tree.measure", KindMeasure, "tree-1", ErrNoSurface)
	require.Error(t, err)
	assert.True(t, Is(err, ErrNoSurface))
	assert.Equal(t, KindMeasure, KindOf(err))
	assert.Contains(t, err.Error(), "tree=tree-1")
	assert.Nil(t, Wrap("op", KindRender, "", nil))
}

func TestValidationError(t *testing.T) {
	err := Invalid("div", "box", "justify_content", "unknown value %q", "middle")
	assert.Equal(t, `invalid div#box.justify_content: unknown value "middle"`, err.Error())
	assert.Equal(t, KindValidation, KindOf(fmt.Errorf("wrapped: %w", err)))
}

func TestGuard(t *testing.T) {
	err := Guard("click", func() error { panic("boom") })
	var pe *PanicError
	require.True(t, As(err, &pe))
	assert.Equal(t, "click", pe.Op)
	assert.Equal(t, "boom", pe.Value)
	assert.NotEmpty(t, pe.Stack)

	inner := New("inner")
	err = Guard("click", func() error { panic(inner) })
	assert.True(t, Is(err, inner))

	assert.NoError(t, Guard("ok", func() error { return nil }))
}

func TestReportUsesHandler(t *testing.T) {
	var got []error
	SetHandler(HandlerFunc(func(err error) { got = append(got, err) }))
	defer SetHandler(nil)

	Report(nil)
	Report(ErrTreeDestroyed)
	assert.Equal(t, []error{ErrTreeDestroyed}, got)
}
