package types

// TestingT is the subset of *testing.T the harness reports through.
// It satisfies testify's assert.TestingT and require.TestingT.
type TestingT interface {
	Errorf(format string, args ...any)
	FailNow()
}

// Expectation describes what one diagnostic category must contain.
// It is one of Count, Messages or Check[T].
type Expectation interface {
	present() bool
}

// Count expects exactly n diagnostics. Count(0) is treated as unset.
type Count int

func (c Count) present() bool { return c != 0 }

// Partial is a subset of diagnostic fields matched by exact value.
type Partial map[string]any

// Messages expects one diagnostic per element, in order. Elements are bare
// strings (matched against the text field), Partial maps, map[string]any,
// or diagnostic structs whose non-zero fields are matched.
type Messages []any

func (m Messages) present() bool { return m != nil }

// Check hands the actual diagnostics to a custom assertion.
type Check[T Diagnostic] func(t TestingT, got []T)

func (c Check[T]) present() bool { return c != nil }

// CheckWith infers the diagnostic type from fn.
func CheckWith[T Diagnostic](fn func(t TestingT, got []T)) Check[T] {
	return Check[T](fn)
}

// Present reports whether e asks for a check at all.
func Present(e Expectation) bool {
	return e != nil && e.present()
}

// Output describes the expected code after fixing.
// It is one of Unchanged, Exact or OutputFunc.
type Output interface {
	isOutput()
}

// Unchanged expects the fixed code to equal the input verbatim.
type Unchanged struct{}

func (Unchanged) isOutput() {}

// Exact expects the fixed code to equal the string.
type Exact string

func (Exact) isOutput() {}

// OutputFunc compares the fixed output against the input itself.
type OutputFunc func(t TestingT, output, input string)

func (OutputFunc) isOutput() {}
