package models

// Resolution is the outcome of probing an ordered candidate list:
// either a resolved value or the kind of failure that left it unresolved.
type Resolution[T any] struct {
	value    T
	kind     FailureKind
	resolved bool
}

// Resolved wraps a successfully probed value
func Resolved[T any](value T) Resolution[T] {
	return Resolution[T]{value: value, resolved: true}
}

// Unresolved records that no candidate succeeded
func Unresolved[T any](kind FailureKind) Resolution[T] {
	return Resolution[T]{kind: kind}
}

// Value returns the resolved value and whether resolution succeeded
func (r Resolution[T]) Value() (T, bool) {
	return r.value, r.resolved
}

// IsResolved reports whether a candidate was selected
func (r Resolution[T]) IsResolved() bool {
	return r.resolved
}

// Kind returns the failure kind of an unresolved probe ("" when resolved)
func (r Resolution[T]) Kind() FailureKind {
	return r.kind
}

// Err converts an unresolved probe into an AnalysisError
func (r Resolution[T]) Err() error {
	if r.resolved {
		return nil
	}
	switch r.kind {
	case FailureEncodingUnresolved:
		return ErrEncodingUnresolved
	case FailureDelimiterUnresolved:
		return ErrDelimiterUnresolved
	}
	return NewAnalysisError(r.kind, string(r.kind))
}
