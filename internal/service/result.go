package service

// Result carries either a success value or a non-empty list of human-readable
// error messages. Expected business failures cross the service boundary in
// the error list; only infrastructure faults surface as Go errors elsewhere.
type Result[T any] struct {
	Data   T
	Errors []string
}

// Ok builds a successful result.
func Ok[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

// Fail builds a failed result with one or more error messages.
func Fail[T any](errs ...string) Result[T] {
	return Result[T]{Errors: errs}
}

// HasErrors reports whether the result carries errors.
func (r Result[T]) HasErrors() bool {
	return len(r.Errors) > 0
}
