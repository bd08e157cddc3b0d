// Package result holds a small success/failure value used to make fallback
// chains explicit instead of relying on swallowed errors.
package result

// Result is either a value or an error
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps an error
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// From builds a Result from a conventional (value, error) pair
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(v)
}

// IsOk reports whether the result holds a value
func (r Result[T]) IsOk() bool {
	return r.Err == nil
}

// Unwrap returns the conventional (value, error) pair
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

// OrElse returns r when it succeeded, otherwise the result of next.
// The error of r is discarded when next is attempted.
func (r Result[T]) OrElse(next func() Result[T]) Result[T] {
	if r.IsOk() {
		return r
	}
	return next()
}
