package transport

import "github.com/muurk/wizlocal/internal/protocol"

// Result is the outcome of one exchange: either Success(method, params) or
// Error(err). Exactly one variant is populated.
type Result[T any] struct {
	method string
	params T
	err    *Error
}

// Success creates a successful result
func Success[T any](method string, params T) Result[T] {
	return Result[T]{method: method, params: params}
}

// Failure creates an error result. A nil err is replaced by a protocol error
// so that the error variant is never empty.
func Failure[T any](err *Error) Result[T] {
	if err == nil {
		err = newProtocolError()
	}
	return Result[T]{err: err}
}

// OK reports whether the result is the success variant
func (r Result[T]) OK() bool {
	return r.err == nil
}

// Method returns the request method of a successful result
func (r Result[T]) Method() string {
	return r.method
}

// Params returns the reply payload of a successful result
func (r Result[T]) Params() T {
	return r.params
}

// Err returns the error of a failed result, or nil
func (r Result[T]) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// Error returns the typed error of a failed result, or nil
func (r Result[T]) Error() *Error {
	return r.err
}

// Map converts a successful result with fn. Failed results pass through
// unchanged.
func Map[T, U any](r Result[T], fn func(T) (U, *Error)) Result[U] {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	out, err := fn(r.params)
	if err != nil {
		return Result[U]{err: err}
	}
	return Result[U]{method: r.method, params: out}
}

// Decode converts a reply into its typed result body. A result that does not
// match T is a malformed response.
func Decode[T any](r Result[*protocol.Response]) Result[T] {
	return Map(r, func(resp *protocol.Response) (T, *Error) {
		v, err := protocol.DecodeResult[T](resp)
		if err != nil {
			return v, MalformedResponse(err)
		}
		return v, nil
	})
}
