package service

import (
	"github.com/emsvc/employee-service/pkg/errors"
)

// ResultKind classifies the outcome of a service operation
type ResultKind int

const (
	ResultOK ResultKind = iota
	ResultInvalidArgument
	ResultNotFound
	ResultStorageFailure
	ResultUnknown
)

func (k ResultKind) String() string {
	switch k {
	case ResultOK:
		return "ok"
	case ResultInvalidArgument:
		return "invalid_argument"
	case ResultNotFound:
		return "not_found"
	case ResultStorageFailure:
		return "storage_failure"
	default:
		return "unknown"
	}
}

// Result carries either Data (Kind == ResultOK) or Err
type Result[T any] struct {
	Kind ResultKind
	Data T
	Err  *errors.AppError
}

// OK reports whether the operation succeeded
func (r Result[T]) OK() bool {
	return r.Kind == ResultOK
}

func success[T any](data T) Result[T] {
	return Result[T]{Kind: ResultOK, Data: data}
}

// failure classifies err by the sentinel it wraps
func failure[T any](err error) Result[T] {
	var appErr *errors.AppError
	if !errors.As(err, &appErr) {
		appErr = errors.Internal("an unexpected error occurred").WithCause(err)
	}

	return Result[T]{Kind: kindOf(appErr), Err: appErr}
}

func kindOf(err *errors.AppError) ResultKind {
	switch {
	case errors.Is(err, errors.ErrInvalidArgument), errors.Is(err, errors.ErrValidation):
		return ResultInvalidArgument
	case errors.Is(err, errors.ErrNotFound):
		return ResultNotFound
	case errors.Is(err, errors.ErrStorage):
		return ResultStorageFailure
	default:
		return ResultUnknown
	}
}
