package apiclient

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	// KindBackend is a non-2xx response from the application API.
	KindBackend ErrorKind = "BackendError"
	// KindTransfer is a non-2xx response from a direct storage call.
	KindTransfer ErrorKind = "TransferError"
	// KindNetwork is a request that could not complete.
	KindNetwork ErrorKind = "NetworkError"
)

/*
Error is returned by every call the client makes. Error() is the bare
message, so a backend body of {"error": "Album not found"} surfaces as
exactly "Album not found".
*/
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

/*
KindOf returns the kind of the first *Error found in err's chain, or
an empty kind when there is none.
*/
func KindOf(err error) ErrorKind {
	var apiErr *Error

	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}

	return ""
}

/*
TransferFailure annotates an upload or download error with the name of
the file or image it belongs to.
*/
type TransferFailure struct {
	Op   string
	Name string
	Err  error
}

func (e *TransferFailure) Error() string {
	return fmt.Sprintf("failed to %s %s: %s", e.Op, e.Name, e.Err.Error())
}

func (e *TransferFailure) Unwrap() error {
	return e.Err
}
