package types

import "fmt"

// CustomError is an error that carries an HTTP status code and a
// machine-readable type label for the response envelope.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// ValidationError reports malformed or missing caller input. It is raised
// before any provider call is made and its message is surfaced verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StorageError reports an unreachable or failing persistence backend.
// Artifact write and read paths treat it as fatal; the user-upsert side
// channel logs and swallows it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
