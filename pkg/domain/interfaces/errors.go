package interfaces

import "github.com/m-mizutani/goerr/v2"

// Repository implementations wrap these so callers can use errors.Is
// regardless of the backend.
var (
	ErrNotFound      = goerr.New("not found")
	ErrAlreadyExists = goerr.New("already exists")
)
