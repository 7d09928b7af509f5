package repositories

import "errors"

var (
	// ErrConnection means the database could not be reached
	ErrConnection = errors.New("database connection error")
	// ErrQuery means the database rejected or failed a statement
	ErrQuery     = errors.New("database query error")
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnection)
}
