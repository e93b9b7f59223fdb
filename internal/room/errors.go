package room

import "errors"

var (
	ErrNotFound     = errors.New("room does not exist")
	ErrUnauthorized = errors.New("secret key mismatch")
)
