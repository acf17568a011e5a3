package repository

import "errors"

var (
	ErrNotFound    = errors.New("entity not found")
	ErrWriteFailed = errors.New("store write failed")
	ErrReadFailed  = errors.New("store read failed")
)
