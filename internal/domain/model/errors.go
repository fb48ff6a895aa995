package model

import "errors"

var (
	ErrDeviceNotFound     = errors.New("device not found")
	ErrPersistence        = errors.New("persistence error: changes rolled back")
	ErrDatabaseQuery      = errors.New("database query error")
	ErrDatabaseConnection = errors.New("database connection error")
	ErrInvalidMatchPolicy = errors.New("invalid match policy")
	ErrInvalidReadPolicy  = errors.New("invalid read failure policy")
	ErrUnsupportedDriver  = errors.New("unsupported store driver")
)
