package repository

import "errors"

// Repository errors
var (
	// Common errors
	ErrNotFound         = errors.New("resource not found")
	ErrDuplicateKey     = errors.New("duplicate key constraint")
	ErrInvalidInput     = errors.New("invalid input data")
	ErrConnectionFailed = errors.New("database connection failed")

	// Courier errors
	ErrCourierNotFound = errors.New("courier not found")
	ErrCourierInUse    = errors.New("courier is currently in use")

	// Order errors
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidOrderData = errors.New("invalid order data")

	// Recharge station errors
	ErrStationNotFound = errors.New("recharge station not found")
)
