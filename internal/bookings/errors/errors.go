package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrSlotFull = errors.New("slot is at capacity")

	ErrSubscriptionClosed = errors.New("change subscription is closed")
)
