package model

import "errors"

var (
	// ErrNotificationNotFound indicates a missing notification or one owned by another user.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrLeaseLost indicates the outbox event was reclaimed by another relay
	// or already settled since it was claimed.
	ErrLeaseLost = errors.New("outbox lease lost")
)
