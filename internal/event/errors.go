package event

import "errors"

// Sentinel errors for the notifier.
var (
	// ErrBusy is returned by Acquire while another operation holds the notifier.
	ErrBusy = errors.New("operation already in progress")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrInvalidTopic is returned for an unknown topic.
	ErrInvalidTopic = errors.New("invalid topic")
)
