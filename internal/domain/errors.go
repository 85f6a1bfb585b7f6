package domain

import "errors"

// Sentinel errors for core operations.
var (
	// ErrNoMedia signals an event carrying no recognized media attachment.
	ErrNoMedia = errors.New("no recognized media in event")
	// ErrInvalidEvent signals a malformed ingestion event.
	ErrInvalidEvent = errors.New("invalid media event")
)

// KeyPrefix is the default namespace for all keys written by mediadex.
const KeyPrefix = "mediadex:"
