package model

import (
	"fmt"

	"github.com/google/uuid"
)

// CorrelationID ties the objects and the log file of one process run together.
type CorrelationID string

// NewCorrelationID returns a fresh time-ordered (UUIDv7) correlation id.
func NewCorrelationID() (CorrelationID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate correlation id: %w", err)
	}
	return CorrelationID(id.String()), nil
}

// Validate checks that the CorrelationID is a valid UUID.
func (c CorrelationID) Validate() error {
	if c == "" {
		return fmt.Errorf("correlation id cannot be empty")
	}
	if _, err := uuid.Parse(string(c)); err != nil {
		return fmt.Errorf("correlation id must be a valid UUID: %w", err)
	}
	return nil
}

// String returns the correlation id as a string.
func (c CorrelationID) String() string {
	return string(c)
}
