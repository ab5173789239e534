package portal

import "github.com/google/uuid"

// NewID returns a fresh identifier for any entity.
func NewID() string { return uuid.NewString() }
