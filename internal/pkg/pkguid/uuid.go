package pkguid

import "github.com/google/uuid"

// UUID generates time-ordered (version 7) UUID strings.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUID string. It panics only if the system random
// source fails.
func (u *UUID) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
