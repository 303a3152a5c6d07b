package id

import (
	"strings"

	"github.com/google/uuid"
)

// GetUUID returns a random RFC 4122 identifier used as a business id.
func GetUUID() string {
	return uuid.NewString()
}

// GetUUIDWithoutDashes returns a 32 character hex token.
func GetUUIDWithoutDashes() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsUUID reports whether s parses as a UUID.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
