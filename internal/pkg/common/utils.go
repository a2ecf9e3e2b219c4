package common

import (
	"github.com/google/uuid"
)

// GenerateUUID returns a fresh UUID string.
func GenerateUUID() string {
	return uuid.New().String()
}
