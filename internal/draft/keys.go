package draft

import "github.com/google/uuid"

// GenerateKey returns a fresh block key.
func GenerateKey() string {
	return uuid.NewString()
}
