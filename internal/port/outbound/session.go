package outbound

import (
	"time"

	"github.com/google/uuid"
)

// SessionTokenPort issues and verifies signed session tokens.
type SessionTokenPort interface {
	// Issue signs a token for the account and returns it with its expiry.
	Issue(accountID uuid.UUID) (string, time.Time, error)

	// Verify validates the token and returns the account it was issued for.
	Verify(token string) (uuid.UUID, error)

	// Expiry returns the lifetime of issued tokens.
	Expiry() time.Duration
}
