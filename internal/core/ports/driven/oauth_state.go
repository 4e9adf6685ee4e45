package driven

import (
	"context"
	"time"
)

// OAuthState is a pending OAuth flow keyed by a random token.
type OAuthState struct {
	// State is the random token handed to the provider.
	State string

	// Data is the serialized payload, sealed when a PayloadSealer is configured.
	Data string

	// CreatedAt is when the state was created.
	CreatedAt time.Time

	// ExpiresAt is when the state stops being accepted.
	ExpiresAt time.Time
}

// Expired reports whether the state is past its expiry at now.
func (s *OAuthState) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// OAuthStateStore manages OAuth flow state.
// States are single-use and expire after a short period.
type OAuthStateStore interface {
	// Save stores a new OAuth state.
	Save(ctx context.Context, state *OAuthState) error

	// Get returns the state without consuming it.
	// Returns nil, nil if the state doesn't exist or has expired.
	Get(ctx context.Context, state string) (*OAuthState, error)

	// GetAndDelete atomically retrieves and deletes the state.
	// This ensures single-use semantics.
	// Returns nil, nil if the state doesn't exist or has expired.
	GetAndDelete(ctx context.Context, state string) (*OAuthState, error)

	// Cleanup removes expired states.
	Cleanup(ctx context.Context) error
}

// PayloadSealer encrypts state payloads at rest.
type PayloadSealer interface {
	Seal(plaintext []byte) (string, error)
	Open(sealed string) ([]byte, error)
}
