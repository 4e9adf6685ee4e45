package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.OAuthStateStore = (*StateStore)(nil)

// statePrefix namespaces OAuth state keys
const statePrefix = "oauth:state:"

// stateRecord is the JSON form of a state held in Redis
type stateRecord struct {
	State     string    `json:"state"`
	Data      string    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StateStore implements driven.OAuthStateStore using Redis.
// States use Redis TTL for automatic expiration
type StateStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewStateStore creates a new Redis-backed StateStore
func NewStateStore(client redis.UniversalClient) *StateStore {
	return &StateStore{client: client, now: time.Now}
}

// Save stores a state with TTL based on ExpiresAt
func (s *StateStore) Save(ctx context.Context, state *driven.OAuthState) error {
	ttl := state.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		// Already expired, nothing to keep
		return nil
	}

	data, err := json.Marshal(stateRecord{
		State:     state.State,
		Data:      state.Data,
		CreatedAt: state.CreatedAt,
		ExpiresAt: state.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal oauth state: %w", err)
	}

	// SetNX keeps a colliding token from overwriting a pending flow
	ok, err := s.client.SetNX(ctx, statePrefix+state.State, data, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to save oauth state: %w", err)
	}
	if !ok {
		return fmt.Errorf("failed to save oauth state: token already in use")
	}
	return nil
}

// Get returns the state without consuming it
func (s *StateStore) Get(ctx context.Context, state string) (*driven.OAuthState, error) {
	data, err := s.client.Get(ctx, statePrefix+state).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth state: %w", err)
	}
	return s.decode(data)
}

// GetAndDelete atomically retrieves and deletes the state with GETDEL
func (s *StateStore) GetAndDelete(ctx context.Context, state string) (*driven.OAuthState, error) {
	data, err := s.client.GetDel(ctx, statePrefix+state).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume oauth state: %w", err)
	}
	return s.decode(data)
}

// Cleanup is a no-op; Redis expires keys on its own
func (s *StateStore) Cleanup(ctx context.Context) error {
	return nil
}

func (s *StateStore) decode(data []byte) (*driven.OAuthState, error) {
	var rec stateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal oauth state: %w", err)
	}
	st := &driven.OAuthState{
		State:     rec.State,
		Data:      rec.Data,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}
	if st.Expired(s.now()) {
		return nil, nil
	}
	return st, nil
}
