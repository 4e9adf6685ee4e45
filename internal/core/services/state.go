package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// DefaultStateTTL is how long an OAuth flow may take to complete.
const DefaultStateTTL = time.Hour

// StateManagerConfig holds dependencies for StateManager.
type StateManagerConfig struct {
	Store driven.OAuthStateStore

	// Sealer encrypts payloads at rest. Optional.
	Sealer driven.PayloadSealer

	// TTL is the default lifetime of a state. Defaults to DefaultStateTTL.
	TTL time.Duration

	Now      func() time.Time
	NewToken func() string
	Logger   *slog.Logger
}

// StateManager issues single-use OAuth state tokens bound to a payload.
type StateManager struct {
	store    driven.OAuthStateStore
	sealer   driven.PayloadSealer
	ttl      time.Duration
	now      func() time.Time
	newToken func() string
	logger   *slog.Logger
}

// NewStateManager creates a new StateManager.
func NewStateManager(cfg StateManagerConfig) *StateManager {
	m := &StateManager{
		store:    cfg.Store,
		sealer:   cfg.Sealer,
		ttl:      cfg.TTL,
		now:      cfg.Now,
		newToken: cfg.NewToken,
		logger:   cfg.Logger,
	}
	if m.ttl <= 0 {
		m.ttl = DefaultStateTTL
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newToken == nil {
		m.newToken = uuid.NewString
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// TTL returns the default state lifetime.
func (m *StateManager) TTL() time.Duration {
	return m.ttl
}

// Create stores payload under a fresh token that expires after ttl.
// A zero ttl uses the configured default.
func (m *StateManager) Create(ctx context.Context, payload any, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = m.ttl
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("encode state payload: %w", err)
	}
	data := string(raw)
	if m.sealer != nil {
		if data, err = m.sealer.Seal(raw); err != nil {
			return "", time.Time{}, fmt.Errorf("seal state payload: %w", err)
		}
	}

	now := m.now()
	state := &driven.OAuthState{
		State:     m.newToken(),
		Data:      data,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := m.store.Save(ctx, state); err != nil {
		return "", time.Time{}, fmt.Errorf("save oauth state: %w", err)
	}
	m.logger.Debug("oauth state created", "expires_at", state.ExpiresAt)
	return state.State, state.ExpiresAt, nil
}

// Check reports whether token is currently valid without consuming it.
func (m *StateManager) Check(ctx context.Context, token string) error {
	state, err := m.store.Get(ctx, token)
	if err != nil {
		return fmt.Errorf("get oauth state: %w", err)
	}
	if state == nil || state.Expired(m.now()) {
		return invalidState()
	}
	return nil
}

// Consume returns the payload of token into out and deletes the state.
// Unknown, expired and already consumed tokens yield domain.ErrInvalidState.
func (m *StateManager) Consume(ctx context.Context, token string, out any) error {
	state, err := m.store.GetAndDelete(ctx, token)
	if err != nil {
		return fmt.Errorf("consume oauth state: %w", err)
	}
	if state == nil || state.Expired(m.now()) {
		return invalidState()
	}

	raw := []byte(state.Data)
	if m.sealer != nil {
		if raw, err = m.sealer.Open(state.Data); err != nil {
			m.logger.Warn("oauth state payload could not be opened", "error", err)
			return invalidState()
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode state payload: %w", err)
	}
	return nil
}

func invalidState() error {
	return &domain.Error{
		Kind:    domain.KindClient,
		Title:   "Invalid State",
		Message: "The authorization request has expired or is invalid. Please try again.",
		Err:     domain.ErrInvalidState,
	}
}
