// Package session gives each browser a small server-side key-value store,
// identified by a signed cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoSession means the request never passed through Manager.Middleware.
var ErrNoSession = errors.New("session: no session on request")

// State is the per-client key-value capability handed to request handlers.
type State interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Backend stores values for every session. Implementations must be safe
// for concurrent use.
type Backend interface {
	Get(ctx context.Context, sid, key string) (string, bool, error)
	Set(ctx context.Context, sid, key, value string, ttl time.Duration) error
	Close() error
}

// Bind scopes a backend to one session id.
func Bind(b Backend, sid string, ttl time.Duration) State {
	return boundState{b: b, sid: sid, ttl: ttl}
}

type boundState struct {
	b   Backend
	sid string
	ttl time.Duration
}

func (s boundState) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := s.b.Get(ctx, s.sid, key)
	if err != nil {
		return "", false, fmt.Errorf("session get %q: %w", key, err)
	}
	return v, ok, nil
}

func (s boundState) Set(ctx context.Context, key, value string) error {
	if err := s.b.Set(ctx, s.sid, key, value, s.ttl); err != nil {
		return fmt.Errorf("session set %q: %w", key, err)
	}
	return nil
}
