// Package view implements the data-consistency contract between list
// surfaces and the backing store: a per-user collection snapshot that is
// replaced wholesale by Refresh after every successful mutation, never
// patched incrementally.
package view

import (
	"context"
	"errors"
	"sync"

	"github.com/anandr/kuliahku/internal/pkg/apperrors"
)

// ErrSessionUnresolved is returned while the session state is still unknown;
// no fetch may be issued until the session resolves.
var ErrSessionUnresolved = errors.New("session not yet resolved")

// SessionState mirrors the auth provider's resolution state.
type SessionState int

const (
	// SessionUnknown is the initial state while the session resolves.
	SessionUnknown SessionState = iota
	// SessionAuthenticated means a user is signed in.
	SessionAuthenticated
	// SessionUnauthenticated means no session exists.
	SessionUnauthenticated
)

// State is the collection's visible tri-state.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

// FetchFunc loads the full collection from the store.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Collection holds the in-memory collection for one entity type and one
// owner. It is owned exclusively by its registry; all writes reach it
// through Refresh.
type Collection[T any] struct {
	mu      sync.Mutex
	fetch   FetchFunc[T]
	session SessionState
	state   State
	items   []T
	err     error

	// started counts Refresh calls, applied records the newest one whose
	// result has been installed. The latest completed fetch wins; results
	// of an older in-flight fetch landing late are discarded.
	started uint64
	applied uint64
}

// NewCollection creates a collection in the given session state.
func NewCollection[T any](fetch FetchFunc[T], session SessionState) *Collection[T] {
	c := &Collection[T]{
		fetch:   fetch,
		session: session,
		state:   StateLoading,
	}
	if session == SessionUnauthenticated {
		c.state = StateError
		c.err = apperrors.ErrAuthenticationRequired
	}
	return c
}

// Refresh re-reads the full collection. It is idempotent and safe to call
// concurrently with itself: whichever call completes last overwrites the
// snapshot wholesale.
func (c *Collection[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	switch c.session {
	case SessionUnknown:
		c.mu.Unlock()
		return ErrSessionUnresolved
	case SessionUnauthenticated:
		c.items = nil
		c.state = StateError
		c.err = apperrors.ErrAuthenticationRequired
		c.mu.Unlock()
		return apperrors.ErrAuthenticationRequired
	}
	c.started++
	gen := c.started
	if c.state != StateReady {
		c.state = StateLoading
	}
	fetch := c.fetch
	c.mu.Unlock()

	items, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen <= c.applied {
		// A newer Refresh already completed; discard this result.
		return c.err
	}
	if c.session != SessionAuthenticated {
		// Signed out while the fetch was in flight; the result is stale.
		return apperrors.ErrAuthenticationRequired
	}

	c.applied = gen
	if err != nil {
		c.state = StateError
		c.err = err
		return err
	}

	c.items = items
	c.state = StateReady
	c.err = nil
	return nil
}

// Items returns the current snapshot. An unauthenticated session is a
// distinct error, never an empty result.
func (c *Collection[T]) Items() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == SessionUnauthenticated {
		return nil, apperrors.ErrAuthenticationRequired
	}
	if c.state == StateError {
		return nil, c.err
	}

	items := make([]T, len(c.items))
	copy(items, c.items)
	return items, nil
}

// State reports the collection's visible state.
func (c *Collection[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetSession applies a session transition. Entering the unauthenticated
// state clears the snapshot and surfaces the authentication-required error.
func (c *Collection[T]) SetSession(session SessionState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = session
	if session == SessionUnauthenticated {
		c.items = nil
		c.state = StateError
		c.err = apperrors.ErrAuthenticationRequired
	}
}
