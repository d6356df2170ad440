package view

import (
	"context"
	"sync"
)

// OwnerFetchFunc loads the full collection of one owner from the store.
type OwnerFetchFunc[T any] func(ctx context.Context, ownerID string) ([]T, error)

// Dropper tears down the per-user view state on sign-out.
type Dropper interface {
	Drop(ownerID string)
}

// Registry keeps one Collection per owner. Collections are created lazily
// for authenticated owners and dropped when the owner signs out.
type Registry[T any] struct {
	mu          sync.Mutex
	fetch       OwnerFetchFunc[T]
	collections map[string]*Collection[T]
}

// NewRegistry creates a registry backed by the given fetch function.
func NewRegistry[T any](fetch OwnerFetchFunc[T]) *Registry[T] {
	return &Registry[T]{
		fetch:       fetch,
		collections: make(map[string]*Collection[T]),
	}
}

// ForOwner returns the owner's collection, creating it on first use.
func (r *Registry[T]) ForOwner(ownerID string) *Collection[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.collections[ownerID]; ok {
		return c
	}

	fetch := func(ctx context.Context) ([]T, error) {
		return r.fetch(ctx, ownerID)
	}
	c := NewCollection(fetch, SessionAuthenticated)
	r.collections[ownerID] = c
	return c
}

// Drop removes the owner's collection, marking it unauthenticated first so
// any in-flight fetch result is discarded instead of applied.
func (r *Registry[T]) Drop(ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.collections[ownerID]; ok {
		c.SetSession(SessionUnauthenticated)
		delete(r.collections, ownerID)
	}
}
