// Package kv provides list-based key-value backends for the dynamic
// completion tier. Every backend keeps the newest value at the head.
package kv

import (
	"context"
	"errors"
)

// DefaultKey is the list key used when none is configured.
const DefaultKey = "aoe2:bounties:completed"

// ErrNotConfigured is returned by backends constructed without an endpoint.
var ErrNotConfigured = errors.New("dynamic store not configured")

// List is an ordered list of encoded values, most recent first.
type List interface {
	// Push inserts value at the head of the list.
	Push(ctx context.Context, value string) error
	// Range returns every value, head first.
	Range(ctx context.Context) ([]string, error)
	// Len returns the number of values.
	Len(ctx context.Context) (int, error)
	// Name identifies the backend in logs.
	Name() string
}
