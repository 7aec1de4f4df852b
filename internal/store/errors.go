package store

import (
	"errors"
	"fmt"
)

// Kind classifies a StorageError so callers can report actionable messages.
type Kind int

const (
	// KindUnavailable covers I/O and network failures.
	KindUnavailable Kind = iota
	// KindConfig means a required backend is not configured.
	KindConfig
	// KindCorrupt means the seed file is not a well-formed array of completions.
	KindCorrupt
)

var (
	ErrNotConfigured = errors.New("dynamic store not configured")
	ErrCorrupt       = errors.New("seed data corrupt")
	ErrUnavailable   = errors.New("storage unavailable")
)

// StorageError reports a failure of the backing file or the dynamic store.
type StorageError struct {
	Kind Kind
	Op   string
	Err  error
	// Hint tells the operator what to configure, for KindConfig.
	Hint string
}

func (e *StorageError) Error() string {
	msg := e.Op
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *StorageError) Is(target error) bool {
	switch e.Kind {
	case KindConfig:
		return target == ErrNotConfigured
	case KindCorrupt:
		return target == ErrCorrupt
	default:
		return target == ErrUnavailable
	}
}
