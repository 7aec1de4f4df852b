// Package store merges the seed file with the dynamic list tier into the
// ordered completion set served to viewers.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/k8ika0s/bounty-ledger/internal/kv"
	"github.com/k8ika0s/bounty-ledger/internal/record"
)

// Options tune write behaviour.
type Options struct {
	// RequireDynamic fails writes when no dynamic tier is configured
	// instead of rewriting the seed file.
	RequireDynamic bool
	// ConfigHint is appended to configuration errors.
	ConfigHint string
	Logger     *zap.Logger
}

// Store is the row store: dynamic rows (newest first) followed by seed rows.
// Rows are never deduplicated across tiers.
type Store struct {
	seed    *SeedFile
	dynamic kv.List
	opts    Options
	log     *zap.Logger
}

// New builds a store. dynamic may be nil for seed-only operation.
func New(seed *SeedFile, dynamic kv.List, opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{seed: seed, dynamic: dynamic, opts: opts, log: log}
}

// Dynamic returns the configured dynamic backend, or nil.
func (s *Store) Dynamic() kv.List { return s.dynamic }

// Close releases the dynamic backend's connections when it holds any.
func (s *Store) Close() error {
	if c, ok := s.dynamic.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// List returns the merged completion set. Dynamic tier failures are logged
// and degrade to seed-only results.
func (s *Store) List(ctx context.Context) ([]record.Completion, error) {
	var seedRows, dynRows []record.Completion
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.seed.Load()
		seedRows = rows
		return err
	})
	g.Go(func() error {
		dynRows = s.dynamicRows(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make([]record.Completion, 0, len(dynRows)+len(seedRows))
	out = append(out, dynRows...)
	return append(out, seedRows...), nil
}

func (s *Store) dynamicRows(ctx context.Context) []record.Completion {
	if s.dynamic == nil {
		return nil
	}
	vals, err := s.dynamic.Range(ctx)
	if err != nil {
		s.log.Warn("dynamic store read failed, serving seed rows only",
			zap.String("backend", s.dynamic.Name()), zap.Error(err))
		return nil
	}
	rows := make([]record.Completion, 0, len(vals))
	for i, v := range vals {
		var c record.Completion
		if err := json.Unmarshal([]byte(v), &c); err != nil {
			s.log.Warn("skipping undecodable dynamic row", zap.Int("index", i), zap.Error(err))
			continue
		}
		rows = append(rows, c)
	}
	return rows
}

// Len returns the merged row count.
func (s *Store) Len(ctx context.Context) (int, error) {
	seedRows, err := s.seed.Load()
	if err != nil {
		return 0, err
	}
	return s.dynamicLen(ctx) + len(seedRows), nil
}

func (s *Store) dynamicLen(ctx context.Context) int {
	if s.dynamic == nil {
		return 0
	}
	n, err := s.dynamic.Len(ctx)
	if err != nil {
		s.log.Warn("dynamic store length failed", zap.String("backend", s.dynamic.Name()), zap.Error(err))
		return 0
	}
	return n
}

// Append validates c, stores it at the head of the writable tier and
// returns the new merged total.
func (s *Store) Append(ctx context.Context, c record.Completion) (int, error) {
	c = c.Normalize()
	if err := c.Validate(); err != nil {
		return 0, err
	}
	if s.dynamic == nil {
		if s.opts.RequireDynamic {
			return 0, s.configError(ErrNotConfigured)
		}
		return s.seed.Prepend(c)
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return 0, err
	}
	if err := s.dynamic.Push(ctx, string(payload)); err != nil {
		if errors.Is(err, kv.ErrNotConfigured) {
			return 0, s.configError(err)
		}
		return 0, &StorageError{Kind: KindUnavailable, Op: "write " + s.dynamic.Name() + " store", Err: err}
	}
	s.log.Debug("completion stored", zap.String("backend", s.dynamic.Name()),
		zap.String("player", c.Player), zap.String("bounty", c.BountyName))
	return s.Len(ctx)
}

func (s *Store) configError(err error) *StorageError {
	return &StorageError{Kind: KindConfig, Op: "append completion", Err: err, Hint: s.opts.ConfigHint}
}
