package objectstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/k8ika0s/bounty-ledger/internal/record"
)

// LatestKey always holds the most recent snapshot.
const LatestKey = "bounties/latest.json"

// Archiver writes the merged completion set to object storage.
type Archiver struct {
	Store Store
	Now   func() time.Time
}

// Snapshot uploads rows as a timestamped object and as LatestKey. It returns
// the timestamped key.
func (a Archiver) Snapshot(ctx context.Context, rows []record.Completion) (string, error) {
	if a.Store == nil {
		return "", nil
	}
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", err
	}
	data = append(data, '\n')
	key := fmt.Sprintf("bounties/snapshots/%s.json", now().UTC().Format("20060102T150405Z"))
	for _, k := range []string{key, LatestKey} {
		if err := a.Store.Put(ctx, k, data, "application/json"); err != nil {
			return "", fmt.Errorf("put %s: %w", k, err)
		}
	}
	return key, nil
}
