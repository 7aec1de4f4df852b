package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/k8ika0s/bounty-ledger/internal/record"
)

// ImportResult captures import stats.
type ImportResult struct {
	Rows    int
	Loaded  int
	Skipped int
	Total   int
	Errors  []string
}

// ImportFile appends the completions listed in a JSON or YAML file. The file
// is read newest first, like the seed file, so rows are appended from the end
// to keep that order at the head of the store.
func ImportFile(ctx context.Context, st *Store, path string) (ImportResult, error) {
	var res ImportResult
	data, err := os.ReadFile(path)
	if err != nil {
		return res, err
	}
	var candidates []map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &candidates)
	case ".json":
		err = json.Unmarshal(data, &candidates)
	default:
		return res, fmt.Errorf("unsupported import format: %s", path)
	}
	if err != nil {
		return res, fmt.Errorf("parse %s: %w", path, err)
	}
	res.Rows = len(candidates)
	for i := len(candidates) - 1; i >= 0; i-- {
		c, err := record.Parse(candidates[i])
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			res.Skipped++
			continue
		}
		total, err := st.Append(ctx, c)
		if err != nil {
			return res, fmt.Errorf("row %d: %w", i+1, err)
		}
		res.Total = total
		res.Loaded++
	}
	if res.Loaded == 0 {
		res.Total, err = st.Len(ctx)
	}
	return res, err
}
