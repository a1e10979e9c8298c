package template

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrUnavailable marks the template data as missing or unreadable. The call
// that hit it fails; the cache stays empty so a later call can retry.
var ErrUnavailable = errors.New("template data unavailable")

// Dataset is the canonical sample analysis document used to seed demo
// records. Loaded once, shared read-only; never mutate it in place.
type Dataset struct {
	Analysis Analysis `json:"analysis"`
}

type Analysis struct {
	Platform  string         `json:"platform"`
	TimeRange int            `json:"time_range"`
	Config    map[string]any `json:"config"`
	Results   map[string]any `json:"results"`
}

// Source loads the dataset from its backing location.
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
}

// FileSource reads the dataset from a JSON file on disk.
type FileSource struct {
	Path string
}

func (s FileSource) Load(_ context.Context) (*Dataset, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, s.Path, err)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrUnavailable, s.Path, err)
	}
	return &ds, nil
}
