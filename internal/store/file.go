package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dotapit/stats-api/internal/models"
)

// FileSource reads the community's exported JSON dump from disk.
type FileSource struct {
	Path string
}

func (f *FileSource) Fetch(_ context.Context) (*models.MatchExport, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", f.Path, err)
	}

	var export models.MatchExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", f.Path, err)
	}
	return &export, nil
}
