package locationsource

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yanqian/prayer-api/internal/domain/location"
)

// FileSource reads the dataset from local disk.
type FileSource struct {
	path string
}

// NewFileSource builds a source for path; the format follows the extension.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: strings.TrimSpace(path)}
}

// Load implements location.Source.
func (s *FileSource) Load(_ context.Context) ([]location.Location, error) {
	if s.path == "" {
		return nil, fmt.Errorf("location dataset path is empty")
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read location dataset: %w", err)
	}
	return location.Decode(data, location.FormatFromName(s.path))
}

var _ location.Source = (*FileSource)(nil)
