package location

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/prayer-api/pkg/errors"
)

// Registry is the read-only catalog of known locations. It is built once at
// startup and never mutated, so concurrent readers need no locking.
type Registry struct {
	ordered []Location
	byKey   map[string]Location
}

// NewRegistry indexes locations by case-insensitive city. The first record
// wins when a city repeats.
func NewRegistry(locations []Location) *Registry {
	r := &Registry{
		ordered: make([]Location, 0, len(locations)),
		byKey:   make(map[string]Location, len(locations)),
	}
	for _, loc := range locations {
		key := normalizeKey(loc.City)
		if key == "" {
			continue
		}
		if _, exists := r.byKey[key]; exists {
			continue
		}
		r.byKey[key] = loc
		r.ordered = append(r.ordered, loc)
	}
	return r
}

// LoadRegistry pulls the dataset from src. A failing source is logged once and
// yields an empty registry; city lookups then fail while coordinate and
// default requests keep working.
func LoadRegistry(ctx context.Context, src Source, logger *slog.Logger) *Registry {
	logger = logger.With("component", "location.registry")
	if src == nil {
		logger.Warn("dataset load failed", "code", CodeDatasetLoadFailed, "error", "no location source configured")
		return NewRegistry(nil)
	}
	locations, err := src.Load(ctx)
	if err != nil {
		err = apperrors.Wrap(CodeDatasetLoadFailed, "location dataset could not be loaded", err)
		logger.Warn("dataset load failed", "code", CodeDatasetLoadFailed, "error", err)
		return NewRegistry(nil)
	}
	registry := NewRegistry(locations)
	logger.Info("location dataset loaded", "locations", registry.Len())
	return registry
}

// FindByCity performs a trimmed, case-insensitive exact match.
func (r *Registry) FindByCity(name string) (Location, error) {
	loc, ok := r.byKey[normalizeKey(name)]
	if !ok {
		return Location{}, apperrors.Wrap(CodeNotFound, "location not found: "+strings.TrimSpace(name), nil)
	}
	return loc, nil
}

// All returns the locations in dataset order.
func (r *Registry) All() []Location {
	out := make([]Location, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Len reports how many distinct cities are known.
func (r *Registry) Len() int {
	return len(r.ordered)
}
