package location

import (
	"context"
	"math"
	"strings"
)

// Location is a named point in the dataset.
type Location struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Source produces the raw dataset. Implementations live in infra/locationsource.
type Source interface {
	Load(ctx context.Context) ([]Location, error)
}

// Error codes raised by this package.
const (
	CodeNotFound          = "location_not_found"
	CodeDatasetLoadFailed = "dataset_load_failed"
)

// ValidCoordinates reports whether lat/lon fall inside the WGS84 ranges.
func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func normalizeKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
