package location

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the dataset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromName picks a format from a file or object name.
func FormatFromName(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// record accepts both the flat and the nested coordinate shapes.
type record struct {
	City        string   `json:"city" yaml:"city"`
	Latitude    *float64 `json:"latitude" yaml:"latitude"`
	Longitude   *float64 `json:"longitude" yaml:"longitude"`
	Coordinates *struct {
		Latitude  *float64 `json:"latitude" yaml:"latitude"`
		Longitude *float64 `json:"longitude" yaml:"longitude"`
	} `json:"coordinates" yaml:"coordinates"`
}

type envelope struct {
	Locations []record `json:"locations" yaml:"locations"`
}

// Decode parses a dataset document. The document is either a sequence of
// records or an object holding a "locations" sequence. Records without a
// city or with missing/out-of-range coordinates are dropped.
func Decode(data []byte, format Format) ([]Location, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("dataset is empty")
	}

	var (
		records []record
		err     error
	)
	switch format {
	case FormatYAML:
		records, err = decodeYAML(trimmed)
	default:
		records, err = decodeJSON(trimmed)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s dataset: %w", format, err)
	}

	out := make([]Location, 0, len(records))
	for _, rec := range records {
		loc, ok := rec.toLocation()
		if !ok {
			continue
		}
		out = append(out, loc)
	}
	return out, nil
}

func decodeJSON(data []byte) ([]record, error) {
	if data[0] == '[' {
		var records []record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
		return records, nil
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return env.Locations, nil
}

func decodeYAML(data []byte) ([]record, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, errors.New("dataset is empty")
	}
	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var records []record
		if err := root.Decode(&records); err != nil {
			return nil, err
		}
		return records, nil
	}
	var env envelope
	if err := root.Decode(&env); err != nil {
		return nil, err
	}
	return env.Locations, nil
}

func (r record) toLocation() (Location, bool) {
	city := strings.TrimSpace(r.City)
	if city == "" {
		return Location{}, false
	}
	lat, lon := r.Latitude, r.Longitude
	if r.Coordinates != nil {
		if lat == nil {
			lat = r.Coordinates.Latitude
		}
		if lon == nil {
			lon = r.Coordinates.Longitude
		}
	}
	if lat == nil || lon == nil || !ValidCoordinates(*lat, *lon) {
		return Location{}, false
	}
	return Location{City: city, Latitude: *lat, Longitude: *lon}, true
}
