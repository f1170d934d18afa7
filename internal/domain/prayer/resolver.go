package prayer

import (
	"fmt"
	"strings"

	"github.com/yanqian/prayer-api/internal/domain/location"
	apperrors "github.com/yanqian/prayer-api/pkg/errors"
)

// LocationCatalog is the subset of the registry the resolver depends on.
type LocationCatalog interface {
	FindByCity(name string) (location.Location, error)
	All() []location.Location
}

// Origin records which resolution rule produced a configuration.
type Origin int

const (
	OriginDefault Origin = iota
	OriginCity
	OriginCoordinates
)

// ClientSupplied reports whether the location came from the request.
func (o Origin) ClientSupplied() bool {
	return o != OriginDefault
}

// DefaultLocation is the location used when a request carries no hints.
type DefaultLocation struct {
	City        string
	CountryCode string
	Latitude    float64
	Longitude   float64
}

// Label renders "MANAMA, BH".
func (d DefaultLocation) Label() string {
	return cityLabel(d.City, d.CountryCode)
}

// Defaults are the process-wide calculation settings.
type Defaults struct {
	TimezoneOffset int
	Method         CalculationMethod
	School         JuristicSchool
	CountryCode    string
	Location       DefaultLocation
}

// Resolved is the outcome of resolving a request.
type Resolved struct {
	Config CalculationConfig
	Label  string
	Origin Origin
}

// Resolver turns request hints into a calculation configuration.
type Resolver struct {
	catalog  LocationCatalog
	defaults Defaults
}

// NewResolver builds a resolver over catalog.
func NewResolver(catalog LocationCatalog, defaults Defaults) *Resolver {
	if defaults.CountryCode == "" {
		defaults.CountryCode = "SA"
	}
	if !defaults.Method.Valid() {
		defaults.Method = MethodUmmAlQura
	}
	if !defaults.School.Valid() {
		defaults.School = SchoolStandard
	}
	return &Resolver{catalog: catalog, defaults: defaults}
}

// Resolve applies, in order: city lookup, explicit coordinates, default location.
// Requests with only one coordinate fall through to the default.
func (r *Resolver) Resolve(req LocationRequest) (Resolved, error) {
	if city := strings.TrimSpace(req.City); city != "" {
		if r.catalog == nil {
			return Resolved{}, apperrors.Wrap(CodeLocationNotFound, "location not found: "+city, nil)
		}
		loc, err := r.catalog.FindByCity(city)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{
			Config: r.config(loc.Latitude, loc.Longitude),
			Label:  cityLabel(loc.City, r.defaults.CountryCode),
			Origin: OriginCity,
		}, nil
	}

	if req.Latitude != nil && req.Longitude != nil {
		lat, lon := *req.Latitude, *req.Longitude
		if !location.ValidCoordinates(lat, lon) {
			return Resolved{}, apperrors.Wrap(CodeInvalidInput, "latitude must be within [-90, 90] and longitude within [-180, 180]", nil)
		}
		return Resolved{
			Config: r.config(lat, lon),
			Label:  fmt.Sprintf("LAT: %.4f, LON: %.4f", lat, lon),
			Origin: OriginCoordinates,
		}, nil
	}

	def := r.defaults.Location
	return Resolved{
		Config: r.config(def.Latitude, def.Longitude),
		Label:  def.Label(),
		Origin: OriginDefault,
	}, nil
}

// Default resolves the default location.
func (r *Resolver) Default() Resolved {
	resolved, _ := r.Resolve(LocationRequest{})
	return resolved
}

func (r *Resolver) config(lat, lon float64) CalculationConfig {
	return CalculationConfig{
		Latitude:       lat,
		Longitude:      lon,
		TimezoneOffset: r.defaults.TimezoneOffset,
		Method:         r.defaults.Method,
		School:         r.defaults.School,
	}
}

func cityLabel(city, countryCode string) string {
	return fmt.Sprintf("%s, %s", strings.ToUpper(strings.TrimSpace(city)), countryCode)
}
