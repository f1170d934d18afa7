package location

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/prayer-api/pkg/errors"
)

func TestRegistryFindByCityCaseInsensitive(t *testing.T) {
	reg := NewRegistry([]Location{
		{City: "Dammam", Latitude: 26.4, Longitude: 50.0},
		{City: "Riyadh", Latitude: 24.7, Longitude: 46.7},
	})

	for _, name := range []string{"Dammam", "dammam", "DAMMAM", "  dAmMaM "} {
		loc, err := reg.FindByCity(name)
		require.NoError(t, err, name)
		require.Equal(t, 26.4, loc.Latitude)
		require.Equal(t, 50.0, loc.Longitude)
	}
}

func TestRegistryFindByCityNotFound(t *testing.T) {
	reg := NewRegistry([]Location{{City: "Dammam", Latitude: 26.4, Longitude: 50.0}})

	_, err := reg.FindByCity("Atlantis")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeNotFound))

	_, err = reg.FindByCity("Damm")
	require.True(t, apperrors.IsCode(err, CodeNotFound))
}

func TestRegistryKeepsFirstDuplicate(t *testing.T) {
	reg := NewRegistry([]Location{
		{City: "Khobar", Latitude: 26.2, Longitude: 50.2},
		{City: "KHOBAR", Latitude: 0, Longitude: 0},
		{City: "Jubail", Latitude: 27.0, Longitude: 49.6},
	})

	require.Equal(t, 2, reg.Len())
	loc, err := reg.FindByCity("khobar")
	require.NoError(t, err)
	require.Equal(t, 26.2, loc.Latitude)
	require.Equal(t, "Jubail", reg.All()[1].City)
}

func TestRegistryAllReturnsCopy(t *testing.T) {
	reg := NewRegistry([]Location{{City: "Dammam", Latitude: 26.4, Longitude: 50.0}})

	all := reg.All()
	all[0].City = "mutated"

	require.Equal(t, "Dammam", reg.All()[0].City)
}

func TestLoadRegistryDegradesOnFailure(t *testing.T) {
	reg := LoadRegistry(context.Background(), failingSource{}, discardLogger())

	require.Equal(t, 0, reg.Len())
	require.Empty(t, reg.All())
	_, err := reg.FindByCity("Dammam")
	require.True(t, apperrors.IsCode(err, CodeNotFound))
}

func TestLoadRegistryNilSource(t *testing.T) {
	reg := LoadRegistry(context.Background(), nil, discardLogger())
	require.Equal(t, 0, reg.Len())
}

func TestLoadRegistrySuccess(t *testing.T) {
	src := staticSource{{City: "Dammam", Latitude: 26.4, Longitude: 50.0}}

	reg := LoadRegistry(context.Background(), src, discardLogger())
	require.Equal(t, 1, reg.Len())
}

type failingSource struct{}

func (failingSource) Load(context.Context) ([]Location, error) {
	return nil, errors.New("corrupt dataset")
}

type staticSource []Location

func (s staticSource) Load(context.Context) ([]Location, error) {
	return s, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
