package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/prayer-api/internal/domain/location"
)

func TestPrintLocationsTable(t *testing.T) {
	var buf bytes.Buffer
	err := printLocations(&buf, []location.Location{{City: "Dammam", Latitude: 26.4, Longitude: 50}}, false)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "CITY")
	require.Contains(t, buf.String(), "Dammam")
	require.Contains(t, buf.String(), "26.4000")
	require.Contains(t, buf.String(), "1 locations")
}

func TestPrintLocationsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printLocations(&buf, []location.Location{}, true))

	var got struct {
		Locations []location.Location `json:"locations"`
		Count     int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Empty(t, got.Locations)
	require.Zero(t, got.Count)
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd("test")
	names := []string{}
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	require.Contains(t, names, "serve")
	require.Contains(t, names, "locations")
	require.NotNil(t, root.Commands()[0].Flags())

	locations, _, err := root.Find([]string{"locations"})
	require.NoError(t, err)
	require.NotNil(t, locations.Flags().Lookup("json"))
}

func TestAutomationRules(t *testing.T) {
	_, err := automationRules(nil)
	require.NoError(t, err)
}
