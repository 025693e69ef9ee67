package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withGeoServer points geoAPIURL at a test server for the duration of the test.
func withGeoServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	origURL := geoAPIURL
	geoAPIURL = server.URL
	t.Cleanup(func() { geoAPIURL = origURL })
}

func TestDetectLocation_Success(t *testing.T) {
	withGeoServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ipAPIResponse{
			Status:   "success",
			Lat:      51.5074,
			Lon:      -0.1278,
			City:     "London",
			Country:  "United Kingdom",
			Timezone: "Europe/London",
		})
	})

	loc, err := DetectLocation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 51.5074, loc.Latitude)
	assert.Equal(t, -0.1278, loc.Longitude)
	assert.Equal(t, "Europe/London", loc.Timezone)
	assert.Equal(t, "London, United Kingdom", loc.Label())
}

func TestDetectLocation_APIFailureStatus(t *testing.T) {
	withGeoServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ipAPIResponse{Status: "fail", Message: "reserved range"})
	})

	_, err := DetectLocation(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved range")
}

func TestDetectLocation_HTTPError(t *testing.T) {
	withGeoServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := DetectLocation(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestDetectLocation_InvalidJSON(t *testing.T) {
	withGeoServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := DetectLocation(context.Background())
	assert.Error(t, err)
}

func TestLocationLabel_CoordinatesFallback(t *testing.T) {
	loc := Location{Latitude: 24.7136, Longitude: 46.6753}
	assert.Equal(t, "24.7136, 46.6753", loc.Label())
}
