package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carpool-backend-go/internal/models"
)

func TestOSRMClient_ParsesRoute(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"code": "Ok",
			"routes": [{
				"distance": 12345.6,
				"duration": 980.0,
				"geometry": {"coordinates": [[13.4, 52.5], [13.41, 52.51]]}
			}]
		}`))
	}))
	defer srv.Close()

	client := NewOSRMClient(srv.URL)
	plan, err := client.Optimize(context.Background(), []models.Coord{
		{Lat: 52.5, Lng: 13.4},
		{Lat: 52.51, Lng: 13.41},
	})
	require.NoError(t, err)

	assert.Equal(t, 12345.6, plan.DistanceMeters)
	assert.Equal(t, 980.0, plan.DurationSeconds)
	// GeoJSON is lon,lat; Coord is lat,lng.
	require.Len(t, plan.Shape, 2)
	assert.Equal(t, models.Coord{Lat: 52.5, Lng: 13.4}, plan.Shape[0])
	assert.Contains(t, gotPath, "/route/v1/driving/13.400000,52.500000;13.410000,52.510000")
}

func TestOSRMClient_NoRouteIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "NoRoute", "routes": []}`))
	}))
	defer srv.Close()

	client := NewOSRMClient(srv.URL)
	_, err := client.Optimize(context.Background(), []models.Coord{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRouteUnavailable)
}

func TestOSRMClient_ServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewOSRMClient(srv.URL)
	_, err := client.Optimize(context.Background(), []models.Coord{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRouteUnavailable)
}

func TestOSRMClient_DownProviderIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	client := NewOSRMClient(srv.URL)
	_, err := client.Optimize(context.Background(), []models.Coord{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRouteUnavailable)
}

func TestOSRMClient_RequiresTwoWaypoints(t *testing.T) {
	client := NewOSRMClient("http://unused")
	_, err := client.Optimize(context.Background(), []models.Coord{{Lat: 1, Lng: 1}})
	require.Error(t, err)
}
