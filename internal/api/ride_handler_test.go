package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carpool-backend-go/internal/core"
	"carpool-backend-go/internal/db"
	"carpool-backend-go/internal/middleware"
	"carpool-backend-go/internal/routing"
	"carpool-backend-go/internal/store"
)

// newTestRouter wires the ride endpoints against the in-memory store with a
// fake authenticated user, sidestepping Firebase token verification.
func newTestRouter(t *testing.T, userID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := store.NewMemoryStore()
	rideRepo := db.NewRideRepository(s)
	routeRepo := db.NewRouteRepository(s)
	userRepo := db.NewUserRepository(s)
	rideService := core.NewRideService(rideRepo, routeRepo, userRepo, &routing.StraightLinePlanner{}, nil)
	handler := NewRideHandler(rideService, nil)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	})

	rides := router.Group("/api/v1/rides")
	{
		rides.POST("", handler.CreateRide)
		rides.GET("/:rideId", handler.GetRide)
		rides.POST("/:rideId/pickups", handler.AddPickup)
		rides.PUT("/:rideId/pickups/:pickupId/members", handler.JoinPickup)
		rides.PUT("/:rideId/driver", handler.AssignDriver)
		rides.PUT("/:rideId/start", handler.SelectStart)
		rides.POST("/:rideId/complete", handler.CompleteRide)
		rides.GET("/:rideId/route", handler.GetRoute)
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRideEndpoints_CreateAndFetch(t *testing.T) {
	router := newTestRouter(t, "u1")

	w := doJSON(t, router, http.MethodPost, "/api/v1/rides", `{
		"name": "Morning Commute",
		"end": {"lat": 52.5, "lng": 13.4},
		"startDate": "2026-09-01",
		"pickupPoints": [{"location": {"lat": 52.4, "lng": 13.3}}]
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created RideResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	require.Len(t, created.PickupPoints, 1)

	w = doJSON(t, router, http.MethodGet, "/api/v1/rides/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var fetched RideResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Morning Commute", fetched.Name)
}

func TestRideEndpoints_MissingRideIs404(t *testing.T) {
	router := newTestRouter(t, "u1")

	w := doJSON(t, router, http.MethodGet, "/api/v1/rides/absent", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
}

func TestRideEndpoints_InvalidPayloadIs400(t *testing.T) {
	router := newTestRouter(t, "u1")

	w := doJSON(t, router, http.MethodPost, "/api/v1/rides", `{"name": ""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRideEndpoints_SelectStartReportsRecompute(t *testing.T) {
	router := newTestRouter(t, "u1")

	w := doJSON(t, router, http.MethodPost, "/api/v1/rides", `{
		"name": "r",
		"end": {"lat": 52.5, "lng": 13.4},
		"startDate": "2026-09-01",
		"pickupPoints": [{"location": {"lat": 52.4, "lng": 13.3}}]
	}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created RideResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	pickupID := created.PickupPoints[0].ID

	w = doJSON(t, router, http.MethodPut, "/api/v1/rides/"+created.ID+"/start",
		`{"pickupId": "`+pickupID+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var status RecomputeStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.RecomputeStarted)

	// Selecting an unknown start is a reference error, not a recompute.
	w = doJSON(t, router, http.MethodPut, "/api/v1/rides/"+created.ID+"/start",
		`{"pickupId": "bogus"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRideEndpoints_AssignDriverRejectsUnownedCar(t *testing.T) {
	router := newTestRouter(t, "u1")

	w := doJSON(t, router, http.MethodPost, "/api/v1/rides", `{
		"name": "r",
		"end": {"lat": 1, "lng": 1},
		"startDate": "2026-09-01"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created RideResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodPut, "/api/v1/rides/"+created.ID+"/driver",
		`{"driverId": "u1", "carId": "ghost-car"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRideEndpoints_CompleteThenRouteIs404(t *testing.T) {
	router := newTestRouter(t, "u1")

	w := doJSON(t, router, http.MethodPost, "/api/v1/rides", `{
		"name": "r",
		"end": {"lat": 1, "lng": 1},
		"startDate": "2026-09-01"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created RideResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodPost, "/api/v1/rides/"+created.ID+"/complete", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	// No route was ever computed for this ride.
	w = doJSON(t, router, http.MethodGet, "/api/v1/rides/"+created.ID+"/route", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
