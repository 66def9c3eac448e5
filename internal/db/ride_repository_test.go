package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carpool-backend-go/internal/models"
	"carpool-backend-go/internal/store"
)

func newTestRideRepo(t *testing.T) (RideRepository, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	return NewRideRepository(s), s
}

func TestRideRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRideRepo(t)

	rideID, err := repo.Create(ctx, &models.Ride{
		Name:      "Morning Commute",
		End:       models.Coord{Lat: 52.5, Lng: 13.4},
		StartDate: "2026-09-01",
	})
	require.NoError(t, err)
	require.NotEmpty(t, rideID)

	ride, err := repo.GetByID(ctx, rideID)
	require.NoError(t, err)
	assert.Equal(t, rideID, ride.ID)
	assert.Equal(t, "Morning Commute", ride.Name)
	assert.False(t, ride.IsComplete)
}

func TestRideRepository_CreateRejectsPresetID(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRideRepo(t)

	_, err := repo.Create(ctx, &models.Ride{ID: "custom", Name: "x"})
	require.Error(t, err)
}

func TestRideRepository_GetMissingRideIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRideRepo(t)

	_, err := repo.GetByID(ctx, "absent")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRideRepository_DriverFieldWrites(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRideRepo(t)

	rideID, err := repo.Create(ctx, &models.Ride{Name: "r"})
	require.NoError(t, err)

	require.NoError(t, repo.SetDriver(ctx, rideID, "u1"))
	require.NoError(t, repo.SetCarID(ctx, rideID, "car-1"))

	ride, err := repo.GetByID(ctx, rideID)
	require.NoError(t, err)
	assert.Equal(t, "u1", ride.Driver)
	assert.Equal(t, "car-1", ride.CarID)

	// Empty values clear the fields completely.
	require.NoError(t, repo.SetDriver(ctx, rideID, ""))
	require.NoError(t, repo.SetCarID(ctx, rideID, ""))

	ride, err = repo.GetByID(ctx, rideID)
	require.NoError(t, err)
	assert.Empty(t, ride.Driver)
	assert.Empty(t, ride.CarID)
}

func TestRideRepository_PickupKeysPreserveInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRideRepo(t)

	rideID, err := repo.Create(ctx, &models.Ride{Name: "r"})
	require.NoError(t, err)

	var keys []string
	for i := 0; i < 5; i++ {
		key, err := repo.AddPickup(ctx, rideID, models.PickupPoint{
			Location: models.Coord{Lat: float64(i), Lng: float64(i)},
		})
		require.NoError(t, err)
		keys = append(keys, key)
	}
	for i := 1; i < len(keys); i++ {
		assert.Greater(t, keys[i], keys[i-1])
	}

	ride, err := repo.GetByID(ctx, rideID)
	require.NoError(t, err)
	require.Len(t, ride.PickupPoints, 5)
	for key, p := range ride.PickupPoints {
		assert.Equal(t, key, p.ID)
	}
}

func TestRideRepository_PickupMembershipIsALeafSet(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRideRepo(t)

	rideID, err := repo.Create(ctx, &models.Ride{Name: "r"})
	require.NoError(t, err)
	pickupID, err := repo.AddPickup(ctx, rideID, models.PickupPoint{Location: models.Coord{Lat: 1, Lng: 1}})
	require.NoError(t, err)

	require.NoError(t, repo.SetPickupMember(ctx, rideID, pickupID, "u1", true))
	require.NoError(t, repo.SetPickupMember(ctx, rideID, pickupID, "u2", true))

	pickup, err := repo.GetPickup(ctx, rideID, pickupID)
	require.NoError(t, err)
	assert.True(t, pickup.HasMember("u1"))
	assert.True(t, pickup.HasMember("u2"))

	// Removal deletes the leaf; the entry never lingers as false.
	require.NoError(t, repo.SetPickupMember(ctx, rideID, pickupID, "u1", false))
	pickup, err = repo.GetPickup(ctx, rideID, pickupID)
	require.NoError(t, err)
	assert.False(t, pickup.HasMember("u1"))
	_, present := pickup.Members["u1"]
	assert.False(t, present)
}

func TestRideRepository_PassengerRegistry(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRideRepo(t)

	// The registry lives outside the ride record, so no ride needs to exist.
	_, err := repo.Passengers(ctx, "r1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.SetPassenger(ctx, "r1", "u1", true))
	require.NoError(t, repo.SetPassenger(ctx, "r1", "u2", true))

	registry, err := repo.Passengers(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"u1": true, "u2": true}, registry)

	require.NoError(t, repo.SetPassenger(ctx, "r1", "u1", false))
	registry, err = repo.Passengers(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"u2": true}, registry)
}

func TestRideRepository_WatchStreamsSnapshots(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRideRepo(t)

	rideID, err := repo.Create(ctx, &models.Ride{Name: "r"})
	require.NoError(t, err)

	ch, stop, err := repo.Watch(ctx, rideID)
	require.NoError(t, err)
	defer stop()

	first := <-ch
	require.NotNil(t, first)
	assert.Equal(t, rideID, first.ID)

	require.NoError(t, repo.SetDriver(ctx, rideID, "u1"))
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ride := <-ch:
			require.NotNil(t, ride)
			if ride.Driver == "u1" {
				return
			}
		case <-deadline:
			t.Fatal("driver change never observed")
		}
	}
}
