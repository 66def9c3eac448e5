package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carpool-backend-go/internal/db"
	"carpool-backend-go/internal/models"
	"carpool-backend-go/internal/store"
)

func newUserService(t *testing.T) UserService {
	t.Helper()
	return NewUserService(db.NewUserRepository(store.NewMemoryStore()), nil)
}

func TestGetOrCreate_FirstContactCreates(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	user, created, err := svc.GetOrCreate(ctx, "uid-1", "Ada", "google.com", "ada@example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "uid-1", user.UID)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "google.com", user.AuthProvider)

	// Second contact finds the stored profile and must not overwrite it.
	again, created, err := svc.GetOrCreate(ctx, "uid-1", "Different Name", "password", "other@example.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Ada", again.Name)
	assert.Equal(t, "google.com", again.AuthProvider)
}

func TestGetByID_Missing(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	_, err := svc.GetByID(ctx, "absent")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSetVehicle_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)
	_, _, err := svc.GetOrCreate(ctx, "uid-1", "Ada", "google.com", "ada@example.com")
	require.NoError(t, err)

	_, err = svc.SetVehicle(ctx, "uid-2", "uid-1", models.SetVehicleRequest{
		Type: "sedan", FuelUsage: 6, NumSeats: 4,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotVehicleOwner)
}

func TestSetVehicle_GeneratesCarID(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)
	_, _, err := svc.GetOrCreate(ctx, "uid-1", "Ada", "google.com", "ada@example.com")
	require.NoError(t, err)

	vehicle, err := svc.SetVehicle(ctx, "uid-1", "uid-1", models.SetVehicleRequest{
		Type: "van", FuelUsage: 9.5, NumSeats: 7, DisplayName: "The Van",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, vehicle.CarID)

	stored, err := svc.GetVehicle(ctx, "uid-1", vehicle.CarID)
	require.NoError(t, err)
	assert.Equal(t, "van", stored.Type)
	assert.Equal(t, 9.5, stored.FuelUsage)
	assert.Equal(t, 7, stored.NumSeats)
}

func TestSetVehicle_ReplacesExisting(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)
	_, _, err := svc.GetOrCreate(ctx, "uid-1", "Ada", "google.com", "ada@example.com")
	require.NoError(t, err)

	_, err = svc.SetVehicle(ctx, "uid-1", "uid-1", models.SetVehicleRequest{
		CarID: "car-1", Type: "sedan", FuelUsage: 6, NumSeats: 4,
	})
	require.NoError(t, err)
	_, err = svc.SetVehicle(ctx, "uid-1", "uid-1", models.SetVehicleRequest{
		CarID: "car-1", Type: "sedan", FuelUsage: 5.2, NumSeats: 4,
	})
	require.NoError(t, err)

	stored, err := svc.GetVehicle(ctx, "uid-1", "car-1")
	require.NoError(t, err)
	assert.Equal(t, 5.2, stored.FuelUsage)
}

func TestDeleteVehicle(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)
	_, _, err := svc.GetOrCreate(ctx, "uid-1", "Ada", "google.com", "ada@example.com")
	require.NoError(t, err)
	_, err = svc.SetVehicle(ctx, "uid-1", "uid-1", models.SetVehicleRequest{
		CarID: "car-1", Type: "sedan", FuelUsage: 6, NumSeats: 4,
	})
	require.NoError(t, err)

	require.Error(t, svc.DeleteVehicle(ctx, "uid-2", "uid-1", "car-1"))
	require.NoError(t, svc.DeleteVehicle(ctx, "uid-1", "uid-1", "car-1"))

	_, err = svc.GetVehicle(ctx, "uid-1", "car-1")
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}
