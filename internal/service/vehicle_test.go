package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"motorent-backend/internal/domain"
)

func TestAddVehicle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("Rejects non-positive rate", func(t *testing.T) {
		var valErr domain.ValidationError
		err := f.vehicles.Add(ctx, &domain.Vehicle{Plate: "X", DailyRate: decimal.Zero})
		assert.ErrorAs(t, err, &valErr)
		err = f.vehicles.Add(ctx, &domain.Vehicle{Plate: "X", DailyRate: decimal.NewFromInt(-5)})
		assert.ErrorAs(t, err, &valErr)
	})

	t.Run("Starts available", func(t *testing.T) {
		v := &domain.Vehicle{Plate: "ABC 99", DailyRate: decimal.NewFromInt(80)}
		assert.NoError(t, f.vehicles.Add(ctx, v))
		assert.NotZero(t, v.ID)
		assert.Equal(t, domain.VehicleStatusAvailable, v.Status)
	})
}

func TestArchiveVehicle(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t)
	ctx := context.Background()

	rental, err := f.reservations.Create(ctx, "jane", v.ID, future(1), future(3), false)
	assert.NoError(t, err)

	assert.NoError(t, f.vehicles.Archive(ctx, v.ID))

	// The archived vehicle disappears from the catalog but its history
	// stays reachable.
	listed, err := f.vehicles.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, listed)

	got, err := f.reservations.Get(ctx, rental.ID)
	assert.NoError(t, err)
	assert.Equal(t, v.ID, got.VehicleID)

	// No new bookings on an archived vehicle.
	var valErr domain.ValidationError
	_, err = f.reservations.Create(ctx, "bob", v.ID, future(10), future(12), false)
	assert.ErrorAs(t, err, &valErr)
}

func TestSchedule(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t)
	ctx := context.Background()

	intervals, err := f.vehicles.Schedule(ctx, v.ID)
	assert.NoError(t, err)
	assert.Empty(t, intervals)

	_, err = f.reservations.Create(ctx, "jane", v.ID, future(1), future(3), false)
	assert.NoError(t, err)
	_, err = f.reservations.Create(ctx, "bob", v.ID, future(10), future(12), false)
	assert.NoError(t, err)

	intervals, err = f.vehicles.Schedule(ctx, v.ID)
	assert.NoError(t, err)
	assert.Len(t, intervals, 2)

	t.Run("Invalid override value", func(t *testing.T) {
		var valErr domain.ValidationError
		err := f.vehicles.SetOverride(ctx, v.ID, domain.StatusOverride("BROKEN"))
		assert.ErrorAs(t, err, &valErr)
	})
}
