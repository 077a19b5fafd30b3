package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"motorent-backend/internal/domain"
)

func TestDeriveStatus(t *testing.T) {
	today := domain.Today()

	active := domain.Rental{Status: domain.RentalStatusActive}
	picked := domain.Rental{Status: domain.RentalStatusActive, PickedUp: true}
	pending := domain.Rental{Status: domain.RentalStatusPending}
	returned := domain.Rental{Status: domain.RentalStatusReturned}
	cancelled := domain.Rental{Status: domain.RentalStatusCancelled}

	tests := []struct {
		name         string
		override     domain.StatusOverride
		rentals      []domain.Rental
		criticalOpen bool
		intervals    []domain.BookedInterval
		want         domain.VehicleStatus
	}{
		{
			name: "Free vehicle is available",
			want: domain.VehicleStatusAvailable,
		},
		{
			name:    "Pending rental reserves",
			rentals: []domain.Rental{pending},
			want:    domain.VehicleStatusReserved,
		},
		{
			name:    "Active rental before pickup reserves",
			rentals: []domain.Rental{active},
			want:    domain.VehicleStatusReserved,
		},
		{
			name:    "Consumed ticket means rented",
			rentals: []domain.Rental{picked},
			want:    domain.VehicleStatusRented,
		},
		{
			name:      "Future interval alone reserves",
			intervals: []domain.BookedInterval{{Start: today.AddDays(5), End: today.AddDays(8)}},
			want:      domain.VehicleStatusReserved,
		},
		{
			name:      "Past interval does not hold the vehicle",
			intervals: []domain.BookedInterval{{Start: today.AddDays(-8), End: today.AddDays(-5)}},
			want:      domain.VehicleStatusAvailable,
		},
		{
			name:    "Terminal rentals do not hold the vehicle",
			rentals: []domain.Rental{returned, cancelled},
			want:    domain.VehicleStatusAvailable,
		},
		{
			name:         "Critical issue outranks a live rental",
			rentals:      []domain.Rental{picked},
			criticalOpen: true,
			want:         domain.VehicleStatusUnderMaintenance,
		},
		{
			name:         "Override outranks everything",
			override:     domain.OverrideOutOfService,
			rentals:      []domain.Rental{picked},
			criticalOpen: true,
			want:         domain.VehicleStatusOutOfService,
		},
		{
			name:     "Maintenance override",
			override: domain.OverrideUnderMaintenance,
			want:     domain.VehicleStatusUnderMaintenance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &domain.Vehicle{Override: tt.override, Intervals: tt.intervals}
			got := DeriveStatus(v, tt.rentals, tt.criticalOpen, today)
			assert.Equal(t, tt.want, got)
		})
	}
}
