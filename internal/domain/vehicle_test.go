package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(day int) Date {
	return NewDate(2024, time.January, day)
}

func TestIntervalsClash(t *testing.T) {
	// Existing booking Jan 1..Jan 10, buffer of 2 days.
	t.Run("Overlap", func(t *testing.T) {
		assert.True(t, IntervalsClash(d(5), d(15), d(1), d(10), 2))
		assert.True(t, IntervalsClash(d(1), d(10), d(1), d(10), 2))
	})

	t.Run("Within buffer", func(t *testing.T) {
		// Jan 11 and Jan 12 fall inside the 2-day tail buffer.
		assert.True(t, IntervalsClash(d(11), d(15), d(1), d(10), 2))
		assert.True(t, IntervalsClash(d(12), d(15), d(1), d(10), 2))
		// Same on the leading side.
		assert.True(t, IntervalsClash(d(20), d(30), d(22), d(25), 2))
	})

	t.Run("Clear of buffer", func(t *testing.T) {
		assert.False(t, IntervalsClash(d(13), d(15), d(1), d(10), 2))
		assert.False(t, IntervalsClash(d(20), d(25), d(28), d(30), 2))
	})

	t.Run("Zero buffer", func(t *testing.T) {
		// Back-to-back ranges do not collide without a buffer.
		assert.False(t, IntervalsClash(d(11), d(15), d(1), d(10), 0))
		assert.True(t, IntervalsClash(d(10), d(15), d(1), d(10), 0))
	})
}

func TestAdjacent(t *testing.T) {
	assert.True(t, Adjacent(d(11), d(15), d(1), d(10)))
	assert.True(t, Adjacent(d(1), d(10), d(11), d(15)))
	assert.False(t, Adjacent(d(12), d(15), d(1), d(10)))
	assert.False(t, Adjacent(d(5), d(8), d(1), d(10)))
}

func TestVehicleReserveRelease(t *testing.T) {
	v := &Vehicle{}
	v.Reserve(d(1), d(10))
	v.Reserve(d(20), d(25))
	assert.Len(t, v.Intervals, 2)

	v.Release(d(1), d(10))
	assert.Len(t, v.Intervals, 1)
	assert.True(t, v.Intervals[0].Start.Equal(d(20)))

	// Releasing again, or releasing an unknown interval, is a no-op.
	v.Release(d(1), d(10))
	v.Release(d(2), d(9))
	assert.Len(t, v.Intervals, 1)
}

func TestVehicleHasFutureInterval(t *testing.T) {
	v := &Vehicle{}
	v.Reserve(d(1), d(10))
	assert.True(t, v.HasFutureInterval(d(10))) // ends today still counts
	assert.True(t, v.HasFutureInterval(d(5)))
	assert.False(t, v.HasFutureInterval(d(11)))
}

func TestDiscountFor(t *testing.T) {
	v := &Vehicle{
		DiscountTiers: []DiscountTier{
			{MinDays: 7, Fraction: decimal.RequireFromString("0.10")},
			{MinDays: 30, Fraction: decimal.RequireFromString("0.20")},
		},
	}

	assert.True(t, v.DiscountFor(3).IsZero())
	assert.Equal(t, "0.1", v.DiscountFor(7).String())
	assert.Equal(t, "0.1", v.DiscountFor(29).String())
	assert.Equal(t, "0.2", v.DiscountFor(30).String())
	assert.Equal(t, "0.2", v.DiscountFor(365).String())
}

func TestRentalStatusTerminal(t *testing.T) {
	assert.False(t, RentalStatusPending.Terminal())
	assert.False(t, RentalStatusActive.Terminal())
	assert.True(t, RentalStatusReturned.Terminal())
	assert.True(t, RentalStatusCancelled.Terminal())
}
