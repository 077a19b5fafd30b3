package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"motorent-backend/internal/domain"
)

func ticketReason(t *testing.T, err error) domain.TicketFailReason {
	t.Helper()
	var te domain.TicketError
	assert.ErrorAs(t, err, &te)
	return te.Reason
}

func TestValidateTicket(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t)
	ctx := context.Background()

	t.Run("Unknown code", func(t *testing.T) {
		_, err := f.tickets.Validate(ctx, "TKT-999999", "Jane Lim")
		assert.Equal(t, domain.TicketUnknown, ticketReason(t, err))
	})

	rental, err := f.reservations.CreateOffline(ctx, "jane", v.ID, future(0), future(3), false)
	assert.NoError(t, err)
	code := rental.Ticket.Code

	t.Run("Name mismatch", func(t *testing.T) {
		_, err := f.tickets.Validate(ctx, code, "Bob Tan")
		assert.Equal(t, domain.TicketNameMismatch, ticketReason(t, err))

		// The failed attempt must not consume the ticket.
		got, err := f.reservations.Get(ctx, rental.ID)
		assert.NoError(t, err)
		assert.False(t, got.Ticket.Used)
		assert.False(t, got.PickedUp)
	})

	t.Run("Name matching ignores case", func(t *testing.T) {
		validated, err := f.tickets.Validate(ctx, code, "jane lim")
		assert.NoError(t, err)
		assert.True(t, validated.PickedUp)
		assert.True(t, validated.Ticket.Used)
		assert.Equal(t, domain.VehicleStatusRented, f.vehicleStatus(t, v.ID))
	})

	t.Run("Single use", func(t *testing.T) {
		_, err := f.tickets.Validate(ctx, code, "Jane Lim")
		assert.Equal(t, domain.TicketAlreadyUsed, ticketReason(t, err))
	})
}

func TestValidateTicketTooEarly(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t)
	ctx := context.Background()

	rental, err := f.reservations.CreateOffline(ctx, "jane", v.ID, future(2), future(5), false)
	assert.NoError(t, err)

	_, err = f.tickets.Validate(ctx, rental.Ticket.Code, "Jane Lim")
	assert.Equal(t, domain.TicketTooEarly, ticketReason(t, err))

	got, err := f.reservations.Get(ctx, rental.ID)
	assert.NoError(t, err)
	assert.False(t, got.Ticket.Used)
}

func TestReissueSupersedesOldCode(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t)
	ctx := context.Background()

	rental, err := f.reservations.CreateOffline(ctx, "jane", v.ID, future(0), future(3), false)
	assert.NoError(t, err)
	oldCode := rental.Ticket.Code

	extended, err := f.reservations.Extend(ctx, "jane", v.ID, future(5), false)
	assert.NoError(t, err)
	assert.True(t, extended)

	// The superseded code no longer resolves to any rental.
	_, err = f.tickets.Validate(ctx, oldCode, "Jane Lim")
	assert.Equal(t, domain.TicketUnknown, ticketReason(t, err))

	// The fresh code still gates pickup as usual.
	got, err := f.reservations.Get(ctx, rental.ID)
	assert.NoError(t, err)
	validated, err := f.tickets.Validate(ctx, got.Ticket.Code, "Jane Lim")
	assert.NoError(t, err)
	assert.True(t, validated.PickedUp)
}
