package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"motorent-backend/internal/domain"
)

func TestCreateReservation(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rental, err := f.reservations.Create(ctx, "jane", v.ID, future(1), future(10), true)
		assert.NoError(t, err)
		assert.Equal(t, domain.RentalStatusPending, rental.Status)
		assert.Equal(t, "Jane Lim", rental.Customer)
		assert.Equal(t, "945", rental.QuotedFee.String())
		assert.Nil(t, rental.Ticket)

		assert.Equal(t, domain.VehicleStatusReserved, f.vehicleStatus(t, v.ID))

		msgs := f.notifier.to("jane@example.com")
		assert.Len(t, msgs, 1)
		assert.Equal(t, "Booking received", msgs[0].Subject)
	})

	t.Run("Conflict inside buffer", func(t *testing.T) {
		// Existing booking runs to future(10); two buffer days block
		// future(11) and future(12).
		_, err := f.reservations.Create(ctx, "bob", v.ID, future(11), future(15), false)
		var conflict domain.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, v.ID, conflict.VehicleID)
		assert.Equal(t, "Jane Lim", conflict.HeldBy)
	})

	t.Run("Clear of buffer", func(t *testing.T) {
		rental, err := f.reservations.Create(ctx, "bob", v.ID, future(13), future(15), false)
		assert.NoError(t, err)
		assert.Equal(t, domain.RentalStatusPending, rental.Status)
	})

	t.Run("Validation", func(t *testing.T) {
		var valErr domain.ValidationError

		_, err := f.reservations.Create(ctx, "jane", v.ID, future(-1), future(3), false)
		assert.ErrorAs(t, err, &valErr)

		_, err = f.reservations.Create(ctx, "jane", v.ID, future(30), future(25), false)
		assert.ErrorAs(t, err, &valErr)
	})

	t.Run("Unknown account", func(t *testing.T) {
		_, err := f.reservations.Create(ctx, "ghost", v.ID, future(20), future(22), false)
		var nf domain.NotFoundError
		assert.ErrorAs(t, err, &nf)
	})
}

func TestApprove(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t)
	ctx := context.Background()

	rental, err := f.reservations.Create(ctx, "jane", v.ID, future(1), future(5), false)
	assert.NoError(t, err)

	approved, err := f.reservations.Approve(ctx, rental.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.RentalStatusActive, approved.Status)
	assert.NotNil(t, approved.Ticket)
	assert.Equal(t, "TKT-000001", approved.Ticket.Code)
	assert.False(t, approved.Ticket.Used)

	// The ticket travels as a PDF attachment.
	msgs := f.notifier.to("jane@example.com")
	last := msgs[len(msgs)-1]
	assert.Equal(t, "TKT-000001.pdf", last.Attachment)

	// Vehicle stays RESERVED until the ticket is consumed.
	assert.Equal(t, domain.VehicleStatusReserved, f.vehicleStatus(t, v.ID))

	_, err = f.reservations.Approve(ctx, rental.ID)
	var trans domain.InvalidTransitionError
	assert.ErrorAs(t, err, &trans)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t)
	ctx := context.Background()

	rental, err := f.reservations.Create(ctx, "jane", v.ID, future(1), future(5), false)
	assert.NoError(t, err)

	cancelled, err := f.reservations.Cancel(ctx, rental.ID, "no license presented")
	assert.NoError(t, err)
	assert.Equal(t, domain.RentalStatusCancelled, cancelled.Status)
	assert.Equal(t, "no license presented", cancelled.RejectReason)
	assert.Equal(t, domain.VehicleStatusAvailable, f.vehicleStatus(t, v.ID))

	// The slot opens up again, buffer included.
	_, err = f.reservations.Create(ctx, "bob", v.ID, future(1), future(5), false)
	assert.NoError(t, err)

	// Only pending rentals can be cancelled.
	var trans domain.InvalidTransitionError
	_, err = f.reservations.Cancel(ctx, cancelled.ID, "again")
	assert.ErrorAs(t, err, &trans)
}

func TestCreateOffline(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t)
	ctx := context.Background()

	rental, err := f.reservations.CreateOffline(ctx, "bob", v.ID, future(0), future(3), false)
	assert.NoError(t, err)
	assert.Equal(t, domain.RentalStatusActive, rental.Status)
	assert.NotNil(t, rental.Ticket)
	assert.False(t, rental.PickedUp)

	stored, err := f.reservations.Get(ctx, rental.ID)
	assert.NoError(t, err)
	assert.NotNil(t, stored.Ticket)
	assert.Equal(t, rental.Ticket.Code, stored.Ticket.Code)

	assert.Equal(t, domain.VehicleStatusReserved, f.vehicleStatus(t, v.ID))
}

func TestCreateOfflineRejectsBlockedVehicle(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t)
	ctx := context.Background()

	assert.NoError(t, f.vehicles.SetOverride(ctx, v.ID, domain.OverrideOutOfService))

	var valErr domain.ValidationError
	_, err := f.reservations.CreateOffline(ctx, "bob", v.ID, future(0), future(3), false)
	assert.ErrorAs(t, err, &valErr)

	assert.NoError(t, f.vehicles.ClearOverride(ctx, v.ID))
	_, err = f.reservations.CreateOffline(ctx, "bob", v.ID, future(0), future(3), false)
	assert.NoError(t, err)
}

func TestExtend(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t)
	ctx := context.Background()

	rental, err := f.reservations.CreateOffline(ctx, "jane", v.ID, future(0), future(4), false)
	assert.NoError(t, err)

	_, err = f.tickets.Validate(ctx, rental.Ticket.Code, "Jane Lim")
	assert.NoError(t, err)
	assert.Equal(t, domain.VehicleStatusRented, f.vehicleStatus(t, v.ID))

	t.Run("Nothing to extend", func(t *testing.T) {
		extended, err := f.reservations.Extend(ctx, "bob", v.ID, future(6), false)
		assert.NoError(t, err)
		assert.False(t, extended)
	})

	t.Run("Success", func(t *testing.T) {
		extended, err := f.reservations.Extend(ctx, "jane", v.ID, future(7), false)
		assert.NoError(t, err)
		assert.True(t, extended)

		got, err := f.reservations.Get(ctx, rental.ID)
		assert.NoError(t, err)
		assert.True(t, got.End.Equal(future(7)))
		// Eight inclusive days unlock the seven-day tier: 100 x 8 x 0.9.
		assert.Equal(t, "720", got.QuotedFee.String())
		// The reissued ticket carries a fresh code but stays consumed; the
		// vehicle is already out.
		assert.NotEqual(t, rental.Ticket.Code, got.Ticket.Code)
		assert.True(t, got.Ticket.Used)
		assert.False(t, got.ReminderDueSent)
		assert.False(t, got.ReminderOverdueSent)

		assert.Equal(t, domain.VehicleStatusRented, f.vehicleStatus(t, v.ID))
	})

	t.Run("Blocked by the next booking", func(t *testing.T) {
		_, err := f.reservations.Create(ctx, "bob", v.ID, future(10), future(12), false)
		assert.NoError(t, err)

		var conflict domain.ConflictError
		_, err = f.reservations.Extend(ctx, "jane", v.ID, future(11), false)
		assert.ErrorAs(t, err, &conflict)

		// Extension ignores the buffer: running right up to the day before
		// the next booking is allowed.
		extended, err := f.reservations.Extend(ctx, "jane", v.ID, future(9), false)
		assert.NoError(t, err)
		assert.True(t, extended)
	})
}

func TestExtendFallsBackToFullName(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t)
	ctx := context.Background()

	// A counter booking recorded under the display name only.
	rental := &domain.Rental{
		VehicleID: v.ID,
		Customer:  "Jane Lim",
		Start:     future(0),
		End:       future(3),
		Status:    domain.RentalStatusActive,
	}
	assert.NoError(t, f.store.Rentals.Create(ctx, rental))

	extended, err := f.reservations.Extend(ctx, "jane", v.ID, future(5), false)
	assert.NoError(t, err)
	assert.True(t, extended)

	got, err := f.reservations.Get(ctx, rental.ID)
	assert.NoError(t, err)
	assert.True(t, got.End.Equal(future(5)))
}

func TestReturn(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t)
	ctx := context.Background()

	rental, err := f.reservations.CreateOffline(ctx, "jane", v.ID, future(0), future(4), false)
	assert.NoError(t, err)

	t.Run("Requires consumed ticket", func(t *testing.T) {
		_, err := f.reservations.Return(ctx, rental.ID, nil)
		var notPicked domain.NotPickedUpError
		assert.ErrorAs(t, err, &notPicked)

		// Nothing moved.
		got, err := f.reservations.Get(ctx, rental.ID)
		assert.NoError(t, err)
		assert.Equal(t, domain.RentalStatusActive, got.Status)
		assert.True(t, got.ActualFee.IsZero())
	})

	_, err = f.tickets.Validate(ctx, rental.Ticket.Code, "Jane Lim")
	assert.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		returned, err := f.reservations.Return(ctx, rental.ID, nil)
		assert.NoError(t, err)
		assert.Equal(t, domain.RentalStatusReturned, returned.Status)
		// Returned on day one of a five-day booking: the agreed stay is
		// still owed, nothing late.
		assert.Equal(t, "500", returned.ActualFee.String())
		assert.True(t, returned.LateFee.IsZero())

		assert.Equal(t, domain.VehicleStatusAvailable, f.vehicleStatus(t, v.ID))
	})

	t.Run("Only active rentals return", func(t *testing.T) {
		var trans domain.InvalidTransitionError
		_, err := f.reservations.Return(ctx, rental.ID, nil)
		assert.ErrorAs(t, err, &trans)
	})
}

func TestReturnWithCriticalDamage(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t)
	ctx := context.Background()

	rental, err := f.reservations.CreateOffline(ctx, "jane", v.ID, future(0), future(2), false)
	assert.NoError(t, err)
	_, err = f.tickets.Validate(ctx, rental.Ticket.Code, "Jane Lim")
	assert.NoError(t, err)

	damage := []DamageReport{
		{Description: "scratched bumper", Severity: 1},
		{Description: "cracked windshield", Severity: 4},
	}
	returned, err := f.reservations.Return(ctx, rental.ID, damage)
	assert.NoError(t, err)
	assert.Equal(t, domain.RentalStatusReturned, returned.Status)

	// Critical damage holds the vehicle out of rotation.
	assert.Equal(t, domain.VehicleStatusUnderMaintenance, f.vehicleStatus(t, v.ID))

	issues, err := f.maintenance.ListByVehicle(ctx, v.ID)
	assert.NoError(t, err)
	assert.Len(t, issues, 2)
	for _, issue := range issues {
		assert.Equal(t, domain.IssueCategoryDamage, issue.Category)
		assert.Equal(t, "Jane Lim", issue.Reporter)
		assert.True(t, issue.Open())
	}

	// Severity 4 reaches the admin broadcast threshold.
	adminMsgs := f.notifier.to("adam@example.com")
	assert.Len(t, adminMsgs, 1)
	assert.Contains(t, adminMsgs[0].Body, "cracked windshield")
}

func TestNotificationFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t)
	f.notifier.fail = true
	ctx := context.Background()

	rental, err := f.reservations.Create(ctx, "jane", v.ID, future(1), future(3), false)
	assert.NoError(t, err)
	assert.Equal(t, domain.RentalStatusPending, rental.Status)

	_, err = f.reservations.Approve(ctx, rental.ID)
	assert.NoError(t, err)
}
