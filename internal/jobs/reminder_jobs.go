package jobs

import (
	"context"
	"fmt"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/logger"
)

// SendDueReminders emails renters whose active rentals are due within the
// configured lead window. Each rental is reminded at most once.
func (jr *JobRunner) SendDueReminders() {
	jr.runWithRecovery("SendDueReminders", func() {
		ctx := context.Background()
		today := domain.Today()
		window := today.AddDays(jr.config.Policy.DueReminderDays)

		active, err := jr.rentals.ListByStatus(ctx, domain.RentalStatusActive)
		if err != nil {
			logger.Error("Failed to list active rentals", "error", err)
			return
		}

		count := 0
		for _, r := range active {
			if r.ReminderDueSent || r.End.Before(today) || r.End.After(window) {
				continue
			}

			email, name, ok := jr.renterContact(ctx, r)
			if !ok {
				continue
			}

			label := jr.vehicleLabel(ctx, r.VehicleID)
			subject := "Reminder: Vehicle Return Due Soon"
			body := fmt.Sprintf(`Dear %s,

This is a reminder that your rental of %s (Rental No. %d) is due back on %s.

Please return the vehicle on time to avoid late fees.

Thank you,
MotoRent Team`, name, label, r.ID, r.End.String())

			if err := jr.notifier.Notify(ctx, email, name, subject, body); err != nil {
				logger.Error("Failed to send due reminder",
					"rental_id", r.ID,
					"email", email,
					"error", err)
				continue
			}

			rental := r
			rental.ReminderDueSent = true
			if err := jr.rentals.Update(ctx, &rental); err != nil {
				logger.Error("Failed to record due reminder", "rental_id", r.ID, "error", err)
				continue
			}

			count++
			logger.Debug("Sent due reminder", "rental_id", r.ID, "email", email)
		}

		logger.Info("Due reminders sent", "count", count)
	})
}

// SendOverdueReminders emails renters whose active rentals are past their
// agreed return date. Each rental gets a single overdue notice.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()
		today := domain.Today()

		active, err := jr.rentals.ListByStatus(ctx, domain.RentalStatusActive)
		if err != nil {
			logger.Error("Failed to list active rentals", "error", err)
			return
		}

		count := 0
		for _, r := range active {
			if r.ReminderOverdueSent || !r.End.Before(today) {
				continue
			}

			email, name, ok := jr.renterContact(ctx, r)
			if !ok {
				continue
			}

			label := jr.vehicleLabel(ctx, r.VehicleID)
			penalty := jr.config.Policy.LatePenalty
			subject := "Overdue: Vehicle Return Required"
			body := fmt.Sprintf(`Dear %s,

Your rental of %s (Rental No. %d) was due back on %s and is now overdue.

A late fee of %s per day applies until the vehicle is returned. Please return it as soon as possible.

Thank you,
MotoRent Team`, name, label, r.ID, r.End.String(), penalty.StringFixed(2))

			if err := jr.notifier.Notify(ctx, email, name, subject, body); err != nil {
				logger.Error("Failed to send overdue reminder",
					"rental_id", r.ID,
					"email", email,
					"error", err)
				continue
			}

			rental := r
			rental.ReminderOverdueSent = true
			if err := jr.rentals.Update(ctx, &rental); err != nil {
				logger.Error("Failed to record overdue reminder", "rental_id", r.ID, "error", err)
				continue
			}

			count++
			logger.Debug("Sent overdue reminder", "rental_id", r.ID, "email", email)
		}

		logger.Info("Overdue reminders sent", "count", count)
	})
}

func (jr *JobRunner) renterContact(ctx context.Context, r domain.Rental) (email, name string, ok bool) {
	if r.Username == "" {
		return "", "", false
	}
	acct, err := jr.accounts.GetByUsername(ctx, r.Username)
	if err != nil {
		logger.Warn("No account for rental reminder", "rental_id", r.ID, "username", r.Username)
		return "", "", false
	}
	if acct.Email == "" {
		return "", "", false
	}
	return acct.Email, acct.FullName, true
}

func (jr *JobRunner) vehicleLabel(ctx context.Context, vehicleID int64) string {
	v, err := jr.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return fmt.Sprintf("vehicle #%d", vehicleID)
	}
	return v.Label()
}
