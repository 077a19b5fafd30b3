package service

import (
	"context"

	"motorent-backend/internal/logger"
	"motorent-backend/internal/repository"
)

// broadcastAdmins fans a message out to every admin account. Delivery is
// best-effort per recipient and never fails the triggering operation.
func broadcastAdmins(ctx context.Context, accounts repository.AccountRepository, notifier Notifier, subject, body string) {
	admins, err := accounts.ListAdmins(ctx)
	if err != nil {
		logger.Error("Admin broadcast skipped, listing admins failed", "error", err)
		return
	}
	for _, admin := range admins {
		logger.ExternalServiceCall("notifier", "broadcast", "to", admin.Email, "subject", subject)
		err := notifier.Notify(ctx, admin.Email, admin.FullName, subject, body)
		logger.ExternalServiceResult("notifier", "broadcast", err)
	}
}
