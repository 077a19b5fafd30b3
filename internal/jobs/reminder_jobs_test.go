package jobs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"motorent-backend/internal/config"
	"motorent-backend/internal/domain"
	"motorent-backend/internal/repository/jsonstore"
)

type captureNotifier struct {
	mu   sync.Mutex
	sent []string // "email|subject"
}

func (n *captureNotifier) Notify(ctx context.Context, email, name, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, email+"|"+subject)
	return nil
}

func (n *captureNotifier) NotifyAttachment(ctx context.Context, email, name, subject, body, filename string, attachment []byte) error {
	return n.Notify(ctx, email, name, subject, body)
}

func (n *captureNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func reminderFixture(t *testing.T) (*jsonstore.Store, *captureNotifier, *JobRunner) {
	t.Helper()
	dir := t.TempDir()

	snap := struct {
		Accounts []domain.Account `json:"accounts"`
	}{Accounts: []domain.Account{
		{Username: "jane", FullName: "Jane Lim", Email: "jane@example.com", Role: domain.RoleCustomer},
	}}
	data, err := json.Marshal(snap)
	assert.NoError(t, err)
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "accounts.json"), data, 0o644))

	store, err := jsonstore.Open(dir)
	assert.NoError(t, err)

	cfg := &config.Config{}
	cfg.Policy.DueReminderDays = 1
	cfg.Policy.LatePenalty = decimal.NewFromInt(50)

	notifier := &captureNotifier{}
	return store, notifier, NewJobRunner(store.Rentals, store.Vehicles, store.Accounts, notifier, cfg)
}

func addActiveRental(t *testing.T, store *jsonstore.Store, username string, end domain.Date) *domain.Rental {
	t.Helper()
	r := &domain.Rental{
		VehicleID: 1,
		Customer:  "Jane Lim",
		Username:  username,
		Start:     end.AddDays(-3),
		End:       end,
		Status:    domain.RentalStatusActive,
	}
	assert.NoError(t, store.Rentals.Create(context.Background(), r))
	return r
}

func TestSendDueReminders(t *testing.T) {
	store, notifier, runner := reminderFixture(t)
	ctx := context.Background()

	dueTomorrow := addActiveRental(t, store, "jane", domain.Today().AddDays(1))
	addActiveRental(t, store, "jane", domain.Today().AddDays(10)) // far out, no reminder
	addActiveRental(t, store, "ghost", domain.Today())            // no account, skipped

	runner.SendDueReminders()
	assert.Equal(t, 1, notifier.count())

	got, err := store.Rentals.GetByID(ctx, dueTomorrow.ID)
	assert.NoError(t, err)
	assert.True(t, got.ReminderDueSent)

	// A second run does not repeat the reminder.
	runner.SendDueReminders()
	assert.Equal(t, 1, notifier.count())
}

func TestSendOverdueReminders(t *testing.T) {
	store, notifier, runner := reminderFixture(t)
	ctx := context.Background()

	overdue := addActiveRental(t, store, "jane", domain.Today().AddDays(-2))
	addActiveRental(t, store, "jane", domain.Today()) // due today is not overdue

	runner.SendOverdueReminders()
	assert.Equal(t, 1, notifier.count())

	got, err := store.Rentals.GetByID(ctx, overdue.ID)
	assert.NoError(t, err)
	assert.True(t, got.ReminderOverdueSent)

	runner.SendOverdueReminders()
	assert.Equal(t, 1, notifier.count())
}

func TestRemindersSkipTerminalRentals(t *testing.T) {
	store, notifier, runner := reminderFixture(t)

	r := addActiveRental(t, store, "jane", domain.Today().AddDays(-1))
	r.Status = domain.RentalStatusReturned
	assert.NoError(t, store.Rentals.Update(context.Background(), r))

	runner.RunAllDailyJobs()
	assert.Equal(t, 0, notifier.count())
}
