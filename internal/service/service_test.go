package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/repository/jsonstore"
)

// recordingNotifier captures every notification instead of delivering it.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	fail bool
}

type sentMessage struct {
	Email      string
	Subject    string
	Body       string
	Attachment string
}

func (n *recordingNotifier) Notify(ctx context.Context, email, name, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("delivery refused")
	}
	n.sent = append(n.sent, sentMessage{Email: email, Subject: subject, Body: body})
	return nil
}

func (n *recordingNotifier) NotifyAttachment(ctx context.Context, email, name, subject, body, filename string, attachment []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("delivery refused")
	}
	n.sent = append(n.sent, sentMessage{Email: email, Subject: subject, Body: body, Attachment: filename})
	return nil
}

func (n *recordingNotifier) messages() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]sentMessage, len(n.sent))
	copy(out, n.sent)
	return out
}

func (n *recordingNotifier) to(email string) []sentMessage {
	var out []sentMessage
	for _, m := range n.messages() {
		if m.Email == email {
			out = append(out, m)
		}
	}
	return out
}

// stubRenderer stands in for the PDF renderer.
type stubRenderer struct {
	fail bool
}

func (r stubRenderer) RenderTicket(t *domain.Ticket) ([]byte, error) {
	if r.fail {
		return nil, errors.New("render failed")
	}
	return []byte("pdf:" + t.Code), nil
}

type fixture struct {
	store        *jsonstore.Store
	notifier     *recordingNotifier
	reservations ReservationService
	tickets      TicketService
	maintenance  MaintenanceService
	vehicles     VehicleService
}

const (
	bufferDays         = 2
	criticalSeverity   = 3
	adminAlertSeverity = 4
)

var latePenalty = decimal.NewFromInt(50)

func seedAccounts(t *testing.T, dir string, accounts []domain.Account) {
	t.Helper()
	snap := struct {
		Accounts []domain.Account `json:"accounts"`
	}{Accounts: accounts}
	data, err := json.Marshal(snap)
	assert.NoError(t, err)
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "accounts.json"), data, 0o644))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	seedAccounts(t, dir, []domain.Account{
		{Username: "jane", FullName: "Jane Lim", Email: "jane@example.com", Role: domain.RoleCustomer},
		{Username: "bob", FullName: "Bob Tan", Email: "bob@example.com", Role: domain.RoleCustomer},
		{Username: "adam", FullName: "Adam Admin", Email: "adam@example.com", Role: domain.RoleAdmin},
	})

	store, err := jsonstore.Open(dir)
	assert.NoError(t, err)

	notifier := &recordingNotifier{}
	locks := NewLockSet()
	status := NewStatusEngine(store.Rentals, store.Maintenance, criticalSeverity)
	tickets := NewTicketService(store.Rentals, store.Vehicles, status, locks)

	return &fixture{
		store:    store,
		notifier: notifier,
		tickets:  tickets,
		reservations: NewReservationService(
			store.Rentals, store.Vehicles, store.Maintenance, store.Accounts,
			tickets, notifier, stubRenderer{}, status, locks,
			bufferDays, latePenalty, adminAlertSeverity,
		),
		maintenance: NewMaintenanceService(
			store.Maintenance, store.Vehicles, store.Accounts,
			notifier, status, locks,
			criticalSeverity, adminAlertSeverity,
		),
		vehicles: NewVehicleService(store.Vehicles, store.Rentals, status, locks),
	}
}

// addVehicle registers the standard test vehicle: 100/day, 10% off from
// seven days, 5% insurance loading.
func (f *fixture) addVehicle(t *testing.T) *domain.Vehicle {
	t.Helper()
	v := &domain.Vehicle{
		Plate:         "WXY 1234",
		Brand:         "Toyota",
		Model:         "Vios",
		Type:          domain.VehicleTypeCar,
		Fuel:          domain.FuelPetrol,
		DailyRate:     decimal.NewFromInt(100),
		InsuranceRate: decimal.RequireFromString("0.05"),
		DiscountTiers: []domain.DiscountTier{
			{MinDays: 7, Fraction: decimal.RequireFromString("0.10")},
		},
	}
	assert.NoError(t, f.vehicles.Add(context.Background(), v))
	return v
}

func (f *fixture) vehicleStatus(t *testing.T, id int64) domain.VehicleStatus {
	t.Helper()
	v, err := f.store.Vehicles.GetByID(context.Background(), id)
	assert.NoError(t, err)
	return v.Status
}

// future returns today shifted n days forward; bookings in tests always
// live in the future so range validation passes.
func future(n int) domain.Date {
	return domain.Today().AddDays(n)
}

func TestLockSetSerializesPerVehicle(t *testing.T) {
	ls := NewLockSet()

	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := ls.Lock(7)
			counter++
			unlock()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("lock holders did not finish")
	}
	assert.Equal(t, 50, counter)
}
