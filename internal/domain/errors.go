package domain

import "fmt"

// ValidationError reports malformed caller input: bad date ranges,
// non-positive durations, out-of-range severities. Recoverable; the caller
// should re-prompt.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// ConflictError reports a ledger overlap. It carries the clashing rental's
// identity and the effective buffered window so the caller can display who
// holds the vehicle and when it frees up.
type ConflictError struct {
	VehicleID   int64
	RentalID    int64
	HeldBy      string
	WindowStart Date
	WindowEnd   Date
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("vehicle %d is held by %s; the booking blocks %s to %s including the service gap",
		e.VehicleID, e.HeldBy, e.WindowStart, e.WindowEnd)
}

// InvalidTransitionError reports an operation attempted from the wrong
// rental state, e.g. approving a rental that is not pending.
type InvalidTransitionError struct {
	RentalID int64
	From     RentalStatus
	Op       string
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s rental %d in state %s", e.Op, e.RentalID, e.From)
}

// NotPickedUpError reports a return attempted before the rental's ticket
// was consumed.
type NotPickedUpError struct {
	RentalID int64
}

func (e NotPickedUpError) Error() string {
	return fmt.Sprintf("rental %d has not been picked up; validate its ticket first", e.RentalID)
}

// TicketFailReason distinguishes the ways ticket validation can fail.
type TicketFailReason string

const (
	TicketUnknown      TicketFailReason = "UNKNOWN"
	TicketAlreadyUsed  TicketFailReason = "ALREADY_USED"
	TicketNameMismatch TicketFailReason = "NAME_MISMATCH"
	TicketTooEarly     TicketFailReason = "TOO_EARLY"
)

type TicketError struct {
	Code   string
	Reason TicketFailReason
}

func (e TicketError) Error() string {
	switch e.Reason {
	case TicketUnknown:
		return fmt.Sprintf("ticket %s is not recognized", e.Code)
	case TicketAlreadyUsed:
		return fmt.Sprintf("ticket %s has already been used", e.Code)
	case TicketNameMismatch:
		return fmt.Sprintf("ticket %s does not belong to the presented customer", e.Code)
	case TicketTooEarly:
		return fmt.Sprintf("ticket %s cannot be used before the rental start date", e.Code)
	}
	return fmt.Sprintf("ticket %s is invalid", e.Code)
}

// NotFoundError reports a missing entity by kind and id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}
