package reservations

import "time"

// CallReservation is a scheduled call slot owned by a user.
//
// Invariants:
// - id uniquely identifies exactly one reservation; never reused.
// - status only moves through sanctioned edges (see CanTransitionTo);
//   the expiry sweep is the only automatic transition.
// - updated_at >= created_at always.
// - a completed reservation eventually has call_duration set
//   (0 when unknown at transition time).
//
// reservation_date is a YYYY-MM-DD calendar date and start_time /
// end_time are HH:MM times of day. They are compared lexicographically,
// which is correct for zero-padded ISO values.
type CallReservation struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`

	ReservationDate string `json:"reservation_date" db:"reservation_date"`
	StartTime       string `json:"start_time" db:"start_time"`
	EndTime         string `json:"end_time" db:"end_time"`

	Status Status `json:"status" db:"status"`

	// PhoneNumber is an optional contact number for the call.
	PhoneNumber string `json:"phone_number,omitempty" db:"phone_number"`

	// CallSid is set once a telephony session is attached.
	CallSid string `json:"call_sid,omitempty" db:"call_sid"`

	// CallDuration is seconds, set on completion.
	CallDuration *int `json:"call_duration,omitempty" db:"call_duration"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Status is the closed set of reservation lifecycle states.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the edge s -> next is sanctioned.
// Re-asserting the current status is allowed (the update is a merge,
// not a command). completed and cancelled are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusScheduled:
		return next == StatusOngoing || next == StatusCancelled
	case StatusOngoing:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}
