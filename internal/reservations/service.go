package reservations

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Service owns the reservation lifecycle: creation, caller-driven
// status transitions, and the expiry sweep that reconciles ongoing
// reservations whose end time has passed.
//
// Concurrency: every operation is an independent unit of work; the
// repository provides per-row atomicity and no operation blocks on
// another. The sweep issues independent per-record updates, so a crash
// mid-sweep leaves a partially-swept batch that the next invocation
// completes.
type Service struct {
	repo Repository

	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

type CreateRequest struct {
	Username        string `json:"username"`
	ReservationDate string `json:"reservation_date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	PhoneNumber     string `json:"phone_number,omitempty"`
}

// Create persists a new reservation in the scheduled state.
func (s *Service) Create(ctx context.Context, req CreateRequest) (CallReservation, error) {
	var missing []string
	for _, f := range []struct{ name, val string }{
		{"username", req.Username},
		{"reservation_date", req.ReservationDate},
		{"start_time", req.StartTime},
		{"end_time", req.EndTime},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return CallReservation{}, fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}

	now := s.clock().UTC()
	return s.repo.Create(ctx, CallReservation{
		Username:        strings.TrimSpace(req.Username),
		ReservationDate: strings.TrimSpace(req.ReservationDate),
		StartTime:       strings.TrimSpace(req.StartTime),
		EndTime:         strings.TrimSpace(req.EndTime),
		Status:          StatusScheduled,
		PhoneNumber:     strings.TrimSpace(req.PhoneNumber),
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

// ListByUser returns the user's reservations ordered by date ascending.
func (s *Service) ListByUser(ctx context.Context, username string) ([]CallReservation, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	return s.repo.ListByUser(ctx, username)
}

// ParseID converts a raw id string to a reservation id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (CallReservation, error) {
	if id <= 0 {
		return CallReservation{}, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return s.repo.GetByID(ctx, id)
}

// Update merges the supplied fields into the reservation and refreshes
// updated_at. Status changes are validated against the sanctioned
// transition edges; unknown status values are rejected.
//
// The merge is last-write-wins at the field-group level (see
// Repository); there is no compare-and-swap.
func (s *Service) Update(ctx context.Context, id int64, patch UpdatePatch) (CallReservation, error) {
	if id <= 0 {
		return CallReservation{}, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}

	if patch.Status != nil {
		next := *patch.Status
		if !next.Valid() {
			return CallReservation{}, fmt.Errorf("%w: unknown status %q", ErrValidation, string(next))
		}
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return CallReservation{}, err
		}
		if !current.Status.CanTransitionTo(next) {
			return CallReservation{}, fmt.Errorf("%w: cannot transition %s -> %s", ErrValidation, current.Status, next)
		}
		// Completed reservations must carry a duration; default to 0
		// when unknown at transition time.
		if next == StatusCompleted && patch.CallDuration == nil && current.CallDuration == nil {
			zero := 0
			patch.CallDuration = &zero
		}
	}

	return s.repo.Update(ctx, id, patch, s.clock().UTC())
}

// SweepResult reports what an expiry sweep changed.
type SweepResult struct {
	Count   int               `json:"count"`
	Records []CallReservation `json:"records"`
}

// SweepExpired completes every ongoing reservation whose window has
// elapsed. It is idempotent: completed records no longer match the
// ongoing+overdue selection, so re-running with no intervening state
// change updates nothing and returns count=0.
func (s *Service) SweepExpired(ctx context.Context) (SweepResult, error) {
	now := s.clock().UTC()
	date := now.Format("2006-01-02")
	timeOfDay := now.Format("15:04")

	expired, err := s.repo.ListExpiredOngoing(ctx, date, timeOfDay)
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{Records: []CallReservation{}}
	for _, res := range expired {
		completed := StatusCompleted
		duration := 0
		if res.CallDuration != nil {
			duration = *res.CallDuration
		}
		updated, err := s.repo.Update(ctx, res.ID, UpdatePatch{
			Status:       &completed,
			CallDuration: &duration,
		}, s.clock().UTC())
		if err != nil {
			// Partially-swept batches are fine; the next sweep picks
			// up whatever is still ongoing and overdue.
			return result, err
		}
		result.Count++
		result.Records = append(result.Records, updated)
	}
	return result, nil
}
