package reservations

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory repository useful for tests.
// It mirrors the Postgres merge and ordering semantics and is not
// intended for production use.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]CallReservation
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1, items: make(map[int64]CallReservation)}
}

func (r *MemoryRepo) Create(ctx context.Context, res CallReservation) (CallReservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res.ID = r.nextID
	r.nextID++
	r.items[res.ID] = res
	return res, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, username string) ([]CallReservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []CallReservation
	for _, res := range r.items {
		if res.Username == username {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReservationDate != out[j].ReservationDate {
			return out[i].ReservationDate < out[j].ReservationDate
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (CallReservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.items[id]
	if !ok {
		return CallReservation{}, ErrNotFound
	}
	return res, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id int64, patch UpdatePatch, now time.Time) (CallReservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.items[id]
	if !ok {
		return CallReservation{}, ErrNotFound
	}
	if patch.Username != nil {
		res.Username = *patch.Username
	}
	if patch.ReservationDate != nil {
		res.ReservationDate = *patch.ReservationDate
	}
	if patch.StartTime != nil {
		res.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		res.EndTime = *patch.EndTime
	}
	if patch.Status != nil {
		res.Status = *patch.Status
	}
	if patch.PhoneNumber != nil {
		res.PhoneNumber = *patch.PhoneNumber
	}
	if patch.CallSid != nil {
		res.CallSid = *patch.CallSid
	}
	if patch.CallDuration != nil {
		d := *patch.CallDuration
		res.CallDuration = &d
	}
	res.UpdatedAt = now
	r.items[id] = res
	return res, nil
}

func (r *MemoryRepo) ListExpiredOngoing(ctx context.Context, date, timeOfDay string) ([]CallReservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []CallReservation
	for _, res := range r.items {
		if res.Status != StatusOngoing {
			continue
		}
		if res.ReservationDate < date || (res.ReservationDate == date && res.EndTime < timeOfDay) {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
