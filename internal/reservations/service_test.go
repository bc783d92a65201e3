package reservations

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T, now time.Time) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	svc := NewService(repo)
	svc.clock = func() time.Time { return now }
	return svc, repo
}

func mustCreate(t *testing.T, svc *Service, req CreateRequest) CallReservation {
	t.Helper()
	res, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return res
}

func TestCreate_Defaults(t *testing.T) {
	now := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	res := mustCreate(t, svc, CreateRequest{
		Username:        "alice",
		ReservationDate: "2025-01-10",
		StartTime:       "09:00",
		EndTime:         "10:00",
	})

	if res.ID <= 0 {
		t.Fatalf("expected assigned id, got %d", res.ID)
	}
	if res.Status != StatusScheduled {
		t.Fatalf("expected scheduled, got %q", res.Status)
	}
	if !res.CreatedAt.Equal(res.UpdatedAt) {
		t.Fatalf("expected created_at == updated_at, got %v / %v", res.CreatedAt, res.UpdatedAt)
	}
	if res.CallDuration != nil {
		t.Fatalf("expected no duration on creation")
	}
}

func TestCreate_MissingFieldRejected(t *testing.T) {
	svc, repo := newTestService(t, time.Now())

	_, err := svc.Create(context.Background(), CreateRequest{
		Username:        "alice",
		ReservationDate: "2025-01-10",
		StartTime:       "09:00",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got, _ := repo.ListByUser(context.Background(), "alice"); len(got) != 0 {
		t.Fatalf("expected nothing persisted, got %d records", len(got))
	}
}

func TestListByUser_OrderedByDate(t *testing.T) {
	svc, _ := newTestService(t, time.Now())

	mustCreate(t, svc, CreateRequest{Username: "alice", ReservationDate: "2025-02-01", StartTime: "09:00", EndTime: "10:00"})
	mustCreate(t, svc, CreateRequest{Username: "alice", ReservationDate: "2025-01-05", StartTime: "09:00", EndTime: "10:00"})
	mustCreate(t, svc, CreateRequest{Username: "bob", ReservationDate: "2025-01-01", StartTime: "09:00", EndTime: "10:00"})
	mustCreate(t, svc, CreateRequest{Username: "alice", ReservationDate: "2025-01-05", StartTime: "11:00", EndTime: "12:00"})

	got, err := svc.ListByUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if got[0].ReservationDate != "2025-01-05" || got[1].ReservationDate != "2025-01-05" || got[2].ReservationDate != "2025-02-01" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].ID > got[1].ID {
		t.Fatalf("expected id tiebreak for same-day records")
	}
}

func TestParseID_Malformed(t *testing.T) {
	for _, raw := range []string{"abc", "", "-4", "0", "1.5"} {
		if _, err := ParseID(raw); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("expected invalid id for %q, got %v", raw, err)
		}
	}
	if id, err := ParseID("42"); err != nil || id != 42 {
		t.Fatalf("expected 42, got %d / %v", id, err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _ := newTestService(t, time.Now())

	if _, err := svc.GetByID(context.Background(), 999999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), -1); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected invalid id, got %v", err)
	}
}

func TestUpdate_RefreshesUpdatedAt(t *testing.T) {
	created := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, created)
	res := mustCreate(t, svc, CreateRequest{Username: "alice", ReservationDate: "2025-01-10", StartTime: "09:00", EndTime: "10:00"})

	later := created.Add(time.Hour)
	svc.clock = func() time.Time { return later }

	sid := "CA123"
	updated, err := svc.Update(context.Background(), res.ID, UpdatePatch{CallSid: &sid})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.CallSid != "CA123" {
		t.Fatalf("expected call sid merged, got %q", updated.CallSid)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatalf("expected updated_at refresh: %v / %v", updated.UpdatedAt, updated.CreatedAt)
	}
	if updated.StartTime != "09:00" || updated.Status != StatusScheduled {
		t.Fatalf("unrelated fields must be untouched: %+v", updated)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	sid := "CA123"
	if _, err := svc.Update(context.Background(), 999999, UpdatePatch{CallSid: &sid}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdate_RejectsUnknownStatus(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	res := mustCreate(t, svc, CreateRequest{Username: "alice", ReservationDate: "2025-01-10", StartTime: "09:00", EndTime: "10:00"})

	bogus := Status("paused")
	if _, err := svc.Update(context.Background(), res.ID, UpdatePatch{Status: &bogus}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdate_RejectsUnsanctionedEdge(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	res := mustCreate(t, svc, CreateRequest{Username: "alice", ReservationDate: "2025-01-10", StartTime: "09:00", EndTime: "10:00"})

	completed := StatusCompleted
	if _, err := svc.Update(context.Background(), res.ID, UpdatePatch{Status: &completed}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for scheduled->completed, got %v", err)
	}

	ongoing := StatusOngoing
	if _, err := svc.Update(context.Background(), res.ID, UpdatePatch{Status: &ongoing}); err != nil {
		t.Fatalf("scheduled->ongoing should be allowed: %v", err)
	}
	if _, err := svc.Update(context.Background(), res.ID, UpdatePatch{Status: &completed}); err != nil {
		t.Fatalf("ongoing->completed should be allowed: %v", err)
	}

	cancelled := StatusCancelled
	if _, err := svc.Update(context.Background(), res.ID, UpdatePatch{Status: &cancelled}); !errors.Is(err, ErrValidation) {
		t.Fatalf("completed is terminal, got %v", err)
	}
}

func TestUpdate_CompletedDefaultsDurationToZero(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	res := mustCreate(t, svc, CreateRequest{Username: "alice", ReservationDate: "2025-01-10", StartTime: "09:00", EndTime: "10:00"})

	ongoing := StatusOngoing
	if _, err := svc.Update(context.Background(), res.ID, UpdatePatch{Status: &ongoing}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	completed := StatusCompleted
	updated, err := svc.Update(context.Background(), res.ID, UpdatePatch{Status: &completed})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.CallDuration == nil || *updated.CallDuration != 0 {
		t.Fatalf("expected duration defaulted to 0, got %v", updated.CallDuration)
	}
}

func TestUpdate_CompletedKeepsExistingDuration(t *testing.T) {
	created := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, created)
	res := mustCreate(t, svc, CreateRequest{Username: "alice", ReservationDate: "2025-01-10", StartTime: "09:00", EndTime: "10:00"})

	ongoing := StatusOngoing
	dur := 300
	if _, err := svc.Update(context.Background(), res.ID, UpdatePatch{Status: &ongoing, CallDuration: &dur}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	later := created.Add(2 * time.Hour)
	svc.clock = func() time.Time { return later }

	completed := StatusCompleted
	updated, err := svc.Update(context.Background(), res.ID, UpdatePatch{Status: &completed})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.CallDuration == nil || *updated.CallDuration != 300 {
		t.Fatalf("expected prior duration kept, got %v", updated.CallDuration)
	}
	if !updated.UpdatedAt.Equal(later) {
		t.Fatalf("expected updated_at refreshed even without field changes, got %v", updated.UpdatedAt)
	}
}

func TestSweepExpired(t *testing.T) {
	now := time.Date(2025, 1, 10, 15, 30, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	pastDay := mustCreate(t, svc, CreateRequest{Username: "alice", ReservationDate: "2025-01-09", StartTime: "09:00", EndTime: "10:00"})
	earlierToday := mustCreate(t, svc, CreateRequest{Username: "alice", ReservationDate: "2025-01-10", StartTime: "13:00", EndTime: "14:00"})
	laterToday := mustCreate(t, svc, CreateRequest{Username: "alice", ReservationDate: "2025-01-10", StartTime: "16:00", EndTime: "17:00"})
	overdueButScheduled := mustCreate(t, svc, CreateRequest{Username: "bob", ReservationDate: "2025-01-01", StartTime: "09:00", EndTime: "10:00"})

	ongoing := StatusOngoing
	for _, id := range []int64{pastDay.ID, earlierToday.ID, laterToday.ID} {
		if _, err := svc.Update(context.Background(), id, UpdatePatch{Status: &ongoing}); err != nil {
			t.Fatalf("update failed: %v", err)
		}
	}

	result, err := svc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if result.Count != 2 || len(result.Records) != 2 {
		t.Fatalf("expected 2 swept, got %+v", result)
	}
	for _, rec := range result.Records {
		if rec.Status != StatusCompleted {
			t.Fatalf("expected completed, got %q", rec.Status)
		}
		if rec.CallDuration == nil || *rec.CallDuration != 0 {
			t.Fatalf("expected duration defaulted to 0, got %v", rec.CallDuration)
		}
	}

	// Untouched: still-running window and a scheduled (never started) slot.
	stillOngoing, _ := svc.GetByID(context.Background(), laterToday.ID)
	if stillOngoing.Status != StatusOngoing {
		t.Fatalf("reservation ending later today must not be swept: %q", stillOngoing.Status)
	}
	untouched, _ := svc.GetByID(context.Background(), overdueButScheduled.ID)
	if untouched.Status != StatusScheduled {
		t.Fatalf("scheduled reservations are never swept: %q", untouched.Status)
	}
}

func TestSweepExpired_Idempotent(t *testing.T) {
	now := time.Date(2025, 1, 10, 15, 30, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	res := mustCreate(t, svc, CreateRequest{Username: "alice", ReservationDate: "2025-01-09", StartTime: "09:00", EndTime: "10:00"})
	ongoing := StatusOngoing
	if _, err := svc.Update(context.Background(), res.ID, UpdatePatch{Status: &ongoing}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	first, err := svc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if first.Count != 1 {
		t.Fatalf("expected 1 swept, got %d", first.Count)
	}

	second, err := svc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if second.Count != 0 || len(second.Records) != 0 {
		t.Fatalf("expected empty second sweep, got %+v", second)
	}
}

func TestSweepExpired_KeepsRecordedDuration(t *testing.T) {
	now := time.Date(2025, 1, 10, 15, 30, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	res := mustCreate(t, svc, CreateRequest{Username: "alice", ReservationDate: "2025-01-09", StartTime: "09:00", EndTime: "10:00"})
	ongoing := StatusOngoing
	dur := 120
	if _, err := svc.Update(context.Background(), res.ID, UpdatePatch{Status: &ongoing, CallDuration: &dur}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	result, err := svc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if result.Count != 1 {
		t.Fatalf("expected 1 swept, got %d", result.Count)
	}
	if result.Records[0].CallDuration == nil || *result.Records[0].CallDuration != 120 {
		t.Fatalf("expected recorded duration kept, got %v", result.Records[0].CallDuration)
	}
}
