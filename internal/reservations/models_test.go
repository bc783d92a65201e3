package reservations

import "testing"

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusScheduled, StatusOngoing, StatusCompleted, StatusCancelled} {
		if !s.Valid() {
			t.Fatalf("expected %q valid", s)
		}
	}
	for _, s := range []Status{"", "paused", "SCHEDULED"} {
		if s.Valid() {
			t.Fatalf("expected %q invalid", s)
		}
	}
}

func TestStatusTransitions(t *testing.T) {
	allowed := map[Status][]Status{
		StatusScheduled: {StatusScheduled, StatusOngoing, StatusCancelled},
		StatusOngoing:   {StatusOngoing, StatusCompleted, StatusCancelled},
		StatusCompleted: {StatusCompleted},
		StatusCancelled: {StatusCancelled},
	}
	all := []Status{StatusScheduled, StatusOngoing, StatusCompleted, StatusCancelled}

	for from, nexts := range allowed {
		ok := map[Status]bool{}
		for _, n := range nexts {
			ok[n] = true
		}
		for _, to := range all {
			if got := from.CanTransitionTo(to); got != ok[to] {
				t.Fatalf("%s -> %s: expected %v, got %v", from, to, ok[to], got)
			}
		}
	}
}
