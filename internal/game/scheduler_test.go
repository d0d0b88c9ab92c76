package game

import "testing"

func TestSchedulerPopsInFireOrder(t *testing.T) {
	s := NewScheduler()
	s.Schedule(5, 2, EvAttackEnd, "")
	s.Schedule(3, 9, EvMeleeStrike, "")
	s.Schedule(5, 1, EvHurtEnd, "")
	s.Schedule(8, 1, EvEnemyDestroy, "")

	due := s.PopDue(5)
	if len(due) != 3 {
		t.Fatalf("expected 3 due events, got %d", len(due))
	}
	if due[0].FireTick != 3 || due[1].Entity != 1 || due[2].Entity != 2 {
		t.Fatalf("unexpected order: %+v", due)
	}
	if s.Len() != 1 {
		t.Fatalf("expected one event left, got %d", s.Len())
	}
	if len(s.PopDue(7)) != 0 {
		t.Fatalf("nothing should be due before tick 8")
	}
}

func TestSchedulerCancelByToken(t *testing.T) {
	s := NewScheduler()
	a := s.Schedule(10, 1, EvInvulnerabilityEnd, "")
	b := s.Schedule(10, 1, EvBuffExpire, BuffOverdrive)
	if !s.Cancel(a) {
		t.Fatalf("expected cancel to remove token %d", a)
	}
	if s.Cancel(a) {
		t.Fatalf("second cancel must be a no-op")
	}
	if s.Pending(a) || !s.Pending(b) {
		t.Fatalf("unexpected pending state after cancel")
	}
	due := s.PopDue(10)
	if len(due) != 1 || due[0].Token != b || due[0].Tag != BuffOverdrive {
		t.Fatalf("unexpected due events: %+v", due)
	}
}

func TestSchedulerCancelEntity(t *testing.T) {
	s := NewScheduler()
	s.Schedule(4, 7, EvMeleeStrike, "")
	s.Schedule(6, 7, EvAttackEnd, "")
	keep := s.Schedule(6, 8, EvAttackEnd, "")
	if n := s.CancelEntity(7); n != 2 {
		t.Fatalf("expected 2 removed, got %d", n)
	}
	due := s.PopDue(100)
	if len(due) != 1 || due[0].Token != keep {
		t.Fatalf("expected only entity 8 event, got %+v", due)
	}
}
