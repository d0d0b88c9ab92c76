package game

import "sort"

// EventKind identifies what a scheduled event does when it fires.
type EventKind uint8

const (
	EvMeleeStrike EventKind = iota + 1
	EvAttackEnd
	EvRangedPauseEnd
	EvHurtEnd
	EvHitFlashEnd
	EvStrafeFlip
	EvEnemyDestroy
	EvObjectiveDestroy
	EvObjectiveRespawn
	EvInvulnerabilityEnd
	EvBuffExpire
)

// CancelToken identifies one scheduled event. Zero is never issued.
type CancelToken uint64

// ScheduledEvent is a delayed action owned by an entity. Entity zero marks
// session-level events that no entity owns.
type ScheduledEvent struct {
	FireTick uint64
	Entity   EntityID
	Token    CancelToken
	Kind     EventKind
	Tag      string
}

// Scheduler is the per-session delayed event queue. It is polled once per
// tick from the session loop and is not safe for concurrent use.
type Scheduler struct {
	nextToken CancelToken
	pending   []ScheduledEvent
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule queues an event to fire at tick and returns its cancel token.
func (s *Scheduler) Schedule(tick uint64, entity EntityID, kind EventKind, tag string) CancelToken {
	s.nextToken++
	s.pending = append(s.pending, ScheduledEvent{
		FireTick: tick,
		Entity:   entity,
		Token:    s.nextToken,
		Kind:     kind,
		Tag:      tag,
	})
	return s.nextToken
}

// Cancel removes the event with token. It reports whether anything was removed.
func (s *Scheduler) Cancel(token CancelToken) bool {
	if token == 0 {
		return false
	}
	for i := range s.pending {
		if s.pending[i].Token == token {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return true
		}
	}
	return false
}

// CancelEntity drops every pending event owned by entity and returns how
// many were removed.
func (s *Scheduler) CancelEntity(entity EntityID) int {
	kept := s.pending[:0]
	removed := 0
	for _, ev := range s.pending {
		if ev.Entity == entity {
			removed++
			continue
		}
		kept = append(kept, ev)
	}
	for i := len(kept); i < len(s.pending); i++ {
		s.pending[i] = ScheduledEvent{}
	}
	s.pending = kept
	return removed
}

// PopDue removes and returns every event with FireTick <= tick, ordered by
// (FireTick, Entity, Token).
func (s *Scheduler) PopDue(tick uint64) []ScheduledEvent {
	var due []ScheduledEvent
	kept := s.pending[:0]
	for _, ev := range s.pending {
		if ev.FireTick <= tick {
			due = append(due, ev)
			continue
		}
		kept = append(kept, ev)
	}
	for i := len(kept); i < len(s.pending); i++ {
		s.pending[i] = ScheduledEvent{}
	}
	s.pending = kept
	sort.Slice(due, func(i, j int) bool {
		a, b := due[i], due[j]
		if a.FireTick != b.FireTick {
			return a.FireTick < b.FireTick
		}
		if a.Entity != b.Entity {
			return a.Entity < b.Entity
		}
		return a.Token < b.Token
	})
	return due
}

// Pending reports whether token is still queued.
func (s *Scheduler) Pending(token CancelToken) bool {
	if token == 0 {
		return false
	}
	for _, ev := range s.pending {
		if ev.Token == token {
			return true
		}
	}
	return false
}

func (s *Scheduler) Len() int { return len(s.pending) }
