package game

import (
	"errors"
	"fmt"
	"log"
	"math"
)

// ErrObjectiveOccupied is returned when a flag or guardian is already active.
var ErrObjectiveOccupied = errors.New("objective slot occupied")

type ObjectiveState uint8

const (
	ObjectiveAbsent ObjectiveState = iota
	ObjectiveGuarded
	ObjectiveCapturable
	ObjectiveCaptured
)

func (s ObjectiveState) String() string {
	switch s {
	case ObjectiveAbsent:
		return "absent"
	case ObjectiveGuarded:
		return "guarded"
	case ObjectiveCapturable:
		return "capturable"
	case ObjectiveCaptured:
		return "captured"
	}
	return "unknown"
}

// Objective is the flag component. Guardian is a lookup-only reference; the
// guardian's own link back to the flag is the one gameplay checks.
type Objective struct {
	State    ObjectiveState
	Guardian EntityID
}

func (o *Objective) Capturable() bool { return o.State == ObjectiveCapturable }

// ObjectiveCycle tracks the single objective slot of a session.
type ObjectiveCycle struct {
	Flag        EntityID
	respawning  bool
	nextRetryAt float64
}

// ObjectiveSlot reports the current slot state.
func (s *Session) ObjectiveSlot() ObjectiveState {
	if o := s.World.Objective(s.Objectives.Flag); o != nil {
		return o.State
	}
	return ObjectiveAbsent
}

func (s *Session) activeObjectives() int {
	n := 0
	s.World.ForEach([]ComponentKey{compObjective}, func(EntityID) { n++ })
	return n
}

func (s *Session) activeGuardians() int {
	n := 0
	s.World.ForEach([]ComponentKey{compEnemy}, func(id EntityID) {
		if e := s.World.Enemy(id); e != nil && e.Kind == KindGuardian && e.Alive() {
			n++
		}
	})
	return n
}

// TrySpawnObjective runs the Absent to Guarded transition. It refuses while
// any flag or living guardian exists, and rolls the flag back if the
// guardian cannot be created.
func (s *Session) TrySpawnObjective() error {
	if s.activeObjectives() > 0 || s.activeGuardians() > 0 {
		return ErrObjectiveOccupied
	}
	pos := s.Spawner.ObjectivePoint()
	flag := s.World.NewEntity()
	obj := &Objective{State: ObjectiveGuarded}
	s.World.SetComponent(flag, compTransform, &Transform{Pos: pos})
	s.World.SetComponent(flag, compBody, &Body{Radius: ObjectiveRadius, Solid: true})
	s.World.SetComponent(flag, compObjective, obj)

	theta := s.rng.Float64() * 2 * math.Pi
	guardPos := WorldRect().ClampPoint(pos.Add(fromAngle(theta, s.Tuning.Objective.GuardianOffset)))
	guardian, err := s.spawnEnemy(KindGuardian, guardPos)
	if err != nil {
		s.World.RemoveEntity(flag)
		return fmt.Errorf("spawn guardian: %w", err)
	}
	if e := s.World.Enemy(guardian); e != nil {
		e.Objective = flag
		e.GuardPos = guardPos
	}
	obj.Guardian = guardian
	s.Objectives.Flag = flag
	s.report.Objective = append(s.report.Objective, ObjectiveEvent{Entity: flag, State: ObjectiveGuarded, Pos: pos})
	return nil
}

// onGuardianDeath unlocks the guardian's flag. A flag only ever moves
// forward from Guarded to Capturable.
func (s *Session) onGuardianDeath(guardian EntityID, e *Enemy) {
	obj := s.World.Objective(e.Objective)
	if obj == nil || obj.State != ObjectiveGuarded {
		return
	}
	obj.State = ObjectiveCapturable
	pos := Vec2{}
	if tr := s.World.Transform(e.Objective); tr != nil {
		pos = tr.Pos
	}
	s.report.Objective = append(s.report.Objective, ObjectiveEvent{Entity: e.Objective, State: ObjectiveCapturable, Pos: pos})
}

// touchObjective handles player contact. Only a capturable flag reacts.
func (s *Session) touchObjective(flag EntityID) {
	obj := s.World.Objective(flag)
	if obj == nil || !obj.Capturable() || s.over {
		return
	}
	obj.State = ObjectiveCaptured
	if body := s.World.Body(flag); body != nil {
		body.Solid = false
	}
	s.Score += s.Tuning.Objective.CaptureScore
	pos := Vec2{}
	if tr := s.World.Transform(flag); tr != nil {
		pos = tr.Pos
	}
	s.report.Objective = append(s.report.Objective, ObjectiveEvent{Entity: flag, State: ObjectiveCaptured, Pos: pos, Score: s.Tuning.Objective.CaptureScore})
	s.cue("capture")
	s.Events.Schedule(s.Ticks+ticksFor(s.Tuning.Objective.DestroyDelayMs), flag, EvObjectiveDestroy, "")
}

func (s *Session) handleObjectiveEvent(ev ScheduledEvent) {
	switch ev.Kind {
	case EvObjectiveDestroy:
		s.destroyEntity(ev.Entity)
		if s.Objectives.Flag == ev.Entity {
			s.Objectives.Flag = 0
		}
		s.report.Objective = append(s.report.Objective, ObjectiveEvent{Entity: ev.Entity, State: ObjectiveAbsent})
		s.Objectives.respawning = true
		s.Events.Schedule(s.Ticks+ticksFor(s.Tuning.Objective.RespawnDelayMs), 0, EvObjectiveRespawn, "")
	case EvObjectiveRespawn:
		s.Objectives.respawning = false
		s.spawnObjectiveOrRetry()
	}
}

func (s *Session) spawnObjectiveOrRetry() {
	if err := s.TrySpawnObjective(); err != nil {
		if !errors.Is(err, ErrObjectiveOccupied) {
			log.Printf("session %s: objective: %v", s.ID, err)
		}
		s.Objectives.nextRetryAt = s.Now + msToSeconds(s.Tuning.Objective.RetryIntervalMs)
	}
}

// maintainObjective retries the spawn while the slot sits empty with
// nothing pending.
func (s *Session) maintainObjective() {
	if s.Objectives.Flag != 0 || s.Objectives.respawning {
		return
	}
	if s.Now < s.Objectives.nextRetryAt {
		return
	}
	s.spawnObjectiveOrRetry()
}
