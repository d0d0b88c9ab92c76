package game

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

// ErrUnknownEnemyKind is returned for kinds with no usable stat table.
var ErrUnknownEnemyKind = errors.New("unknown enemy kind")

type EnemyKind uint8

const (
	KindScarab EnemyKind = iota + 1
	KindHornet
	KindSpider
	KindGuardian
)

func (k EnemyKind) String() string {
	switch k {
	case KindScarab:
		return "scarab"
	case KindHornet:
		return "hornet"
	case KindSpider:
		return "spider"
	case KindGuardian:
		return "guardian"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func ParseEnemyKind(name string) (EnemyKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "scarab":
		return KindScarab, nil
	case "hornet":
		return KindHornet, nil
	case "spider":
		return KindSpider, nil
	case "guardian":
		return KindGuardian, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEnemyKind, name)
}

type EnemyState uint8

const (
	StateIdle EnemyState = iota
	StateApproaching
	StateStrafing
	StateMeleeAttacking
	StateRangedAttacking
	StateHurt
	StateDead
)

func (s EnemyState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateApproaching:
		return "approaching"
	case StateStrafing:
		return "strafing"
	case StateMeleeAttacking:
		return "melee"
	case StateRangedAttacking:
		return "ranged"
	case StateHurt:
		return "hurt"
	case StateDead:
		return "dead"
	}
	return "unknown"
}

func (s EnemyState) moving() bool {
	return s == StateIdle || s == StateApproaching || s == StateStrafing
}

// Enemy is the shared behavior record for every kind. Per-kind differences
// live in Stats.
type Enemy struct {
	Kind      EnemyKind
	Stats     *EnemyStats
	Health    int
	MaxHealth int
	State     EnemyState
	Anim      string
	Flashing  bool

	NextMeleeAt  float64
	NextRangedAt float64
	StrafeDir    float64

	// Objective is the guardian's authoritative link to the flag it protects.
	Objective EntityID
	GuardPos  Vec2

	resume     EnemyState
	flashToken CancelToken
}

func (e *Enemy) Alive() bool { return e.State != StateDead }

// animFor resolves the animation key for an action. Kinds without a key for
// the action use their "default" entry, then the shared default.
func animFor(stats *EnemyStats, action string) string {
	if stats != nil {
		if key, ok := stats.Anims[action]; ok && key != "" {
			return key
		}
		if key, ok := stats.Anims["default"]; ok && key != "" {
			return key
		}
	}
	return "default"
}

func (e *Enemy) setState(state EnemyState) {
	e.State = state
	switch state {
	case StateIdle:
		e.Anim = animFor(e.Stats, "idle")
	case StateApproaching, StateStrafing:
		e.Anim = animFor(e.Stats, "move")
	case StateMeleeAttacking:
		e.Anim = animFor(e.Stats, "melee")
	case StateRangedAttacking:
		e.Anim = animFor(e.Stats, "ranged")
	case StateHurt:
		e.Anim = animFor(e.Stats, "hurt")
	case StateDead:
		e.Anim = animFor(e.Stats, "death")
	}
}

// spawnEnemy instantiates kind at pos and registers it in the world.
func (s *Session) spawnEnemy(kind EnemyKind, pos Vec2) (EntityID, error) {
	stats := s.Tuning.Enemies.For(kind)
	if stats == nil || stats.Health <= 0 {
		return 0, fmt.Errorf("spawn %v: %w", kind, ErrUnknownEnemyKind)
	}
	id := s.World.NewEntity()
	enemy := &Enemy{
		Kind:      kind,
		Stats:     stats,
		Health:    stats.Health,
		MaxHealth: stats.Health,
		StrafeDir: 1,
		GuardPos:  pos,
	}
	if kind == KindGuardian {
		enemy.setState(StateIdle)
	} else {
		enemy.setState(StateApproaching)
	}
	s.World.SetComponent(id, compTransform, &Transform{Pos: pos})
	s.World.SetComponent(id, compBody, &Body{Radius: stats.Radius, Solid: true})
	s.World.SetComponent(id, compEnemy, enemy)
	if stats.strafes() {
		if s.rng.Float64() < 0.5 {
			enemy.StrafeDir = -1
		}
		s.scheduleStrafeFlip(id, enemy)
	}
	return id, nil
}

func (s *Session) scheduleStrafeFlip(id EntityID, e *Enemy) {
	st := e.Stats.Strafe
	ms := st.FlipMinMs + s.rng.Float64()*(st.FlipMaxMs-st.FlipMinMs)
	s.Events.Schedule(s.Ticks+ticksFor(ms), id, EvStrafeFlip, "")
}

// ActiveEnemies counts living roster enemies. Guardians are tracked by the
// objective cycle and do not count against the population cap.
func (s *Session) ActiveEnemies() int {
	n := 0
	s.World.ForEach([]ComponentKey{compEnemy}, func(id EntityID) {
		if e := s.World.Enemy(id); e != nil && e.Kind != KindGuardian && e.Alive() {
			n++
		}
	})
	return n
}

// trySpawnEnemy runs one spawn-timer cycle. A full roster or a missing spawn
// point skips the cycle; a missing point is retried on the next tick.
func (s *Session) trySpawnEnemy() (EntityID, bool) {
	if s.ActiveEnemies() >= s.Difficulty.MaxEnemies {
		return 0, false
	}
	kind, ok := s.spawnTable.Select(s.rng.Float64())
	if !ok {
		log.Printf("session %s: spawn table is empty", s.ID)
		return 0, false
	}
	pos, err := s.Spawner.EnemyPoint(s.Camera)
	if err != nil {
		log.Printf("session %s: skip %v spawn: %v", s.ID, kind, err)
		s.spawnMissed = true
		return 0, false
	}
	id, err := s.spawnEnemy(kind, pos)
	if err != nil {
		log.Printf("session %s: %v", s.ID, err)
		return 0, false
	}
	return id, true
}
