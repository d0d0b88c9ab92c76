package game

import "testing"

func newTestSession(t *testing.T) *Session {
	t.Helper()
	tuning := SanitizeTuning(DefaultTuning())
	return NewSession("test", &tuning, SessionContext{SFXEnabled: true, DisplayName: "TST"}, 42)
}

// quietSession returns a session with no objective, no enemies and spawning
// disabled, so tests can place exactly what they need.
func quietSession(t *testing.T) *Session {
	t.Helper()
	s := newTestSession(t)
	for _, id := range s.World.Query(compEnemy) {
		s.destroyEntity(id)
	}
	for _, id := range s.World.Query(compObjective) {
		s.destroyEntity(id)
	}
	s.Objectives.Flag = 0
	s.Objectives.respawning = true
	s.Difficulty.MaxEnemies = 0
	s.Difficulty.params.MaxEnemiesStep = 0
	return s
}

// seqRoll replays values in order and then repeats the last one.
func seqRoll(values ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

func mustSpawnEnemy(t *testing.T, s *Session, kind EnemyKind, pos Vec2) (EntityID, *Enemy) {
	t.Helper()
	id, err := s.spawnEnemy(kind, pos)
	if err != nil {
		t.Fatalf("spawn %v: %v", kind, err)
	}
	return id, s.World.Enemy(id)
}

func runTicks(s *Session, n int) TickReport {
	var all TickReport
	for i := 0; i < n; i++ {
		all.merge(s.Tick())
	}
	return all
}
