package game

import (
	"errors"
	"math"
	"testing"
)

func guardianOf(t *testing.T, s *Session) (EntityID, *Objective) {
	t.Helper()
	obj := s.World.Objective(s.Objectives.Flag)
	if obj == nil {
		t.Fatalf("expected an active objective")
	}
	if s.World.Enemy(obj.Guardian) == nil {
		t.Fatalf("expected a linked guardian")
	}
	return obj.Guardian, obj
}

func TestNewSessionPlacesGuardedObjective(t *testing.T) {
	s := newTestSession(t)
	g, obj := guardianOf(t, s)
	if obj.State != ObjectiveGuarded || obj.Capturable() {
		t.Fatalf("new objective should be guarded, got %v", obj.State)
	}
	e := s.World.Enemy(g)
	if e.Kind != KindGuardian || e.Objective != s.Objectives.Flag {
		t.Fatalf("guardian link broken: %+v", e)
	}
	flagPos := s.World.Transform(s.Objectives.Flag).Pos
	guardPos := s.World.Transform(g).Pos
	if d := flagPos.Dist(guardPos); d > s.Tuning.Objective.GuardianOffset+1e-6 {
		t.Fatalf("guardian %.1f away from flag, want <= %.0f", d, s.Tuning.Objective.GuardianOffset)
	}
	if !WorldRect().Inset(s.Tuning.SpawnRing.ObjectiveMargin).Contains(flagPos) {
		t.Fatalf("flag %+v outside the margin", flagPos)
	}
}

func TestObjectiveSlotHoldsOnePair(t *testing.T) {
	s := newTestSession(t)
	if err := s.TrySpawnObjective(); !errors.Is(err, ErrObjectiveOccupied) {
		t.Fatalf("expected ErrObjectiveOccupied, got %v", err)
	}
	if s.activeObjectives() != 1 || s.activeGuardians() != 1 {
		t.Fatalf("expected exactly one flag and guardian, got %d/%d", s.activeObjectives(), s.activeGuardians())
	}
}

func TestObjectiveBumpWhileGuarded(t *testing.T) {
	s := newTestSession(t)
	flag := s.Objectives.Flag
	s.touchObjective(flag)
	if st := s.ObjectiveSlot(); st != ObjectiveGuarded {
		t.Fatalf("guarded flag changed state on contact: %v", st)
	}
	if s.Score != 0 {
		t.Fatalf("bumping a guarded flag must not score, got %d", s.Score)
	}
}

func TestGuardianSplashScenario(t *testing.T) {
	s := newTestSession(t)
	g, obj := guardianOf(t, s)
	pos := s.World.Transform(g).Pos
	pickupsBefore := len(s.World.Query(compPickup))

	res := s.DamageEnemy(g, 125, DamageSplash)
	if !res.Applied || res.Killed || res.Health != 100 {
		t.Fatalf("first splash: %+v", res)
	}
	if obj.Capturable() {
		t.Fatalf("objective unlocked while guardian alive")
	}

	res = s.DamageEnemy(g, 125, DamageSplash)
	if !res.Killed || res.Health != -25 {
		t.Fatalf("second splash should kill at -25, got %+v", res)
	}
	if !obj.Capturable() {
		t.Fatalf("objective should be capturable after guardian death")
	}

	pickups := s.World.Query(compPickup)
	if len(pickups)-pickupsBefore != 2 {
		t.Fatalf("expected two bonus pickups, got %d", len(pickups)-pickupsBefore)
	}
	for _, id := range pickups {
		pk := s.World.Pickup(id)
		p := s.World.Transform(id).Pos
		if pk.Key != PickupAmmoClip {
			t.Fatalf("unexpected bonus pickup %s", pk.Key)
		}
		if math.Abs(p.X-pos.X) > 20 || math.Abs(p.Y-pos.Y) > 20 {
			t.Fatalf("bonus pickup %+v too far from %+v", p, pos)
		}
	}
}

func TestObjectiveNeverRelocks(t *testing.T) {
	s := newTestSession(t)
	g, obj := guardianOf(t, s)
	s.DamageEnemy(g, 1000, DamageBullet)
	if !obj.Capturable() {
		t.Fatalf("expected capturable")
	}
	e := &Enemy{Kind: KindGuardian, Objective: s.Objectives.Flag}
	s.onGuardianDeath(g, e)
	runTicks(s, 60)
	if s.World.Objective(s.Objectives.Flag) == obj && !obj.Capturable() {
		t.Fatalf("objective re-locked")
	}
}

func TestCaptureCycleRespawnsPair(t *testing.T) {
	s := newTestSession(t)
	g, _ := guardianOf(t, s)
	oldFlag := s.Objectives.Flag
	s.DamageEnemy(g, 1000, DamageHeavy)
	scoreBefore := s.Score

	s.touchObjective(oldFlag)
	if s.ObjectiveSlot() != ObjectiveCaptured {
		t.Fatalf("expected captured, got %v", s.ObjectiveSlot())
	}
	if s.Score-scoreBefore != 200 {
		t.Fatalf("capture bonus %d, want 200", s.Score-scoreBefore)
	}
	s.touchObjective(oldFlag)
	if s.Score-scoreBefore != 200 {
		t.Fatalf("capture scored twice")
	}

	runTicks(s, int(ticksFor(100)))
	if s.World.Exists(oldFlag) {
		t.Fatalf("captured flag should be destroyed after the effect delay")
	}
	runTicks(s, int(ticksFor(100)))
	if s.Objectives.Flag == 0 || s.Objectives.Flag == oldFlag {
		t.Fatalf("expected a fresh objective, got %d", s.Objectives.Flag)
	}
	if s.ObjectiveSlot() != ObjectiveGuarded {
		t.Fatalf("fresh objective should be guarded, got %v", s.ObjectiveSlot())
	}
	if s.activeObjectives() != 1 || s.activeGuardians() != 1 {
		t.Fatalf("expected one pair after respawn, got %d/%d", s.activeObjectives(), s.activeGuardians())
	}
}

func TestGuardianFailureLeavesSlotAbsent(t *testing.T) {
	tuning := SanitizeTuning(DefaultTuning())
	tuning.Enemies.Guardian.Health = 0
	s := NewSession("broken", &tuning, SessionContext{}, 5)
	if s.Objectives.Flag != 0 || s.activeObjectives() != 0 {
		t.Fatalf("flag should be rolled back when the guardian cannot spawn")
	}
	if err := s.TrySpawnObjective(); !errors.Is(err, ErrUnknownEnemyKind) {
		t.Fatalf("expected ErrUnknownEnemyKind, got %v", err)
	}
	if s.activeObjectives() != 0 {
		t.Fatalf("rollback left a flag behind")
	}
}

func TestGuardianGuardsAndEngages(t *testing.T) {
	s := quietSession(t)
	s.Objectives.respawning = false
	if err := s.TrySpawnObjective(); err != nil {
		t.Fatalf("spawn objective: %v", err)
	}
	s.Objectives.respawning = true
	g, _ := guardianOf(t, s)
	e := s.World.Enemy(g)
	tr := s.World.Transform(g)
	flagPos := s.World.Transform(s.Objectives.Flag).Pos

	// Player far from the flag: guardian walks home and idles.
	s.World.Transform(s.Player).Pos = flagPos.Add(Vec2{X: 2000})
	if flagPos.X > 0 {
		s.World.Transform(s.Player).Pos = flagPos.Add(Vec2{X: -2000})
	}
	tr.Pos = e.GuardPos.Add(Vec2{X: 200})
	s.updateEnemies()
	if e.State != StateApproaching || tr.Vel.X >= 0 {
		t.Fatalf("guardian should head back to its post, state %v vel %+v", e.State, tr.Vel)
	}
	tr.Pos = e.GuardPos.Add(Vec2{X: 10})
	s.updateEnemies()
	if e.State != StateIdle || tr.Vel != (Vec2{}) {
		t.Fatalf("guardian at post should idle, state %v vel %+v", e.State, tr.Vel)
	}

	// Player inside the aggro radius: guardian chases.
	s.World.Transform(s.Player).Pos = flagPos.Add(Vec2{Y: 300})
	s.updateEnemies()
	if e.State != StateApproaching {
		t.Fatalf("guardian should engage, got %v", e.State)
	}
	toPlayer := unitOrZero(s.World.Transform(s.Player).Pos.Sub(tr.Pos))
	if unitOrZero(tr.Vel).Dot(toPlayer) < 0.99 {
		t.Fatalf("guardian velocity %+v not aimed at player", tr.Vel)
	}
}

func TestObjectiveInvariantOverTime(t *testing.T) {
	s := newTestSession(t)
	for i := 0; i < 900; i++ {
		s.Tick()
		if s.activeObjectives() > 1 || s.activeGuardians() > 1 {
			t.Fatalf("tick %d: %d flags, %d guardians", i, s.activeObjectives(), s.activeGuardians())
		}
		if s.Over() {
			break
		}
	}
}
