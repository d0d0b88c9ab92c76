package game

import "sort"

type EnemyView struct {
	ID        EntityID
	Kind      EnemyKind
	State     EnemyState
	Pos       Vec2
	Health    int
	MaxHealth int
	Anim      string
	Flashing  bool
}

type ProjectileView struct {
	ID      EntityID
	Pos     Vec2
	Vel     Vec2
	Faction Faction
	Heavy   bool
}

type PickupView struct {
	ID  EntityID
	Key string
	Pos Vec2
}

type ObjectiveView struct {
	ID       EntityID
	State    ObjectiveState
	Pos      Vec2
	Guardian EntityID
}

type PlayerView struct {
	Pos          Vec2
	Health       int
	MaxHealth    int
	Ammo         int
	RPGAmmo      int
	Invulnerable bool
	Buffs        map[string]float64 // remaining ms
}

// Snapshot is a read-only copy of the session for the state stream.
type Snapshot struct {
	Tick            uint64
	Now             float64
	Score           int
	Paused          bool
	Over            bool
	MaxEnemies      int
	SpawnIntervalMs float64
	DifficultySteps int
	Context         SessionContext
	Player          PlayerView
	Enemies         []EnemyView
	Projectiles     []ProjectileView
	Pickups         []PickupView
	Objective       *ObjectiveView
}

// Snapshot copies the visible state. Callers hold s.Mu.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:            s.Ticks,
		Now:             s.Now,
		Score:           s.Score,
		Paused:          s.Paused,
		Over:            s.over,
		MaxEnemies:      s.Difficulty.MaxEnemies,
		SpawnIntervalMs: s.Difficulty.SpawnIntervalMs,
		DifficultySteps: s.Difficulty.Steps,
		Context:         s.Context,
	}
	if p := s.World.PlayerState(s.Player); p != nil {
		pos, _ := s.playerPos()
		buffs := map[string]float64{}
		names := p.Buffs()
		sort.Strings(names)
		for _, name := range names {
			buffs[name] = p.BuffRemainingMs(name, s.Now*1000)
		}
		snap.Player = PlayerView{
			Pos:          pos,
			Health:       p.Health,
			MaxHealth:    p.MaxHealth,
			Ammo:         p.Ammo,
			RPGAmmo:      p.RPGAmmo,
			Invulnerable: p.Invulnerable,
			Buffs:        buffs,
		}
	}
	s.World.ForEach([]ComponentKey{compEnemy, compTransform}, func(id EntityID) {
		e := s.World.Enemy(id)
		tr := s.World.Transform(id)
		snap.Enemies = append(snap.Enemies, EnemyView{
			ID: id, Kind: e.Kind, State: e.State, Pos: tr.Pos,
			Health: e.Health, MaxHealth: e.MaxHealth, Anim: e.Anim, Flashing: e.Flashing,
		})
	})
	s.World.ForEach([]ComponentKey{compProjectile, compTransform}, func(id EntityID) {
		p := s.World.Projectile(id)
		tr := s.World.Transform(id)
		snap.Projectiles = append(snap.Projectiles, ProjectileView{
			ID: id, Pos: tr.Pos, Vel: tr.Vel, Faction: p.Faction, Heavy: p.Source == DamageHeavy,
		})
	})
	s.World.ForEach([]ComponentKey{compPickup, compTransform}, func(id EntityID) {
		snap.Pickups = append(snap.Pickups, PickupView{ID: id, Key: s.World.Pickup(id).Key, Pos: s.World.Transform(id).Pos})
	})
	if o := s.World.Objective(s.Objectives.Flag); o != nil {
		if tr := s.World.Transform(s.Objectives.Flag); tr != nil {
			snap.Objective = &ObjectiveView{ID: s.Objectives.Flag, State: o.State, Pos: tr.Pos, Guardian: o.Guardian}
		}
	}
	return snap
}
