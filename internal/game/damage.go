package game

// DamageSource tags where a hit came from. Loot overrides key off it.
type DamageSource string

const (
	DamageBullet  DamageSource = "bullet"
	DamageHeavy   DamageSource = "heavy"
	DamageSplash  DamageSource = "splash"
	DamageContact DamageSource = "contact"
)

// DamageResult is returned synchronously from every enemy damage call.
type DamageResult struct {
	Applied bool
	Killed  bool
	Health  int
	Score   int
	Pos     Vec2
}

// DamageEnemy subtracts amount from a living enemy. The first hit that takes
// health to zero or below kills it; hits on dead or missing enemies are
// ignored.
func (s *Session) DamageEnemy(id EntityID, amount int, src DamageSource) DamageResult {
	e := s.World.Enemy(id)
	tr := s.World.Transform(id)
	if e == nil || tr == nil || !e.Alive() || amount <= 0 || s.over {
		return DamageResult{}
	}
	e.Health -= amount
	res := DamageResult{Applied: true, Health: e.Health, Pos: tr.Pos}
	if e.Health <= 0 {
		res.Killed = true
		res.Score = s.killEnemy(id, e, tr, src, e.Stats.Score)
		return res
	}

	e.Flashing = true
	s.Events.Cancel(e.flashToken)
	e.flashToken = s.Events.Schedule(s.Ticks+ticksFor(e.Stats.HitFlashMs), id, EvHitFlashEnd, "")
	if e.Stats.HurtLockMs > 0 && e.State.moving() {
		e.resume = e.State
		e.setState(StateHurt)
		tr.Vel = Vec2{}
		s.Events.Schedule(s.Ticks+ticksFor(e.Stats.HurtLockMs), id, EvHurtEnd, "")
	}
	return res
}

// killEnemy runs the death sequence once: collision off, pending timers
// dropped, death reported, loot resolved, removal scheduled.
func (s *Session) killEnemy(id EntityID, e *Enemy, tr *Transform, src DamageSource, score int) int {
	e.setState(StateDead)
	e.Flashing = false
	tr.Vel = Vec2{}
	if body := s.World.Body(id); body != nil {
		body.Solid = false
	}
	s.Events.CancelEntity(id)

	if !s.over {
		s.Score += score
	}
	s.report.Deaths = append(s.report.Deaths, EnemyDeath{
		Entity: id,
		Kind:   e.Kind,
		Score:  score,
		Pos:    tr.Pos,
		Source: src,
	})
	s.cue("explode")

	var drops []LootDrop
	if e.Kind == KindGuardian {
		s.onGuardianDeath(id, e)
		if s.Loot.BonusApplies(src) {
			drops = s.Loot.GuardianBonus(tr.Pos)
		} else {
			drops = s.Loot.Resolve(tr.Pos)
		}
	} else {
		drops = s.Loot.Resolve(tr.Pos)
	}
	for _, d := range drops {
		s.spawnPickup(d.Key, d.Pos)
	}

	s.Events.Schedule(s.Ticks+ticksFor(e.Stats.DeathDelayMs), id, EvEnemyDestroy, "")
	return score
}

// applySplash hits every living enemy within radius of center except skip.
func (s *Session) applySplash(center Vec2, radius float64, amount int, skip EntityID) []DamageResult {
	var results []DamageResult
	s.World.ForEach([]ComponentKey{compEnemy, compTransform}, func(id EntityID) {
		if id == skip {
			return
		}
		e := s.World.Enemy(id)
		tr := s.World.Transform(id)
		if e == nil || tr == nil || !e.Alive() {
			return
		}
		if tr.Pos.Dist(center) > radius {
			return
		}
		results = append(results, s.DamageEnemy(id, amount, DamageSplash))
	})
	return results
}

// DamagePlayer applies damage unless the player is invulnerable, then starts
// an invulnerability window. The returned record is also added to the tick
// report. Health reaching zero ends the session.
func (s *Session) DamagePlayer(amount int, invulnMs float64, source string) (PlayerDamaged, bool) {
	p := s.World.PlayerState(s.Player)
	if p == nil || s.over || amount <= 0 || p.Invulnerable {
		return PlayerDamaged{}, false
	}
	p.Health -= amount
	if p.Health < 0 {
		p.Health = 0
	}
	ev := PlayerDamaged{
		Amount:    amount,
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
		Source:    source,
		Tick:      s.Ticks,
	}
	s.report.PlayerDamage = append(s.report.PlayerDamage, ev)
	s.cue("player_hit")

	if p.Health == 0 {
		s.endSession()
		return ev, true
	}
	if invulnMs > 0 {
		p.Invulnerable = true
		s.Events.Cancel(p.invulnToken)
		p.invulnToken = s.Events.Schedule(s.Ticks+ticksFor(invulnMs), s.Player, EvInvulnerabilityEnd, "")
	}
	return ev, true
}
