package game

// updateEnemies advances every living enemy one tick. Each enemy only reads
// the player position and writes its own state, velocity and new projectiles.
func (s *Session) updateEnemies() {
	target, ok := s.playerPos()
	if !ok {
		return
	}
	s.World.ForEach([]ComponentKey{compEnemy, compTransform}, func(id EntityID) {
		e := s.World.Enemy(id)
		tr := s.World.Transform(id)
		if e == nil || tr == nil || !e.Alive() {
			return
		}
		s.updateEnemy(id, e, tr, target)
	})
}

func (s *Session) updateEnemy(id EntityID, e *Enemy, tr *Transform, target Vec2) {
	switch e.State {
	case StateMeleeAttacking, StateHurt, StateRangedAttacking:
		tr.Vel = Vec2{}
		return
	}

	if e.Kind == KindGuardian && !s.guardianEngaged(e, target) {
		s.guardianReturn(e, tr)
		return
	}

	stats := e.Stats
	dist := tr.Pos.Dist(target)

	if stats.hasMelee() && dist <= stats.Melee.Range && s.Now >= e.NextMeleeAt {
		s.startMelee(id, e, tr)
		return
	}
	if stats.hasRanged() && dist <= stats.Ranged.Range && s.Now >= e.NextRangedAt {
		s.fireRanged(id, e, tr, target)
		if e.State == StateRangedAttacking {
			return
		}
	}

	if stats.strafes() {
		s.strafe(e, tr, target, dist)
		return
	}
	s.chase(e, tr, target)
}

func (s *Session) chase(e *Enemy, tr *Transform, target Vec2) {
	dir := unitOrZero(target.Sub(tr.Pos))
	tr.Vel = dir.Scale(e.Stats.Speed)
	if e.State != StateApproaching {
		e.setState(StateApproaching)
	}
}

// strafe holds the enemy near its ideal firing distance: approach when far,
// back off at half speed when close, orbit otherwise.
func (s *Session) strafe(e *Enemy, tr *Transform, target Vec2, dist float64) {
	st := e.Stats.Strafe
	ideal := e.Stats.Ranged.Range * st.IdealFactor
	dir := unitOrZero(target.Sub(tr.Pos))
	switch {
	case dist > ideal+st.Tolerance:
		tr.Vel = dir.Scale(e.Stats.Speed)
		if e.State != StateApproaching {
			e.setState(StateApproaching)
		}
	case dist < ideal-st.Tolerance:
		tr.Vel = dir.Scale(-e.Stats.Speed * 0.5)
		if e.State != StateStrafing {
			e.setState(StateStrafing)
		}
	default:
		tr.Vel = orthogonal(dir).Scale(st.Speed * e.StrafeDir)
		if e.State != StateStrafing {
			e.setState(StateStrafing)
		}
	}
}

// guardianEngaged reports whether the player is inside the aggro radius of
// the guardian's objective. A guardian whose objective is gone stays home.
func (s *Session) guardianEngaged(e *Enemy, player Vec2) bool {
	flag := s.World.Transform(e.Objective)
	if flag == nil {
		return false
	}
	return player.Dist(flag.Pos) <= e.Stats.AggroRadius
}

func (s *Session) guardianReturn(e *Enemy, tr *Transform) {
	if tr.Pos.Dist(e.GuardPos) <= e.Stats.GuardRadius {
		tr.Vel = Vec2{}
		if e.State != StateIdle {
			e.setState(StateIdle)
		}
		return
	}
	tr.Vel = unitOrZero(e.GuardPos.Sub(tr.Pos)).Scale(e.Stats.Speed)
	if e.State != StateApproaching {
		e.setState(StateApproaching)
	}
}

func (s *Session) startMelee(id EntityID, e *Enemy, tr *Transform) {
	m := e.Stats.Melee
	e.resume = e.State
	if !e.resume.moving() {
		e.resume = StateApproaching
	}
	e.setState(StateMeleeAttacking)
	tr.Vel = Vec2{}
	e.NextMeleeAt = s.Now + msToSeconds(m.CooldownMs)
	s.Events.Schedule(s.Ticks+ticksFor(m.DurationMs/2), id, EvMeleeStrike, "")
	s.Events.Schedule(s.Ticks+ticksFor(m.DurationMs), id, EvAttackEnd, "")
}

// resolveMeleeStrike lands the strike if the player is still within the
// forgiving range and not invulnerable.
func (s *Session) resolveMeleeStrike(id EntityID) {
	e := s.World.Enemy(id)
	tr := s.World.Transform(id)
	if e == nil || tr == nil || e.State != StateMeleeAttacking {
		return
	}
	target, ok := s.playerPos()
	if !ok {
		return
	}
	m := e.Stats.Melee
	if tr.Pos.Dist(target) > m.Range*m.Forgiveness {
		return
	}
	s.DamagePlayer(m.Damage, s.Tuning.Player.InvulnerabilityMs, e.Kind.String()+"_melee")
}

func (s *Session) fireRanged(id EntityID, e *Enemy, tr *Transform, target Vec2) {
	r := e.Stats.Ranged
	dir := unitOrZero(target.Sub(tr.Pos))
	if dir == (Vec2{}) {
		dir = Vec2{X: 1}
	}
	s.spawnProjectile(tr.Pos, dir.Scale(r.BulletSpeed), Projectile{
		Faction:   FactionEnemy,
		Damage:    r.Damage,
		Source:    DamageBullet,
		ExpiresAt: s.Now + EnemyProjectileLifetimeS,
	}, BulletRadius)
	e.NextRangedAt = s.Now + msToSeconds(r.CooldownMs)
	s.cue("enemy_shoot")
	if r.PauseMs > 0 {
		e.resume = e.State
		if !e.resume.moving() {
			e.resume = StateApproaching
		}
		e.setState(StateRangedAttacking)
		tr.Vel = Vec2{}
		s.Events.Schedule(s.Ticks+ticksFor(r.PauseMs), id, EvRangedPauseEnd, "")
	}
}

// handleEnemyEvent dispatches enemy-owned scheduled events. Events for
// entities that died or vanished are ignored.
func (s *Session) handleEnemyEvent(ev ScheduledEvent) {
	e := s.World.Enemy(ev.Entity)
	if e == nil {
		return
	}
	switch ev.Kind {
	case EvMeleeStrike:
		s.resolveMeleeStrike(ev.Entity)
	case EvAttackEnd:
		if e.State == StateMeleeAttacking {
			e.setState(e.resume)
		}
	case EvRangedPauseEnd:
		if e.State == StateRangedAttacking {
			e.setState(e.resume)
		}
	case EvHurtEnd:
		if e.State == StateHurt {
			e.setState(e.resume)
		}
	case EvHitFlashEnd:
		e.Flashing = false
		e.flashToken = 0
	case EvStrafeFlip:
		if e.Alive() {
			e.StrafeDir = -e.StrafeDir
			s.scheduleStrafeFlip(ev.Entity, e)
		}
	case EvEnemyDestroy:
		s.destroyEntity(ev.Entity)
	}
}
