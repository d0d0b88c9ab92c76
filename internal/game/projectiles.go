package game

func (s *Session) spawnProjectile(from, vel Vec2, p Projectile, radius float64) EntityID {
	id := s.World.NewEntity()
	proj := p
	s.World.SetComponent(id, compTransform, &Transform{Pos: from, Vel: vel})
	s.World.SetComponent(id, compBody, &Body{Radius: radius, Solid: true})
	s.World.SetComponent(id, compProjectile, &proj)
	return id
}

// destroyEntity removes an entity and drops any events it still owns.
func (s *Session) destroyEntity(id EntityID) {
	s.Events.CancelEntity(id)
	s.World.RemoveEntity(id)
}

// integrate moves every body by its velocity. Actors are held inside the
// world; projectiles that leave it or outlive their lifetime are removed.
func (s *Session) integrate(dt float64) {
	bounds := WorldRect()
	s.World.ForEach([]ComponentKey{compTransform}, func(id EntityID) {
		tr := s.World.Transform(id)
		if tr == nil || tr.Vel == (Vec2{}) {
			if proj := s.World.Projectile(id); proj != nil && s.Now >= proj.ExpiresAt {
				s.destroyEntity(id)
			}
			return
		}
		tr.Pos = tr.Pos.Add(tr.Vel.Scale(dt))
		if proj := s.World.Projectile(id); proj != nil {
			if !bounds.Contains(tr.Pos) || s.Now >= proj.ExpiresAt {
				s.destroyEntity(id)
			}
			return
		}
		tr.Pos = bounds.ClampPoint(tr.Pos)
	})
}

func touching(a *Transform, ab *Body, b *Transform, bb *Body) bool {
	if a == nil || b == nil || ab == nil || bb == nil || !ab.Solid || !bb.Solid {
		return false
	}
	return a.Pos.Dist(b.Pos) <= ab.Radius+bb.Radius
}

// resolveContacts stands in for the physics overlap callbacks. It stops as
// soon as the session ends and reports whether the session is still live.
func (s *Session) resolveContacts() bool {
	for _, pass := range []func(){s.resolvePlayerProjectiles, s.resolveEnemyProjectiles, s.resolvePlayerContacts} {
		pass()
		if s.over {
			return false
		}
	}
	return true
}

func (s *Session) resolvePlayerProjectiles() {
	enemies := s.World.Query(compEnemy, compTransform, compBody)
	s.World.ForEach([]ComponentKey{compProjectile, compTransform, compBody}, func(pid EntityID) {
		proj := s.World.Projectile(pid)
		if proj == nil || proj.Faction != FactionPlayer {
			return
		}
		ptr, pb := s.World.Transform(pid), s.World.Body(pid)
		for _, eid := range enemies {
			e := s.World.Enemy(eid)
			if e == nil || !e.Alive() {
				continue
			}
			if !touching(ptr, pb, s.World.Transform(eid), s.World.Body(eid)) {
				continue
			}
			impact := ptr.Pos
			s.destroyEntity(pid)
			if proj.SplashRadius > 0 {
				s.applySplash(impact, proj.SplashRadius, proj.SplashDamage, eid)
			}
			s.DamageEnemy(eid, proj.Damage, proj.Source)
			return
		}
	})
}

func (s *Session) resolveEnemyProjectiles() {
	ptr, pb := s.World.Transform(s.Player), s.World.Body(s.Player)
	s.World.ForEach([]ComponentKey{compProjectile, compTransform, compBody}, func(id EntityID) {
		proj := s.World.Projectile(id)
		if proj == nil || proj.Faction != FactionEnemy {
			return
		}
		if !touching(s.World.Transform(id), s.World.Body(id), ptr, pb) {
			return
		}
		s.destroyEntity(id)
		s.DamagePlayer(proj.Damage, s.Tuning.Player.InvulnerabilityMs, "enemy_bullet")
	})
}

func (s *Session) resolvePlayerContacts() {
	ptr, pb := s.World.Transform(s.Player), s.World.Body(s.Player)
	p := s.World.PlayerState(s.Player)
	if p == nil {
		return
	}
	s.World.ForEach([]ComponentKey{compEnemy, compTransform, compBody}, func(id EntityID) {
		e := s.World.Enemy(id)
		if e == nil || !e.Alive() || p.Invulnerable || s.over {
			return
		}
		tr := s.World.Transform(id)
		if !touching(ptr, pb, tr, s.World.Body(id)) {
			return
		}
		c := e.Stats.Contact
		s.DamagePlayer(c.Damage, c.InvulnerabilityMs, e.Kind.String()+"_contact")
		if c.SelfDestruct {
			s.killEnemy(id, e, tr, DamageContact, c.Score)
		}
	})
	if s.over {
		return
	}
	s.World.ForEach([]ComponentKey{compPickup, compTransform, compBody}, func(id EntityID) {
		if touching(ptr, pb, s.World.Transform(id), s.World.Body(id)) {
			s.collectPickup(id)
		}
	})
	s.World.ForEach([]ComponentKey{compObjective, compTransform, compBody}, func(id EntityID) {
		if touching(ptr, pb, s.World.Transform(id), s.World.Body(id)) {
			s.touchObjective(id)
		}
	})
}
