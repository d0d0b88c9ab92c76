package game

// PlayerInput is the latest control state sent by the client. Aim is a world
// point.
type PlayerInput struct {
	Move   Vec2
	Aim    Vec2
	Fire   bool
	Rocket bool
}

type activeBuff struct {
	Token   CancelToken
	UntilMs float64
}

// PlayerState holds the player's resources, timers and buffs.
type PlayerState struct {
	Health       int
	MaxHealth    int
	Ammo         int
	RPGAmmo      int
	Invulnerable bool
	Input        PlayerInput

	NextShotAt   float64
	NextRocketAt float64

	buffs       map[string]*activeBuff
	invulnToken CancelToken
}

func newPlayerState(p PlayerParams) *PlayerState {
	return &PlayerState{
		Health:    p.MaxHealth,
		MaxHealth: p.MaxHealth,
		Ammo:      p.Ammo,
		RPGAmmo:   p.RPGAmmo,
		buffs:     map[string]*activeBuff{},
	}
}

func (p *PlayerState) HasBuff(name string) bool {
	_, ok := p.buffs[name]
	return ok
}

// BuffRemainingMs returns the time left on a buff, or zero.
func (p *PlayerState) BuffRemainingMs(name string, nowMs float64) float64 {
	b, ok := p.buffs[name]
	if !ok || b.UntilMs <= nowMs {
		return 0
	}
	return b.UntilMs - nowMs
}

// Buffs lists the active buff names.
func (p *PlayerState) Buffs() []string {
	out := make([]string, 0, len(p.buffs))
	for name := range p.buffs {
		out = append(out, name)
	}
	return out
}

func (s *Session) spawnPlayer(pos Vec2) EntityID {
	id := s.World.NewEntity()
	s.World.SetComponent(id, compTransform, &Transform{Pos: pos})
	s.World.SetComponent(id, compBody, &Body{Radius: PlayerRadius, Solid: true})
	s.World.SetComponent(id, compPlayer, newPlayerState(s.Tuning.Player))
	return id
}

func (s *Session) playerPos() (Vec2, bool) {
	tr := s.World.Transform(s.Player)
	if tr == nil {
		return Vec2{}, false
	}
	return tr.Pos, true
}

// SetInput replaces the player's control state. Callers hold s.Mu.
func (s *Session) SetInput(in PlayerInput) {
	if p := s.World.PlayerState(s.Player); p != nil {
		p.Input = in
	}
}

func (s *Session) bulletCooldownMs(p *PlayerState) float64 {
	cd := s.Tuning.Player.BulletCooldownMs
	if p.HasBuff(BuffOverdrive) {
		cd *= s.Tuning.Player.OverdriveFactor
	}
	return cd
}

// updatePlayer applies movement input and weapon triggers.
func (s *Session) updatePlayer() {
	p := s.World.PlayerState(s.Player)
	tr := s.World.Transform(s.Player)
	if p == nil || tr == nil {
		return
	}
	tr.Vel = unitOrZero(p.Input.Move).Scale(s.Tuning.Player.Speed)

	aim := unitOrZero(p.Input.Aim.Sub(tr.Pos))
	if aim == (Vec2{}) {
		aim = Vec2{X: 1}
	}
	if p.Input.Fire {
		s.fireBullet(p, tr.Pos, aim)
	}
	if p.Input.Rocket {
		s.fireRocket(p, tr.Pos, aim)
	}
}

func (s *Session) fireBullet(p *PlayerState, from, dir Vec2) bool {
	if s.over || p.Ammo <= 0 || s.Now < p.NextShotAt {
		return false
	}
	pp := s.Tuning.Player
	p.Ammo--
	p.NextShotAt = s.Now + msToSeconds(s.bulletCooldownMs(p))
	s.spawnProjectile(from, dir.Scale(pp.BulletSpeed), Projectile{
		Faction:   FactionPlayer,
		Damage:    pp.BulletDamage,
		Source:    DamageBullet,
		ExpiresAt: s.Now + msToSeconds(pp.BulletLifetimeMs),
	}, BulletRadius)
	s.cue("shoot")
	return true
}

func (s *Session) fireRocket(p *PlayerState, from, dir Vec2) bool {
	if s.over || p.RPGAmmo <= 0 || s.Now < p.NextRocketAt {
		return false
	}
	pp := s.Tuning.Player
	p.RPGAmmo--
	p.NextRocketAt = s.Now + msToSeconds(pp.RocketCooldownMs)
	s.spawnProjectile(from, dir.Scale(pp.RocketSpeed), Projectile{
		Faction:      FactionPlayer,
		Damage:       pp.RocketDamage,
		Source:       DamageHeavy,
		ExpiresAt:    s.Now + msToSeconds(pp.RocketLifetimeMs),
		SplashDamage: pp.SplashDamage,
		SplashRadius: pp.SplashRadius,
	}, RocketRadius)
	s.cue("rpg_launch")
	return true
}

// collectPickup applies a pickup to the player and removes it.
func (s *Session) collectPickup(id EntityID) {
	pk := s.World.Pickup(id)
	p := s.World.PlayerState(s.Player)
	if pk == nil || p == nil {
		return
	}
	def := pk.Def
	switch def.Kind {
	case PickupHeal:
		p.Health += def.Amount
		if p.Health > p.MaxHealth {
			p.Health = p.MaxHealth
		}
	case PickupAmmo:
		p.Ammo += def.Amount
	case PickupSpecialAmmo:
		p.RPGAmmo += def.Amount
	case PickupBuff:
		s.grantBuff(p, def.Buff, def.DurationMs)
	}
	s.report.Collected = append(s.report.Collected, pk.Key)
	s.cue("pickup")
	s.destroyEntity(id)
}

// grantBuff starts a buff or restarts its full duration.
func (s *Session) grantBuff(p *PlayerState, name string, durationMs float64) {
	if name == "" || durationMs <= 0 {
		return
	}
	if b, ok := p.buffs[name]; ok {
		s.Events.Cancel(b.Token)
	}
	token := s.Events.Schedule(s.Ticks+ticksFor(durationMs), s.Player, EvBuffExpire, name)
	p.buffs[name] = &activeBuff{Token: token, UntilMs: s.Now*1000 + durationMs}
}

func (s *Session) handlePlayerEvent(ev ScheduledEvent) {
	p := s.World.PlayerState(ev.Entity)
	if p == nil {
		return
	}
	switch ev.Kind {
	case EvInvulnerabilityEnd:
		if p.invulnToken == ev.Token {
			p.Invulnerable = false
			p.invulnToken = 0
		}
	case EvBuffExpire:
		if b, ok := p.buffs[ev.Tag]; ok && b.Token == ev.Token {
			delete(p.buffs, ev.Tag)
		}
	}
}
