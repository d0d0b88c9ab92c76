package server

import (
	"BotShooter/internal/game"
)

type playerDTO struct {
	X            float64            `json:"x"`
	Y            float64            `json:"y"`
	HP           int                `json:"hp"`
	MaxHP        int                `json:"max_hp"`
	Ammo         int                `json:"ammo"`
	RPGAmmo      int                `json:"rpg_ammo"`
	Invulnerable bool               `json:"invulnerable"`
	Buffs        map[string]float64 `json:"buffs,omitempty"` // remaining ms
}

type enemyDTO struct {
	ID       uint64  `json:"id"`
	Kind     string  `json:"kind"`
	State    string  `json:"state"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	HP       int     `json:"hp"`
	MaxHP    int     `json:"max_hp"`
	Anim     string  `json:"anim"`
	Flashing bool    `json:"flashing,omitempty"`
}

type projectileDTO struct {
	ID    uint64  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Owner string  `json:"owner"`
	Heavy bool    `json:"heavy,omitempty"`
}

type pickupDTO struct {
	ID  uint64  `json:"id"`
	Key string  `json:"key"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}

type objectiveDTO struct {
	ID       uint64  `json:"id"`
	State    string  `json:"state"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Guardian uint64  `json:"guardian,omitempty"`
}

type difficultyDTO struct {
	MaxEnemies      int     `json:"max_enemies"`
	SpawnIntervalMs float64 `json:"spawn_interval_ms"`
	Steps           int     `json:"steps"`
}

type contextDTO struct {
	Initials string `json:"initials"`
	SFX      bool   `json:"sfx"`
	Music    bool   `json:"music"`
}

type damageEventDTO struct {
	Amount int    `json:"amount"`
	HP     int    `json:"hp"`
	Source string `json:"source"`
}

type deathEventDTO struct {
	ID     uint64  `json:"id"`
	Kind   string  `json:"kind"`
	Score  int     `json:"score"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Source string  `json:"source"`
}

type objectiveEventDTO struct {
	ID    uint64 `json:"id"`
	State string `json:"state"`
	Score int    `json:"score,omitempty"`
}

type eventsDTO struct {
	Damage    []damageEventDTO    `json:"damage,omitempty"`
	Deaths    []deathEventDTO     `json:"deaths,omitempty"`
	Drops     []pickupDTO         `json:"drops,omitempty"`
	Collected []string            `json:"collected,omitempty"`
	Objective []objectiveEventDTO `json:"objective,omitempty"`
	Cues      []string            `json:"cues,omitempty"`
}

type stateMsg struct {
	Type        string          `json:"type"`
	Session     string          `json:"session"`
	Tick        uint64          `json:"tick"`
	Now         float64         `json:"now"`
	Score       int             `json:"score"`
	Paused      bool            `json:"paused"`
	Meta        worldMetaDTO    `json:"meta"`
	Me          playerDTO       `json:"me"`
	Enemies     []enemyDTO      `json:"enemies"`
	Projectiles []projectileDTO `json:"projectiles"`
	Pickups     []pickupDTO     `json:"pickups"`
	Objective   *objectiveDTO   `json:"objective,omitempty"`
	Difficulty  difficultyDTO   `json:"difficulty"`
	Context     contextDTO      `json:"context"`
	Events      *eventsDTO      `json:"events,omitempty"`
}

type worldMetaDTO struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type gameOverMsg struct {
	Type   string `json:"type"`
	Score  int    `json:"score"`
	Status string `json:"status"`
	Final  bool   `json:"final"`
}

func factionName(f game.Faction) string {
	if f == game.FactionPlayer {
		return "player"
	}
	return "enemy"
}

func buildStateMsg(id string, snap game.Snapshot, rep game.TickReport) stateMsg {
	msg := stateMsg{
		Type:    "state",
		Session: id,
		Tick:    snap.Tick,
		Now:     snap.Now,
		Score:   snap.Score,
		Paused:  snap.Paused,
		Meta:    worldMetaDTO{W: game.WorldSize, H: game.WorldSize},
		Me: playerDTO{
			X:            snap.Player.Pos.X,
			Y:            snap.Player.Pos.Y,
			HP:           snap.Player.Health,
			MaxHP:        snap.Player.MaxHealth,
			Ammo:         snap.Player.Ammo,
			RPGAmmo:      snap.Player.RPGAmmo,
			Invulnerable: snap.Player.Invulnerable,
			Buffs:        snap.Player.Buffs,
		},
		Enemies:     make([]enemyDTO, 0, len(snap.Enemies)),
		Projectiles: make([]projectileDTO, 0, len(snap.Projectiles)),
		Pickups:     make([]pickupDTO, 0, len(snap.Pickups)),
		Difficulty: difficultyDTO{
			MaxEnemies:      snap.MaxEnemies,
			SpawnIntervalMs: snap.SpawnIntervalMs,
			Steps:           snap.DifficultySteps,
		},
		Context: contextDTO{
			Initials: snap.Context.DisplayName,
			SFX:      snap.Context.SFXEnabled,
			Music:    snap.Context.MusicEnabled,
		},
	}
	for _, e := range snap.Enemies {
		msg.Enemies = append(msg.Enemies, enemyDTO{
			ID: uint64(e.ID), Kind: e.Kind.String(), State: e.State.String(),
			X: e.Pos.X, Y: e.Pos.Y, HP: e.Health, MaxHP: e.MaxHealth,
			Anim: e.Anim, Flashing: e.Flashing,
		})
	}
	for _, p := range snap.Projectiles {
		msg.Projectiles = append(msg.Projectiles, projectileDTO{
			ID: uint64(p.ID), X: p.Pos.X, Y: p.Pos.Y, VX: p.Vel.X, VY: p.Vel.Y,
			Owner: factionName(p.Faction), Heavy: p.Heavy,
		})
	}
	for _, p := range snap.Pickups {
		msg.Pickups = append(msg.Pickups, pickupDTO{ID: uint64(p.ID), Key: p.Key, X: p.Pos.X, Y: p.Pos.Y})
	}
	if o := snap.Objective; o != nil {
		msg.Objective = &objectiveDTO{
			ID: uint64(o.ID), State: o.State.String(), X: o.Pos.X, Y: o.Pos.Y, Guardian: uint64(o.Guardian),
		}
	}
	if !rep.Empty() {
		msg.Events = eventsFromReport(rep)
	}
	return msg
}

func eventsFromReport(rep game.TickReport) *eventsDTO {
	ev := &eventsDTO{Collected: rep.Collected, Cues: rep.Cues}
	for _, d := range rep.PlayerDamage {
		ev.Damage = append(ev.Damage, damageEventDTO{Amount: d.Amount, HP: d.Health, Source: d.Source})
	}
	for _, d := range rep.Deaths {
		ev.Deaths = append(ev.Deaths, deathEventDTO{
			ID: uint64(d.Entity), Kind: d.Kind.String(), Score: d.Score,
			X: d.Pos.X, Y: d.Pos.Y, Source: string(d.Source),
		})
	}
	for _, d := range rep.Drops {
		ev.Drops = append(ev.Drops, pickupDTO{ID: uint64(d.Entity), Key: d.Key, X: d.Pos.X, Y: d.Pos.Y})
	}
	for _, o := range rep.Objective {
		ev.Objective = append(ev.Objective, objectiveEventDTO{ID: uint64(o.Entity), State: o.State.String(), Score: o.Score})
	}
	return ev
}
