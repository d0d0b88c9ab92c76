package game

import "math"

// MeleeStats describes a close-range attack. A zero Range disables it.
type MeleeStats struct {
	Range       float64 `yaml:"range"`
	Damage      int     `yaml:"damage"`
	CooldownMs  float64 `yaml:"cooldown_ms"`
	DurationMs  float64 `yaml:"duration_ms"`
	Forgiveness float64 `yaml:"forgiveness"` // range multiplier used when the strike lands
}

// RangedStats describes a projectile attack. A zero Range disables it.
type RangedStats struct {
	Range       float64 `yaml:"range"`
	Damage      int     `yaml:"damage"`
	CooldownMs  float64 `yaml:"cooldown_ms"`
	BulletSpeed float64 `yaml:"bullet_speed"`
	PauseMs     float64 `yaml:"pause_ms"` // 0 keeps moving while firing
}

// StrafeStats drives the orbiting movement of kinds that keep their distance.
type StrafeStats struct {
	Speed       float64 `yaml:"speed"`
	IdealFactor float64 `yaml:"ideal_factor"`
	Tolerance   float64 `yaml:"tolerance"`
	FlipMinMs   float64 `yaml:"flip_min_ms"`
	FlipMaxMs   float64 `yaml:"flip_max_ms"`
}

// ContactStats applies when the player body touches the enemy body.
type ContactStats struct {
	Damage            int     `yaml:"damage"`
	InvulnerabilityMs float64 `yaml:"invulnerability_ms"`
	SelfDestruct      bool    `yaml:"self_destruct"`
	Score             int     `yaml:"score"`
}

type EnemyStats struct {
	Health       int               `yaml:"health"`
	Speed        float64           `yaml:"speed"`
	Radius       float64           `yaml:"radius"`
	Score        int               `yaml:"score"`
	Weight       float64           `yaml:"weight"`
	Melee        MeleeStats        `yaml:"melee"`
	Ranged       RangedStats       `yaml:"ranged"`
	Strafe       StrafeStats       `yaml:"strafe"`
	Contact      ContactStats      `yaml:"contact"`
	AggroRadius  float64           `yaml:"aggro_radius"`
	GuardRadius  float64           `yaml:"guard_radius"`
	HurtLockMs   float64           `yaml:"hurt_lock_ms"`
	HitFlashMs   float64           `yaml:"hit_flash_ms"`
	DeathDelayMs float64           `yaml:"death_delay_ms"`
	Anims        map[string]string `yaml:"anims"`
}

func (s *EnemyStats) hasMelee() bool  { return s.Melee.Range > 0 && s.Melee.Damage > 0 }
func (s *EnemyStats) hasRanged() bool { return s.Ranged.Range > 0 && s.Ranged.BulletSpeed > 0 }
func (s *EnemyStats) strafes() bool   { return s.Strafe.Speed > 0 && s.hasRanged() }

// EnemyRoster holds the per-kind stat tables.
type EnemyRoster struct {
	Scarab   EnemyStats `yaml:"scarab"`
	Hornet   EnemyStats `yaml:"hornet"`
	Spider   EnemyStats `yaml:"spider"`
	Guardian EnemyStats `yaml:"guardian"`
}

func (r *EnemyRoster) For(kind EnemyKind) *EnemyStats {
	switch kind {
	case KindScarab:
		return &r.Scarab
	case KindHornet:
		return &r.Hornet
	case KindSpider:
		return &r.Spider
	case KindGuardian:
		return &r.Guardian
	}
	return nil
}

type DifficultyParams struct {
	InitialMaxEnemies      int     `yaml:"initial_max_enemies"`
	MaxEnemiesCap          int     `yaml:"max_enemies_cap"`
	MaxEnemiesStep         int     `yaml:"max_enemies_step"`
	InitialSpawnIntervalMs float64 `yaml:"initial_spawn_interval_ms"`
	MinSpawnIntervalMs     float64 `yaml:"min_spawn_interval_ms"`
	SpawnIntervalStepMs    float64 `yaml:"spawn_interval_step_ms"`
	StepIntervalMs         float64 `yaml:"step_interval_ms"`
}

type SpawnRingParams struct {
	Buffer          float64 `yaml:"buffer"`
	Extra           float64 `yaml:"extra"`
	Attempts        int     `yaml:"attempts"`
	ObjectiveMargin float64 `yaml:"objective_margin"`
}

type ObjectiveParams struct {
	CaptureScore    int     `yaml:"capture_score"`
	GuardianOffset  float64 `yaml:"guardian_offset"`
	DestroyDelayMs  float64 `yaml:"destroy_delay_ms"`
	RespawnDelayMs  float64 `yaml:"respawn_delay_ms"`
	RetryIntervalMs float64 `yaml:"retry_interval_ms"`
}

// LootEntry is one slice of the drop partition.
type LootEntry struct {
	Pickup string  `yaml:"pickup"`
	Weight float64 `yaml:"weight"`
}

type LootTable struct {
	DropChance   float64     `yaml:"drop_chance"`
	Entries      []LootEntry `yaml:"entries"`
	BonusPickup  string      `yaml:"bonus_pickup"`
	BonusCount   int         `yaml:"bonus_count"`
	BonusOffset  float64     `yaml:"bonus_offset"`
	BonusSources []string    `yaml:"bonus_sources"`
}

// PickupKind classifies what a pickup does to the player.
type PickupKind string

const (
	PickupHeal        PickupKind = "heal"
	PickupAmmo        PickupKind = "ammo"
	PickupSpecialAmmo PickupKind = "special_ammo"
	PickupBuff        PickupKind = "buff"
)

type PickupDef struct {
	Kind       PickupKind `yaml:"kind"`
	Amount     int        `yaml:"amount"`
	Buff       string     `yaml:"buff"`
	DurationMs float64    `yaml:"duration_ms"`
}

type PlayerParams struct {
	MaxHealth         int     `yaml:"max_health"`
	Ammo              int     `yaml:"ammo"`
	RPGAmmo           int     `yaml:"rpg_ammo"`
	Speed             float64 `yaml:"speed"`
	BulletCooldownMs  float64 `yaml:"bullet_cooldown_ms"`
	BulletSpeed       float64 `yaml:"bullet_speed"`
	BulletDamage      int     `yaml:"bullet_damage"`
	BulletLifetimeMs  float64 `yaml:"bullet_lifetime_ms"`
	RocketCooldownMs  float64 `yaml:"rocket_cooldown_ms"`
	RocketSpeed       float64 `yaml:"rocket_speed"`
	RocketDamage      int     `yaml:"rocket_damage"`
	SplashDamage      int     `yaml:"splash_damage"`
	SplashRadius      float64 `yaml:"splash_radius"`
	RocketLifetimeMs  float64 `yaml:"rocket_lifetime_ms"`
	InvulnerabilityMs float64 `yaml:"invulnerability_ms"`
	OverdriveFactor   float64 `yaml:"overdrive_factor"`
}

// Tuning is the full set of encounter constants. Sessions share one
// sanitized instance read-only.
type Tuning struct {
	Difficulty DifficultyParams     `yaml:"difficulty"`
	SpawnRing  SpawnRingParams      `yaml:"spawn_ring"`
	Objective  ObjectiveParams      `yaml:"objective"`
	Loot       LootTable            `yaml:"loot"`
	Pickups    map[string]PickupDef `yaml:"pickups"`
	Player     PlayerParams         `yaml:"player"`
	Enemies    EnemyRoster          `yaml:"enemies"`
}

const (
	PickupRepairHeart   = "repair_heart"
	PickupAmmoClip      = "ammo_clip"
	PickupRPG           = "rpg_pickup"
	PickupOverdriveBolt = "overdrive_bolt"

	BuffOverdrive = "overdrive"
)

func defaultPickups() map[string]PickupDef {
	return map[string]PickupDef{
		PickupRepairHeart:   {Kind: PickupHeal, Amount: 50},
		PickupAmmoClip:      {Kind: PickupAmmo, Amount: 35},
		PickupRPG:           {Kind: PickupSpecialAmmo, Amount: 2},
		PickupOverdriveBolt: {Kind: PickupBuff, Buff: BuffOverdrive, DurationMs: 8000},
	}
}

// DefaultTuning returns the stock encounter balance.
func DefaultTuning() Tuning {
	return Tuning{
		Difficulty: DifficultyParams{
			InitialMaxEnemies:      10,
			MaxEnemiesCap:          50,
			MaxEnemiesStep:         2,
			InitialSpawnIntervalMs: 2000,
			MinSpawnIntervalMs:     500,
			SpawnIntervalStepMs:    50,
			StepIntervalMs:         35000,
		},
		SpawnRing: SpawnRingParams{
			Buffer:          100,
			Extra:           300,
			Attempts:        20,
			ObjectiveMargin: 100,
		},
		Objective: ObjectiveParams{
			CaptureScore:    200,
			GuardianOffset:  80,
			DestroyDelayMs:  100,
			RespawnDelayMs:  100,
			RetryIntervalMs: 5000,
		},
		Loot: LootTable{
			DropChance: 0.20,
			Entries: []LootEntry{
				{Pickup: PickupRepairHeart, Weight: 0.35},
				{Pickup: PickupAmmoClip, Weight: 0.40},
				{Pickup: PickupRPG, Weight: 0.15},
				{Pickup: PickupOverdriveBolt, Weight: 0.10},
			},
			BonusPickup:  PickupAmmoClip,
			BonusCount:   2,
			BonusOffset:  20,
			BonusSources: []string{string(DamageSplash), string(DamageHeavy)},
		},
		Pickups: defaultPickups(),
		Player: PlayerParams{
			MaxHealth:         500,
			Ammo:              200,
			RPGAmmo:           10,
			Speed:             300,
			BulletCooldownMs:  150,
			BulletSpeed:       400,
			BulletDamage:      25,
			BulletLifetimeMs:  2000,
			RocketCooldownMs:  1500,
			RocketSpeed:       300,
			RocketDamage:      125,
			SplashDamage:      125,
			SplashRadius:      128,
			RocketLifetimeMs:  3000,
			InvulnerabilityMs: 1000,
			OverdriveFactor:   0.5,
		},
		Enemies: EnemyRoster{
			Scarab: EnemyStats{
				Health: 25, Speed: 60, Radius: EnemyRadius, Score: 10, Weight: 0.5,
				Melee:        MeleeStats{Range: 30, Damage: 20, CooldownMs: 1000, DurationMs: 500, Forgiveness: 1.0},
				Ranged:       RangedStats{Range: 200, Damage: 10, CooldownMs: 1500, BulletSpeed: 250},
				Contact:      ContactStats{Damage: 20, InvulnerabilityMs: 1000, SelfDestruct: true, Score: 5},
				HitFlashMs:   100,
				DeathDelayMs: 300,
				Anims: map[string]string{
					"move": "scarab_walk", "melee": "scarab_attack", "ranged": "scarab_shoot", "death": "scarab_death",
				},
			},
			Hornet: EnemyStats{
				Health: 50, Speed: 70, Radius: EnemyRadius, Score: 10, Weight: 0.3,
				Ranged:       RangedStats{Range: 250, Damage: 13, CooldownMs: 1200, BulletSpeed: 300},
				Strafe:       StrafeStats{Speed: 40, IdealFactor: 0.75, Tolerance: 20, FlipMinMs: 1000, FlipMaxMs: 3000},
				Contact:      ContactStats{Damage: 13, InvulnerabilityMs: 1000},
				HitFlashMs:   100,
				DeathDelayMs: 300,
				Anims: map[string]string{
					"move": "hornet_fly", "ranged": "hornet_shoot", "death": "hornet_death",
				},
			},
			Spider: EnemyStats{
				Health: 75, Speed: 80, Radius: EnemyRadius, Score: 10, Weight: 0.2,
				Melee:        MeleeStats{Range: 25, Damage: 30, CooldownMs: 800, DurationMs: 500, Forgiveness: 1.2},
				Ranged:       RangedStats{Range: 180, Damage: 15, CooldownMs: 1000, BulletSpeed: 200, PauseMs: 300},
				Contact:      ContactStats{Damage: 30, InvulnerabilityMs: 1000},
				HitFlashMs:   100,
				DeathDelayMs: 300,
				Anims: map[string]string{
					"move": "spider_walk", "melee": "spider_attack", "ranged": "spider_fire",
				},
			},
			Guardian: EnemyStats{
				Health: 225, Speed: 400, Radius: GuardianRadius, Score: 100,
				Melee:        MeleeStats{Range: 50, Damage: 90, CooldownMs: 500, DurationMs: 500, Forgiveness: 1.0},
				Contact:      ContactStats{Damage: 90, InvulnerabilityMs: 1200},
				AggroRadius:  400,
				GuardRadius:  40,
				HurtLockMs:   250,
				HitFlashMs:   100,
				DeathDelayMs: 500,
				Anims: map[string]string{
					"idle": "guardian_idle", "move": "guardian_run", "melee": "guardian_attack",
					"hurt": "guardian_hurt", "death": "guardian_death",
				},
			},
		},
	}
}

func positive(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fallback
	}
	return v
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func sanitizeEnemyStats(s EnemyStats, def EnemyStats) EnemyStats {
	if s.Health <= 0 {
		s.Health = def.Health
	}
	s.Speed = nonNegative(s.Speed)
	s.Radius = positive(s.Radius, def.Radius)
	if s.Score < 0 {
		s.Score = 0
	}
	s.Weight = nonNegative(s.Weight)
	s.Melee.Range = nonNegative(s.Melee.Range)
	s.Melee.CooldownMs = nonNegative(s.Melee.CooldownMs)
	s.Melee.DurationMs = positive(s.Melee.DurationMs, 500)
	s.Melee.Forgiveness = positive(s.Melee.Forgiveness, 1)
	s.Ranged.Range = nonNegative(s.Ranged.Range)
	s.Ranged.CooldownMs = nonNegative(s.Ranged.CooldownMs)
	s.Ranged.BulletSpeed = nonNegative(s.Ranged.BulletSpeed)
	s.Ranged.PauseMs = nonNegative(s.Ranged.PauseMs)
	s.Strafe.Speed = nonNegative(s.Strafe.Speed)
	s.Strafe.IdealFactor = positive(s.Strafe.IdealFactor, 0.75)
	s.Strafe.Tolerance = nonNegative(s.Strafe.Tolerance)
	s.Strafe.FlipMinMs = positive(s.Strafe.FlipMinMs, 1000)
	if s.Strafe.FlipMaxMs < s.Strafe.FlipMinMs {
		s.Strafe.FlipMaxMs = s.Strafe.FlipMinMs
	}
	if s.Contact.Damage < 0 {
		s.Contact.Damage = 0
	}
	s.Contact.InvulnerabilityMs = nonNegative(s.Contact.InvulnerabilityMs)
	s.AggroRadius = nonNegative(s.AggroRadius)
	s.GuardRadius = nonNegative(s.GuardRadius)
	s.HurtLockMs = nonNegative(s.HurtLockMs)
	s.HitFlashMs = positive(s.HitFlashMs, 100)
	s.DeathDelayMs = positive(s.DeathDelayMs, def.DeathDelayMs)
	return s
}

// SanitizeTuning clamps every field into a usable range. Floors never exceed
// their starting values and probabilities stay inside [0,1].
func SanitizeTuning(t Tuning) Tuning {
	def := DefaultTuning()

	d := &t.Difficulty
	if d.InitialMaxEnemies < 0 {
		d.InitialMaxEnemies = 0
	}
	if d.MaxEnemiesCap < d.InitialMaxEnemies {
		d.MaxEnemiesCap = d.InitialMaxEnemies
	}
	if d.MaxEnemiesStep < 0 {
		d.MaxEnemiesStep = 0
	}
	d.InitialSpawnIntervalMs = positive(d.InitialSpawnIntervalMs, def.Difficulty.InitialSpawnIntervalMs)
	d.MinSpawnIntervalMs = positive(d.MinSpawnIntervalMs, def.Difficulty.MinSpawnIntervalMs)
	if d.MinSpawnIntervalMs > d.InitialSpawnIntervalMs {
		d.MinSpawnIntervalMs = d.InitialSpawnIntervalMs
	}
	d.SpawnIntervalStepMs = nonNegative(d.SpawnIntervalStepMs)
	d.StepIntervalMs = positive(d.StepIntervalMs, def.Difficulty.StepIntervalMs)

	r := &t.SpawnRing
	r.Buffer = nonNegative(r.Buffer)
	r.Extra = positive(r.Extra, def.SpawnRing.Extra)
	if r.Attempts <= 0 {
		r.Attempts = def.SpawnRing.Attempts
	}
	r.ObjectiveMargin = nonNegative(r.ObjectiveMargin)

	o := &t.Objective
	if o.CaptureScore < 0 {
		o.CaptureScore = 0
	}
	o.GuardianOffset = nonNegative(o.GuardianOffset)
	o.DestroyDelayMs = nonNegative(o.DestroyDelayMs)
	o.RespawnDelayMs = nonNegative(o.RespawnDelayMs)
	o.RetryIntervalMs = positive(o.RetryIntervalMs, def.Objective.RetryIntervalMs)

	l := &t.Loot
	l.DropChance = Clamp(nonNegative(l.DropChance), 0, 1)
	entries := l.Entries[:0:0]
	for _, e := range l.Entries {
		if e.Pickup == "" || nonNegative(e.Weight) == 0 {
			continue
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		entries = def.Loot.Entries
	}
	l.Entries = normalizeLootWeights(entries)
	if l.BonusCount < 0 {
		l.BonusCount = 0
	}
	l.BonusOffset = nonNegative(l.BonusOffset)

	if t.Pickups == nil {
		t.Pickups = map[string]PickupDef{}
	}
	for key, pd := range def.Pickups {
		if _, ok := t.Pickups[key]; !ok {
			t.Pickups[key] = pd
		}
	}

	p := &t.Player
	if p.MaxHealth <= 0 {
		p.MaxHealth = def.Player.MaxHealth
	}
	if p.Ammo < 0 {
		p.Ammo = 0
	}
	if p.RPGAmmo < 0 {
		p.RPGAmmo = 0
	}
	p.Speed = nonNegative(p.Speed)
	p.BulletCooldownMs = nonNegative(p.BulletCooldownMs)
	p.BulletSpeed = positive(p.BulletSpeed, def.Player.BulletSpeed)
	p.BulletLifetimeMs = positive(p.BulletLifetimeMs, def.Player.BulletLifetimeMs)
	p.RocketCooldownMs = nonNegative(p.RocketCooldownMs)
	p.RocketSpeed = positive(p.RocketSpeed, def.Player.RocketSpeed)
	p.RocketLifetimeMs = positive(p.RocketLifetimeMs, def.Player.RocketLifetimeMs)
	p.SplashRadius = nonNegative(p.SplashRadius)
	p.InvulnerabilityMs = nonNegative(p.InvulnerabilityMs)
	p.OverdriveFactor = Clamp(positive(p.OverdriveFactor, def.Player.OverdriveFactor), 0.05, 1)

	t.Enemies.Scarab = sanitizeEnemyStats(t.Enemies.Scarab, def.Enemies.Scarab)
	t.Enemies.Hornet = sanitizeEnemyStats(t.Enemies.Hornet, def.Enemies.Hornet)
	t.Enemies.Spider = sanitizeEnemyStats(t.Enemies.Spider, def.Enemies.Spider)
	t.Enemies.Guardian = sanitizeEnemyStats(t.Enemies.Guardian, def.Enemies.Guardian)
	t.Enemies.Guardian.Weight = 0
	return t
}

func normalizeLootWeights(entries []LootEntry) []LootEntry {
	total := 0.0
	for _, e := range entries {
		total += e.Weight
	}
	out := make([]LootEntry, len(entries))
	for i, e := range entries {
		out[i] = LootEntry{Pickup: e.Pickup, Weight: e.Weight / total}
	}
	return out
}

// SpawnTable builds the weighted kind table from the roster, skipping kinds
// with no weight. Kinds are ordered Scarab, Hornet, Spider.
func (t *Tuning) SpawnTable() SpawnTable {
	var entries []WeightedKind
	for _, kind := range []EnemyKind{KindScarab, KindHornet, KindSpider} {
		if w := t.Enemies.For(kind).Weight; w > 0 {
			entries = append(entries, WeightedKind{Kind: kind, Weight: w})
		}
	}
	return newSpawnTable(entries)
}
