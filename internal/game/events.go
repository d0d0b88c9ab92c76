package game

// PlayerDamaged is the result of a damage application that got through.
type PlayerDamaged struct {
	Amount    int
	Health    int
	MaxHealth int
	Source    string
	Tick      uint64
}

// EnemyDeath carries the score value and last position of a killed enemy.
type EnemyDeath struct {
	Entity EntityID
	Kind   EnemyKind
	Score  int
	Pos    Vec2
	Source DamageSource
}

type PickupSpawned struct {
	Entity EntityID
	Key    string
	Pos    Vec2
}

type ObjectiveEvent struct {
	Entity EntityID
	State  ObjectiveState
	Pos    Vec2
	Score  int
}

// TickReport collects everything that happened during one or more ticks.
type TickReport struct {
	PlayerDamage []PlayerDamaged
	Deaths       []EnemyDeath
	Drops        []PickupSpawned
	Collected    []string
	Objective    []ObjectiveEvent
	Cues         []string
	GameOver     bool
	FinalScore   int
}

func (r *TickReport) Empty() bool {
	return len(r.PlayerDamage) == 0 && len(r.Deaths) == 0 && len(r.Drops) == 0 &&
		len(r.Collected) == 0 && len(r.Objective) == 0 && len(r.Cues) == 0 && !r.GameOver
}

func (r *TickReport) merge(o TickReport) {
	r.PlayerDamage = append(r.PlayerDamage, o.PlayerDamage...)
	r.Deaths = append(r.Deaths, o.Deaths...)
	r.Drops = append(r.Drops, o.Drops...)
	r.Collected = append(r.Collected, o.Collected...)
	r.Objective = append(r.Objective, o.Objective...)
	r.Cues = append(r.Cues, o.Cues...)
	if o.GameOver {
		r.GameOver = true
		r.FinalScore = o.FinalScore
	}
}
