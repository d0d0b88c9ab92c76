package game

// Difficulty raises the population cap and shortens the spawn interval on a
// fixed cadence. Both move monotonically and stop at their limits.
type Difficulty struct {
	params          DifficultyParams
	MaxEnemies      int
	SpawnIntervalMs float64
	Steps           int
	elapsedMs       float64
}

func NewDifficulty(p DifficultyParams) *Difficulty {
	return &Difficulty{
		params:          p,
		MaxEnemies:      p.InitialMaxEnemies,
		SpawnIntervalMs: p.InitialSpawnIntervalMs,
	}
}

// Advance accumulates elapsed game time and applies one step for every full
// interval crossed. It returns the number of steps applied.
func (d *Difficulty) Advance(ms float64) int {
	if ms <= 0 || d.params.StepIntervalMs <= 0 {
		return 0
	}
	d.elapsedMs += ms
	steps := 0
	for d.elapsedMs >= d.params.StepIntervalMs {
		d.elapsedMs -= d.params.StepIntervalMs
		d.Step()
		steps++
	}
	return steps
}

// Step applies a single increase.
func (d *Difficulty) Step() {
	d.Steps++
	d.MaxEnemies += d.params.MaxEnemiesStep
	if d.MaxEnemies > d.params.MaxEnemiesCap {
		d.MaxEnemies = d.params.MaxEnemiesCap
	}
	d.SpawnIntervalMs -= d.params.SpawnIntervalStepMs
	if d.SpawnIntervalMs < d.params.MinSpawnIntervalMs {
		d.SpawnIntervalMs = d.params.MinSpawnIntervalMs
	}
}

// Saturated reports whether both values have reached their limits.
func (d *Difficulty) Saturated() bool {
	return d.MaxEnemies >= d.params.MaxEnemiesCap && d.SpawnIntervalMs <= d.params.MinSpawnIntervalMs
}
