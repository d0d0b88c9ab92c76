package game

import "testing"

func TestDifficultyStepsOnInterval(t *testing.T) {
	d := NewDifficulty(DefaultTuning().Difficulty)
	if d.MaxEnemies != 10 || d.SpawnIntervalMs != 2000 {
		t.Fatalf("unexpected initial values: %d %.0f", d.MaxEnemies, d.SpawnIntervalMs)
	}
	if steps := d.Advance(34999); steps != 0 {
		t.Fatalf("expected no step before the interval, got %d", steps)
	}
	if steps := d.Advance(1); steps != 1 {
		t.Fatalf("expected one step at the interval, got %d", steps)
	}
	if d.MaxEnemies != 12 || d.SpawnIntervalMs != 1950 {
		t.Fatalf("after one step got max %d interval %.0f", d.MaxEnemies, d.SpawnIntervalMs)
	}
	if steps := d.Advance(35000 * 3); steps != 3 {
		t.Fatalf("expected three steps, got %d", steps)
	}
}

func TestDifficultyMonotonicAndClamped(t *testing.T) {
	p := DefaultTuning().Difficulty
	d := NewDifficulty(p)
	prevMax, prevInterval := d.MaxEnemies, d.SpawnIntervalMs
	for i := 0; i < 200; i++ {
		d.Advance(p.StepIntervalMs)
		if d.MaxEnemies < prevMax {
			t.Fatalf("maxEnemies decreased: %d -> %d", prevMax, d.MaxEnemies)
		}
		if d.SpawnIntervalMs > prevInterval {
			t.Fatalf("spawn interval increased: %.0f -> %.0f", prevInterval, d.SpawnIntervalMs)
		}
		if d.MaxEnemies > p.MaxEnemiesCap {
			t.Fatalf("maxEnemies %d above cap %d", d.MaxEnemies, p.MaxEnemiesCap)
		}
		if d.SpawnIntervalMs < p.MinSpawnIntervalMs {
			t.Fatalf("interval %.0f below floor %.0f", d.SpawnIntervalMs, p.MinSpawnIntervalMs)
		}
		prevMax, prevInterval = d.MaxEnemies, d.SpawnIntervalMs
	}
	if !d.Saturated() {
		t.Fatalf("expected difficulty to saturate, got max %d interval %.0f", d.MaxEnemies, d.SpawnIntervalMs)
	}
	if d.MaxEnemies != 50 || d.SpawnIntervalMs != 500 {
		t.Fatalf("expected 50/500 at saturation, got %d/%.0f", d.MaxEnemies, d.SpawnIntervalMs)
	}
}

func TestDifficultyIgnoresNonPositiveElapsed(t *testing.T) {
	d := NewDifficulty(DefaultTuning().Difficulty)
	if d.Advance(0) != 0 || d.Advance(-100) != 0 {
		t.Fatalf("non-positive elapsed time must not step")
	}
}
