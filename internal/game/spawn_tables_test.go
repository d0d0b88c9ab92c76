package game

import (
	"math"
	"math/rand"
	"testing"
)

func TestSpawnTableCumulativeSelection(t *testing.T) {
	tuning := DefaultTuning()
	table := tuning.SpawnTable()
	cases := []struct {
		draw float64
		want EnemyKind
	}{
		{0, KindScarab},
		{0.49, KindScarab},
		{0.501, KindHornet},
		{0.79, KindHornet},
		{0.801, KindSpider},
		{0.999999, KindSpider},
	}
	for _, tc := range cases {
		got, ok := table.Select(tc.draw)
		if !ok || got != tc.want {
			t.Fatalf("draw %.6f: got %v, want %v", tc.draw, got, tc.want)
		}
	}
}

func TestSpawnTableNeverDrawsGuardian(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Enemies.Guardian.Weight = 5
	tuning = SanitizeTuning(tuning)
	table := tuning.SpawnTable()
	for _, e := range table.Entries {
		if e.Kind == KindGuardian {
			t.Fatalf("guardian must not be in the roster draw")
		}
	}
}

func TestSpawnTableDistribution(t *testing.T) {
	tuning := DefaultTuning()
	table := tuning.SpawnTable()
	rng := rand.New(rand.NewSource(99))
	counts := map[EnemyKind]int{}
	const trials = 100000
	for i := 0; i < trials; i++ {
		kind, _ := table.Select(rng.Float64())
		counts[kind]++
	}
	want := map[EnemyKind]float64{KindScarab: 0.5, KindHornet: 0.3, KindSpider: 0.2}
	for kind, p := range want {
		got := float64(counts[kind]) / trials
		if math.Abs(got-p) > 0.01 {
			t.Fatalf("%v frequency %.4f, want %.2f", kind, got, p)
		}
	}
}

func TestEmptySpawnTable(t *testing.T) {
	table := newSpawnTable(nil)
	if _, ok := table.Select(0.3); ok {
		t.Fatalf("empty table must not select")
	}
}
