package game

// WeightedKind pairs an enemy kind with its spawn probability weight.
type WeightedKind struct {
	Kind   EnemyKind
	Weight float64
}

// SpawnTable is the ordered weighted draw used by the population manager.
// Weights are normalised to sum to one when the table is built.
type SpawnTable struct {
	Entries []WeightedKind
}

func newSpawnTable(entries []WeightedKind) SpawnTable {
	total := 0.0
	for _, e := range entries {
		if e.Weight > 0 {
			total += e.Weight
		}
	}
	out := make([]WeightedKind, 0, len(entries))
	if total <= 0 {
		return SpawnTable{Entries: out}
	}
	for _, e := range entries {
		if e.Weight <= 0 {
			continue
		}
		out = append(out, WeightedKind{Kind: e.Kind, Weight: e.Weight / total})
	}
	return SpawnTable{Entries: out}
}

// Select walks the cumulative weights and returns the first kind whose
// running sum exceeds draw, a value from [0,1). Rounding gaps at the top end
// fall back to the last entry.
func (t SpawnTable) Select(draw float64) (EnemyKind, bool) {
	if len(t.Entries) == 0 {
		return 0, false
	}
	weights := make([]float64, len(t.Entries))
	for i, e := range t.Entries {
		weights[i] = e.Weight
	}
	return t.Entries[pickCumulative(weights, draw)].Kind, true
}

// pickCumulative returns the index of the first weight whose cumulative sum
// exceeds draw. weights must be non-empty.
func pickCumulative(weights []float64, draw float64) int {
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if draw < cumulative {
			return i
		}
	}
	return len(weights) - 1
}
