package game

import (
	"math"
	"math/rand"
	"testing"
)

func sanitizedLoot() LootTable {
	return SanitizeTuning(DefaultTuning()).Loot
}

func TestLootFailedBaseRollDropsNothing(t *testing.T) {
	l := NewLootResolver(sanitizedLoot(), seqRoll(0.20, 0.0))
	if drops := l.Resolve(Vec2{X: 5, Y: 5}); len(drops) != 0 {
		t.Fatalf("expected no drop when the base roll is at the threshold, got %v", drops)
	}
	l = NewLootResolver(sanitizedLoot(), seqRoll(0.95))
	if drops := l.Resolve(Vec2{}); len(drops) != 0 {
		t.Fatalf("expected no drop, got %v", drops)
	}
}

func TestLootPartition(t *testing.T) {
	cases := []struct {
		kindRoll float64
		want     string
	}{
		{0.0, PickupRepairHeart},
		{0.34, PickupRepairHeart},
		{0.36, PickupAmmoClip},
		{0.74, PickupAmmoClip},
		{0.76, PickupRPG},
		{0.91, PickupOverdriveBolt},
	}
	for _, tc := range cases {
		l := NewLootResolver(sanitizedLoot(), seqRoll(0.1, tc.kindRoll))
		drops := l.Resolve(Vec2{X: 1, Y: 2})
		if len(drops) != 1 {
			t.Fatalf("roll %.2f: expected one drop, got %d", tc.kindRoll, len(drops))
		}
		if drops[0].Key != tc.want || drops[0].Pos != (Vec2{X: 1, Y: 2}) {
			t.Fatalf("roll %.2f: got %+v, want %s", tc.kindRoll, drops[0], tc.want)
		}
	}
}

func TestLootConvergesToConfiguredRates(t *testing.T) {
	table := sanitizedLoot()
	rng := rand.New(rand.NewSource(7))
	l := NewLootResolver(table, rng.Float64)
	const trials = 200000
	drops := 0
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		for _, d := range l.Resolve(Vec2{}) {
			drops++
			counts[d.Key]++
		}
	}
	rate := float64(drops) / trials
	if math.Abs(rate-table.DropChance) > 0.005 {
		t.Fatalf("drop rate %.4f, want %.2f", rate, table.DropChance)
	}
	for _, e := range table.Entries {
		got := float64(counts[e.Pickup]) / float64(drops)
		if math.Abs(got-e.Weight) > 0.015 {
			t.Fatalf("%s share %.4f, want %.2f", e.Pickup, got, e.Weight)
		}
	}
}

func TestGuardianBonusDrops(t *testing.T) {
	l := NewLootResolver(sanitizedLoot(), seqRoll(0.0, 1.0-1e-9))
	if !l.BonusApplies(DamageSplash) || !l.BonusApplies(DamageHeavy) {
		t.Fatalf("splash and heavy kills should take the bonus")
	}
	if l.BonusApplies(DamageBullet) {
		t.Fatalf("bullet kills should use the drop table")
	}
	pos := Vec2{X: 100, Y: -40}
	drops := l.GuardianBonus(pos)
	if len(drops) != 2 {
		t.Fatalf("expected two bonus drops, got %d", len(drops))
	}
	if drops[0].Pos != pos {
		t.Fatalf("first drop should sit on the death position, got %+v", drops[0].Pos)
	}
	for _, d := range drops {
		if d.Key != PickupAmmoClip {
			t.Fatalf("unexpected bonus key %s", d.Key)
		}
		if math.Abs(d.Pos.X-pos.X) > 20 || math.Abs(d.Pos.Y-pos.Y) > 20 {
			t.Fatalf("bonus drop %+v too far from %+v", d.Pos, pos)
		}
	}
}

func TestSpawnPickupUnknownKey(t *testing.T) {
	s := quietSession(t)
	before := len(s.World.Query(compPickup))
	if _, err := s.spawnPickup("mystery_box", Vec2{}); err == nil {
		t.Fatalf("expected error for unknown pickup key")
	}
	if after := len(s.World.Query(compPickup)); after != before {
		t.Fatalf("unknown pickup must not create an entity")
	}
}
