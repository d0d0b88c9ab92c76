package game

import (
	"errors"
	"fmt"
	"log"
)

// ErrUnknownPickup is returned when a pickup key has no definition.
var ErrUnknownPickup = errors.New("unknown pickup")

// LootDrop is one pickup the resolver wants spawned.
type LootDrop struct {
	Key string
	Pos Vec2
}

// LootResolver decides what, if anything, an enemy death leaves behind.
type LootResolver struct {
	Table   LootTable
	bonus   map[DamageSource]bool
	roll    func() float64
	weights []float64
}

// NewLootResolver builds a resolver. roll must return values in [0,1).
func NewLootResolver(table LootTable, roll func() float64) *LootResolver {
	l := &LootResolver{
		Table: table,
		bonus: make(map[DamageSource]bool, len(table.BonusSources)),
		roll:  roll,
	}
	for _, src := range table.BonusSources {
		l.bonus[DamageSource(src)] = true
	}
	l.weights = make([]float64, len(table.Entries))
	for i, e := range table.Entries {
		l.weights[i] = e.Weight
	}
	return l
}

// Resolve makes the base drop roll and, when it succeeds, a second roll
// across the entry partition. At most one drop is returned.
func (l *LootResolver) Resolve(pos Vec2) []LootDrop {
	if l == nil || l.roll == nil || len(l.weights) == 0 {
		return nil
	}
	if l.roll() >= l.Table.DropChance {
		return nil
	}
	idx := pickCumulative(l.weights, l.roll())
	return []LootDrop{{Key: l.Table.Entries[idx].Pickup, Pos: pos}}
}

// BonusApplies reports whether a guardian kill by src takes the fixed bonus
// instead of the drop table.
func (l *LootResolver) BonusApplies(src DamageSource) bool {
	return l != nil && l.bonus[src] && l.Table.BonusCount > 0
}

// GuardianBonus returns the fixed bonus drops. The first lands on pos, the
// rest are jittered by up to BonusOffset on each axis.
func (l *LootResolver) GuardianBonus(pos Vec2) []LootDrop {
	if l == nil || l.Table.BonusCount <= 0 || l.Table.BonusPickup == "" {
		return nil
	}
	drops := make([]LootDrop, 0, l.Table.BonusCount)
	drops = append(drops, LootDrop{Key: l.Table.BonusPickup, Pos: pos})
	for i := 1; i < l.Table.BonusCount; i++ {
		off := Vec2{
			X: (l.roll()*2 - 1) * l.Table.BonusOffset,
			Y: (l.roll()*2 - 1) * l.Table.BonusOffset,
		}
		drops = append(drops, LootDrop{Key: l.Table.BonusPickup, Pos: pos.Add(off)})
	}
	return drops
}

// spawnPickup places a configured pickup in the world. Unknown keys are
// logged and nothing is created.
func (s *Session) spawnPickup(key string, pos Vec2) (EntityID, error) {
	def, ok := s.Tuning.Pickups[key]
	if !ok {
		err := fmt.Errorf("spawn pickup %q: %w", key, ErrUnknownPickup)
		log.Printf("session %s: %v", s.ID, err)
		return 0, err
	}
	pos = WorldRect().ClampPoint(pos)
	id := s.World.NewEntity()
	s.World.SetComponent(id, compTransform, &Transform{Pos: pos})
	s.World.SetComponent(id, compBody, &Body{Radius: PickupRadius, Solid: true})
	s.World.SetComponent(id, compPickup, &Pickup{Key: key, Def: def})
	s.report.Drops = append(s.report.Drops, PickupSpawned{Entity: id, Key: key, Pos: pos})
	return id, nil
}
