package game

import "sort"

type EntityID int64

type ComponentKey string

type World struct {
	nextEntity EntityID
	components map[ComponentKey]map[EntityID]any
}

type Transform struct {
	Pos Vec2
	Vel Vec2
}

// Body is the circular collision shape. Solid is cleared when an entity
// stops taking part in contacts (death, capture).
type Body struct {
	Radius float64
	Solid  bool
}

// Faction decides which side a projectile hurts.
type Faction uint8

const (
	FactionPlayer Faction = iota + 1
	FactionEnemy
)

type Projectile struct {
	Faction      Faction
	Damage       int
	Source       DamageSource
	ExpiresAt    float64
	SplashDamage int
	SplashRadius float64
}

type Pickup struct {
	Key string
	Def PickupDef
}

const (
	compTransform  ComponentKey = "transform"
	compBody       ComponentKey = "body"
	compEnemy      ComponentKey = "enemy"
	compObjective  ComponentKey = "objective"
	compPickup     ComponentKey = "pickup"
	compProjectile ComponentKey = "projectile"
	compPlayer     ComponentKey = "player"
)

func newWorld() *World {
	return &World{components: make(map[ComponentKey]map[EntityID]any)}
}

func (w *World) Transform(id EntityID) *Transform {
	if v, ok := w.GetComponent(id, compTransform); ok {
		if t, ok := v.(*Transform); ok {
			return t
		}
	}
	return nil
}

func (w *World) Body(id EntityID) *Body {
	if v, ok := w.GetComponent(id, compBody); ok {
		if b, ok := v.(*Body); ok {
			return b
		}
	}
	return nil
}

func (w *World) Enemy(id EntityID) *Enemy {
	if v, ok := w.GetComponent(id, compEnemy); ok {
		if e, ok := v.(*Enemy); ok {
			return e
		}
	}
	return nil
}

func (w *World) Objective(id EntityID) *Objective {
	if v, ok := w.GetComponent(id, compObjective); ok {
		if o, ok := v.(*Objective); ok {
			return o
		}
	}
	return nil
}

func (w *World) Pickup(id EntityID) *Pickup {
	if v, ok := w.GetComponent(id, compPickup); ok {
		if p, ok := v.(*Pickup); ok {
			return p
		}
	}
	return nil
}

func (w *World) Projectile(id EntityID) *Projectile {
	if v, ok := w.GetComponent(id, compProjectile); ok {
		if p, ok := v.(*Projectile); ok {
			return p
		}
	}
	return nil
}

func (w *World) PlayerState(id EntityID) *PlayerState {
	if v, ok := w.GetComponent(id, compPlayer); ok {
		if p, ok := v.(*PlayerState); ok {
			return p
		}
	}
	return nil
}

func (w *World) NewEntity() EntityID {
	w.nextEntity++
	return w.nextEntity
}

func (w *World) SetComponent(id EntityID, key ComponentKey, value any) {
	store, ok := w.components[key]
	if !ok {
		store = make(map[EntityID]any)
		w.components[key] = store
	}
	store[id] = value
}

func (w *World) RemoveComponent(id EntityID, key ComponentKey) {
	if store, ok := w.components[key]; ok {
		delete(store, id)
	}
}

func (w *World) GetComponent(id EntityID, key ComponentKey) (any, bool) {
	if store, ok := w.components[key]; ok {
		val, ok := store[id]
		return val, ok
	}
	return nil, false
}

func (w *World) HasComponent(id EntityID, key ComponentKey) bool {
	if store, ok := w.components[key]; ok {
		_, ok := store[id]
		return ok
	}
	return false
}

func (w *World) RemoveEntity(id EntityID) {
	for _, store := range w.components {
		delete(store, id)
	}
}

// ForEach visits every entity carrying all required components in ascending
// id order, which is registration order. The id set is captured before the
// first call so fn may add or remove entities.
func (w *World) ForEach(required []ComponentKey, fn func(EntityID)) {
	for _, id := range w.Query(required...) {
		fn(id)
	}
}

// Query returns the sorted ids carrying all required components.
func (w *World) Query(required ...ComponentKey) []EntityID {
	if len(required) == 0 {
		return nil
	}
	first := w.components[required[0]]
	if len(first) == 0 {
		return nil
	}
	ids := make([]EntityID, 0, len(first))
	for id := range first {
		match := true
		for _, key := range required[1:] {
			if store := w.components[key]; store == nil {
				match = false
				break
			} else if _, ok := store[id]; !ok {
				match = false
				break
			}
		}
		if match {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (w *World) Exists(id EntityID) bool {
	for _, store := range w.components {
		if _, ok := store[id]; ok {
			return true
		}
	}
	return false
}
