package server

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Binary frames carry the same fields as the JSON frames, encoded as a
// google.protobuf.Struct.

func playerToProto(p playerDTO) map[string]any {
	buffs := map[string]any{}
	for name, ms := range p.Buffs {
		buffs[name] = ms
	}
	return map[string]any{
		"x":            p.X,
		"y":            p.Y,
		"hp":           p.HP,
		"max_hp":       p.MaxHP,
		"ammo":         p.Ammo,
		"rpg_ammo":     p.RPGAmmo,
		"invulnerable": p.Invulnerable,
		"buffs":        buffs,
	}
}

func enemyToProto(e enemyDTO) map[string]any {
	return map[string]any{
		"id":       e.ID,
		"kind":     e.Kind,
		"state":    e.State,
		"x":        e.X,
		"y":        e.Y,
		"hp":       e.HP,
		"max_hp":   e.MaxHP,
		"anim":     e.Anim,
		"flashing": e.Flashing,
	}
}

func projectileToProto(p projectileDTO) map[string]any {
	return map[string]any{
		"id":    p.ID,
		"x":     p.X,
		"y":     p.Y,
		"vx":    p.VX,
		"vy":    p.VY,
		"owner": p.Owner,
		"heavy": p.Heavy,
	}
}

func pickupToProto(p pickupDTO) map[string]any {
	return map[string]any{"id": p.ID, "key": p.Key, "x": p.X, "y": p.Y}
}

func eventsToProto(ev *eventsDTO) map[string]any {
	damage := make([]any, 0, len(ev.Damage))
	for _, d := range ev.Damage {
		damage = append(damage, map[string]any{"amount": d.Amount, "hp": d.HP, "source": d.Source})
	}
	deaths := make([]any, 0, len(ev.Deaths))
	for _, d := range ev.Deaths {
		deaths = append(deaths, map[string]any{
			"id": d.ID, "kind": d.Kind, "score": d.Score, "x": d.X, "y": d.Y, "source": d.Source,
		})
	}
	drops := make([]any, 0, len(ev.Drops))
	for _, d := range ev.Drops {
		drops = append(drops, pickupToProto(d))
	}
	objective := make([]any, 0, len(ev.Objective))
	for _, o := range ev.Objective {
		objective = append(objective, map[string]any{"id": o.ID, "state": o.State, "score": o.Score})
	}
	return map[string]any{
		"damage":    damage,
		"deaths":    deaths,
		"drops":     drops,
		"collected": stringsToAny(ev.Collected),
		"objective": objective,
		"cues":      stringsToAny(ev.Cues),
	}
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func stateToProto(msg stateMsg) (*structpb.Struct, error) {
	enemies := make([]any, 0, len(msg.Enemies))
	for _, e := range msg.Enemies {
		enemies = append(enemies, enemyToProto(e))
	}
	projectiles := make([]any, 0, len(msg.Projectiles))
	for _, p := range msg.Projectiles {
		projectiles = append(projectiles, projectileToProto(p))
	}
	pickups := make([]any, 0, len(msg.Pickups))
	for _, p := range msg.Pickups {
		pickups = append(pickups, pickupToProto(p))
	}
	fields := map[string]any{
		"type":        msg.Type,
		"session":     msg.Session,
		"tick":        msg.Tick,
		"now":         msg.Now,
		"score":       msg.Score,
		"paused":      msg.Paused,
		"meta":        map[string]any{"w": msg.Meta.W, "h": msg.Meta.H},
		"me":          playerToProto(msg.Me),
		"enemies":     enemies,
		"projectiles": projectiles,
		"pickups":     pickups,
		"difficulty": map[string]any{
			"max_enemies":       msg.Difficulty.MaxEnemies,
			"spawn_interval_ms": msg.Difficulty.SpawnIntervalMs,
			"steps":             msg.Difficulty.Steps,
		},
		"context": map[string]any{
			"initials": msg.Context.Initials,
			"sfx":      msg.Context.SFX,
			"music":    msg.Context.Music,
		},
	}
	if o := msg.Objective; o != nil {
		fields["objective"] = map[string]any{"id": o.ID, "state": o.State, "x": o.X, "y": o.Y, "guardian": o.Guardian}
	}
	if msg.Events != nil {
		fields["events"] = eventsToProto(msg.Events)
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("state to struct: %w", err)
	}
	return st, nil
}

func gameOverToProto(msg gameOverMsg) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"type":   msg.Type,
		"score":  msg.Score,
		"status": msg.Status,
		"final":  msg.Final,
	})
}

func encodeProto(st *structpb.Struct) ([]byte, error) {
	data, err := proto.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}
	return data, nil
}
