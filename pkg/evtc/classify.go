package evtc

import (
	"encoding/binary"
	"math"

	"github.com/evtcflow/evtcflow/pkg/raw"
)

// classifyEvent turns one raw event record into its semantic form. The
// discriminators are checked in a fixed order: a non-zero state-change code
// wins over everything, then activation, then buff removal, then the buff
// flag, and a plain record is a physical hit. No record is dropped; whatever
// falls through classifies as Unknown.
func classifyEvent(re *raw.Event) Event {
	ev := Event{
		Time:       re.Time,
		Kind:       classifyKind(re),
		HighHealth: re.HighHealth,
		LowHealth:  re.LowHealth,
		Moving:     re.Moving,
		Flanking:   re.Flanking,
		Shields:    re.Shields,
	}
	return ev
}

func classifyKind(re *raw.Event) EventKind {
	if re.StateChange != raw.StateNone {
		return classifyStateChange(re)
	}
	if re.Activation != raw.ActivationNone && re.Activation.Known() {
		duration := re.Value
		if re.Activation == raw.ActivationReset {
			duration = 0
		}
		return SkillUse{
			Agent:      re.SrcAgent,
			Skill:      re.SkillID,
			Activation: re.Activation,
			Duration:   duration,
		}
	}
	if re.BuffRemove != raw.RemoveNone && re.BuffRemove.Known() {
		return BuffRemove{
			Source:        re.SrcAgent,
			Target:        re.DstAgent,
			Buff:          re.SkillID,
			TotalDuration: re.Value,
			LongestStack:  re.BuffDamage,
			Removal:       re.BuffRemove,
		}
	}
	return classifyDamage(re)
}

func classifyDamage(re *raw.Event) EventKind {
	switch {
	case re.Buff == 0 && re.IFF == raw.IFFFoe && re.DstAgent != 0:
		return Physical{
			Source: re.SrcAgent,
			Target: re.DstAgent,
			Skill:  re.SkillID,
			Damage: re.Value,
			Result: re.Result,
		}
	case re.Buff == 1 && re.BuffDamage != 0 && re.DstAgent != 0 && re.Value == 0:
		return ConditionTick{
			Source: re.SrcAgent,
			Target: re.DstAgent,
			Buff:   re.SkillID,
			Damage: re.BuffDamage,
		}
	case re.Buff == 1 && re.BuffDamage == 0 && re.Value != 0:
		return BuffApply{
			Source:    re.SrcAgent,
			Target:    re.DstAgent,
			Buff:      re.SkillID,
			Duration:  re.Value,
			Overstack: re.OverstackValue,
		}
	case re.Buff == 1 && re.BuffDamage == 0 && re.Value == 0:
		return InvulnTick{
			Source: re.SrcAgent,
			Target: re.DstAgent,
			Buff:   re.SkillID,
		}
	}
	return Unknown{Code: raw.StateNone, Raw: *re}
}

func classifyStateChange(re *raw.Event) EventKind {
	switch re.StateChange {
	case raw.StateEnterCombat:
		return EnterCombat{Agent: re.SrcAgent, Subgroup: re.DstAgent}
	case raw.StateExitCombat:
		return ExitCombat{Agent: re.SrcAgent}
	case raw.StateChangeUp:
		return ChangeUp{Agent: re.SrcAgent}
	case raw.StateChangeDead:
		return ChangeDead{Agent: re.SrcAgent}
	case raw.StateChangeDown:
		return ChangeDown{Agent: re.SrcAgent}
	case raw.StateSpawn:
		return Spawn{Agent: re.SrcAgent}
	case raw.StateDespawn:
		return Despawn{Agent: re.SrcAgent}
	case raw.StateHealthUpdate:
		// Health arrives as percent times one hundred.
		return HealthUpdate{Agent: re.SrcAgent, Health: float64(uint16(re.DstAgent)) / 10000}
	case raw.StateLogStart:
		return LogStart{ServerTime: uint32(re.Value), LocalTime: uint32(re.BuffDamage)}
	case raw.StateLogEnd:
		return LogEnd{ServerTime: uint32(re.Value), LocalTime: uint32(re.BuffDamage)}
	case raw.StateWeaponSwap:
		return WeaponSwap{Agent: re.SrcAgent, Set: WeaponSet(re.DstAgent)}
	case raw.StateMaxHealthUpdate:
		return MaxHealthUpdate{Agent: re.SrcAgent, MaxHealth: re.DstAgent}
	case raw.StatePointOfView:
		return PointOfView{Agent: re.SrcAgent}
	case raw.StateLanguage:
		return Language{Code: re.SrcAgent}
	case raw.StateGameBuild:
		return GameBuild{Build: re.SrcAgent}
	case raw.StateShardID:
		return ShardID{Shard: re.SrcAgent}
	case raw.StateReward:
		return Reward{ID: re.DstAgent, Type: re.Value}
	case raw.StatePosition:
		return Position{
			Agent: re.SrcAgent,
			X:     math.Float32frombits(uint32(re.DstAgent >> 32)),
			Y:     math.Float32frombits(uint32(re.DstAgent)),
			Z:     math.Float32frombits(uint32(re.Value)),
		}
	case raw.StateVelocity:
		return Velocity{
			Agent: re.SrcAgent,
			X:     math.Float32frombits(uint32(re.DstAgent >> 32)),
			Y:     math.Float32frombits(uint32(re.DstAgent)),
			Z:     math.Float32frombits(uint32(re.Value)),
		}
	case raw.StateFacing:
		return Facing{
			Agent: re.SrcAgent,
			X:     math.Float32frombits(uint32(re.DstAgent >> 32)),
			Y:     math.Float32frombits(uint32(re.DstAgent)),
		}
	case raw.StateTeamChange:
		return TeamChange{Agent: re.SrcAgent, Team: re.DstAgent}
	case raw.StateAttackTarget:
		return AttackTarget{
			Agent:      re.SrcAgent,
			Parent:     re.DstAgent,
			Targetable: re.Value != 0,
		}
	case raw.StateTargetable:
		return Targetable{Agent: re.SrcAgent, Targetable: re.DstAgent != 0}
	case raw.StateMapID:
		return MapID{Map: re.SrcAgent}
	case raw.StateGuild:
		return Guild{Agent: re.SrcAgent, API: apiGuildID(re)}
	}
	// Arc-internal bookkeeping codes and codes newer than this decoder.
	return Unknown{Code: re.StateChange, Raw: *re}
}

// apiGuildID rearranges the client-form guild id bytes into the 8-4-4-4-12
// string the game API uses. An all-zero id yields the empty string.
func apiGuildID(re *raw.Event) string {
	var id [16]byte
	binary.BigEndian.PutUint64(id[0:8], re.DstAgent)
	binary.BigEndian.PutUint32(id[8:12], uint32(re.Value))
	binary.BigEndian.PutUint32(id[12:16], uint32(re.BuffDamage))
	if id == [16]byte{} {
		return ""
	}
	groups := [][]int{
		{4, 5, 6, 7},
		{2, 3},
		{0, 1},
		{11, 10},
		{9, 8, 15, 14, 13, 12},
	}
	var b []byte
	for i, g := range groups {
		if i > 0 {
			b = append(b, '-')
		}
		for _, idx := range g {
			const hex = "0123456789ABCDEF"
			b = append(b, hex[id[idx]>>4], hex[id[idx]&0xF])
		}
	}
	return string(b)
}
