package evtc

import (
	"github.com/evtcflow/evtcflow/pkg/raw"
)

// Event is one classified log event. Agent references inside the kind are
// addresses, already resolved from the wire-level instance numbers.
type Event struct {
	// Time is the capture-local timestamp in milliseconds.
	Time uint64
	Kind EventKind

	// Hit qualifiers recorded alongside damage events.
	HighHealth bool
	LowHealth  bool
	Moving     bool
	Flanking   bool
	Shields    bool
}

// EventKind is the closed set of event payloads. Unrecognized events decode
// to Unknown rather than being dropped, so analyzers see the full stream.
type EventKind interface {
	isEventKind()
}

// WeaponSet identifies the active weapon slot pair after a swap.
type WeaponSet uint8

const (
	WeaponSetWater1 WeaponSet = 0
	WeaponSetWater2 WeaponSet = 1
	WeaponSetLand1  WeaponSet = 4
	WeaponSetLand2  WeaponSet = 5
)

func (w WeaponSet) String() string {
	switch w {
	case WeaponSetWater1:
		return "water-1"
	case WeaponSetWater2:
		return "water-2"
	case WeaponSetLand1:
		return "land-1"
	case WeaponSetLand2:
		return "land-2"
	}
	return "unknown"
}

// State transitions of a single agent.
type (
	// EnterCombat marks an agent entering combat in the given subgroup.
	EnterCombat struct {
		Agent    uint64
		Subgroup uint64
	}
	// ExitCombat marks an agent leaving combat.
	ExitCombat struct{ Agent uint64 }
	// ChangeUp marks an agent getting back to full capability.
	ChangeUp struct{ Agent uint64 }
	// ChangeDown marks an agent entering the downed state.
	ChangeDown struct{ Agent uint64 }
	// ChangeDead marks an agent dying.
	ChangeDead struct{ Agent uint64 }
	// Spawn marks an agent becoming tracked.
	Spawn struct{ Agent uint64 }
	// Despawn marks an agent leaving tracking range.
	Despawn struct{ Agent uint64 }
)

// HealthUpdate carries a periodic health report for an agent. Health is a
// fraction in [0, 1].
type HealthUpdate struct {
	Agent  uint64
	Health float64
}

// MaxHealthUpdate reports a change of an agent's maximum health.
type MaxHealthUpdate struct {
	Agent     uint64
	MaxHealth uint64
}

// LogStart marks the start of the capture.
type LogStart struct {
	ServerTime uint32
	LocalTime  uint32
}

// LogEnd marks an orderly end of the capture. Truncated captures lack it.
type LogEnd struct {
	ServerTime uint32
	LocalTime  uint32
}

// WeaponSwap reports an agent switching weapon sets.
type WeaponSwap struct {
	Agent uint64
	Set   WeaponSet
}

// PointOfView identifies the agent that recorded the log.
type PointOfView struct{ Agent uint64 }

// Language reports the client language code of the recorder.
type Language struct{ Code uint64 }

// GameBuild reports the game build the log was recorded on.
type GameBuild struct{ Build uint64 }

// ShardID reports the shard the encounter ran on.
type ShardID struct{ Shard uint64 }

// Reward marks the squad earning an encounter reward. Its presence is a
// reliable success signal for reward-granting encounters.
type Reward struct {
	ID   uint64
	Type int32
}

// Position reports an agent's 3D position.
type Position struct {
	Agent   uint64
	X, Y, Z float32
}

// Velocity reports an agent's 3D velocity.
type Velocity struct {
	Agent   uint64
	X, Y, Z float32
}

// Facing reports an agent's 2D facing direction.
type Facing struct {
	Agent uint64
	X, Y  float32
}

// TeamChange reports an agent switching teams.
type TeamChange struct {
	Agent uint64
	Team  uint64
}

// AttackTarget links a targetable attack-target agent to its parent gadget.
type AttackTarget struct {
	Agent      uint64
	Parent     uint64
	Targetable bool
}

// Targetable reports a change of an agent's targetable state.
type Targetable struct {
	Agent      uint64
	Targetable bool
}

// MapID reports the map the encounter took place on.
type MapID struct{ Map uint64 }

// Guild reports the guild a player represents, as the API guild id string.
type Guild struct {
	Agent uint64
	// API is the guild id in 8-4-4-4-12 form, as used by the game API.
	API string
}

// Unknown preserves an event whose state-change code this package does not
// model, including codes newer than the decoder. The raw record is retained
// so callers can still inspect it.
type Unknown struct {
	Code raw.StateChange
	Raw  raw.Event
}

// SkillUse reports a skill activation.
type SkillUse struct {
	Agent      uint64
	Skill      uint32
	Activation raw.Activation
	// Duration is the expected or actual animation time in milliseconds.
	// It is zero for activation resets.
	Duration int32
}

// BuffRemove reports stacks of a buff being stripped from an agent.
type BuffRemove struct {
	Source uint64
	Target uint64
	Buff   uint32
	// TotalDuration is the removed duration across all stacks.
	TotalDuration int32
	// LongestStack is the duration of the longest removed stack.
	LongestStack int32
	Removal      raw.BuffRemove
}

// BuffApply reports a buff being applied to an agent.
type BuffApply struct {
	Source   uint64
	Target   uint64
	Buff     uint32
	Duration int32
	// Overstack is the duration wasted by exceeding the stack limit.
	Overstack uint32
}

// ConditionTick reports periodic damage from a damaging buff.
type ConditionTick struct {
	Source uint64
	Target uint64
	Buff   uint32
	Damage int32
}

// InvulnTick reports a damaging buff tick that was absorbed.
type InvulnTick struct {
	Source uint64
	Target uint64
	Buff   uint32
}

// Physical reports a direct strike.
type Physical struct {
	Source uint64
	Target uint64
	Skill  uint32
	Damage int32
	Result raw.Result
}

func (EnterCombat) isEventKind()     {}
func (ExitCombat) isEventKind()      {}
func (ChangeUp) isEventKind()        {}
func (ChangeDown) isEventKind()      {}
func (ChangeDead) isEventKind()      {}
func (Spawn) isEventKind()           {}
func (Despawn) isEventKind()         {}
func (HealthUpdate) isEventKind()    {}
func (MaxHealthUpdate) isEventKind() {}
func (LogStart) isEventKind()        {}
func (LogEnd) isEventKind()          {}
func (WeaponSwap) isEventKind()      {}
func (PointOfView) isEventKind()     {}
func (Language) isEventKind()        {}
func (GameBuild) isEventKind()       {}
func (ShardID) isEventKind()         {}
func (Reward) isEventKind()          {}
func (Position) isEventKind()        {}
func (Velocity) isEventKind()        {}
func (Facing) isEventKind()          {}
func (TeamChange) isEventKind()      {}
func (AttackTarget) isEventKind()    {}
func (Targetable) isEventKind()      {}
func (MapID) isEventKind()           {}
func (Guild) isEventKind()           {}
func (Unknown) isEventKind()         {}
func (SkillUse) isEventKind()        {}
func (BuffRemove) isEventKind()      {}
func (BuffApply) isEventKind()       {}
func (ConditionTick) isEventKind()   {}
func (InvulnTick) isEventKind()      {}
func (Physical) isEventKind()        {}
