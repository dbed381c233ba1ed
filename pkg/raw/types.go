// Package raw decodes the EVTC binary combat-log format into an
// un-interpreted record set: header, agent table, skill table and the flat
// event list. It performs no semantic interpretation; that is the job of
// the evtc package.
//
// All numbers in the format are little endian. The recording addon dumps
// its C structs byte for byte, so record sizes include struct padding: an
// agent record is 96 bytes even though only 92 carry data, and both known
// event revisions pad their records to 64 bytes.
package raw

// NameLen is the fixed width of embedded name buffers.
const NameLen = 64

// StateChange discriminates the state-change payload of an event.
type StateChange uint8

const (
	StateNone StateChange = iota
	StateEnterCombat
	StateExitCombat
	StateChangeUp
	StateChangeDead
	StateChangeDown
	StateSpawn
	StateDespawn
	StateHealthUpdate
	StateLogStart
	StateLogEnd
	StateWeaponSwap
	StateMaxHealthUpdate
	StatePointOfView
	StateLanguage
	StateGameBuild
	StateShardID
	StateReward
	StateBuffInitial
	StatePosition
	StateVelocity
	StateFacing
	StateTeamChange
	StateAttackTarget
	StateTargetable
	StateMapID
	StateReplInfo
	StateStackActive
	StateStackReset
	StateGuild
	StateBuffInfo
	StateBuffFormula
	StateSkillInfo
	StateSkillTiming
)

// Known reports whether this decoder recognizes the state-change code.
// Unknown codes are not an error; the event classifies as Unknown downstream.
func (s StateChange) Known() bool {
	return s <= StateSkillTiming
}

// Activation discriminates skill activation events.
type Activation uint8

const (
	ActivationNone Activation = iota
	ActivationNormal
	ActivationQuickness
	ActivationCancelFire
	ActivationCancelCancel
	ActivationReset
)

func (a Activation) Known() bool {
	return a <= ActivationReset
}

// BuffRemove discriminates buff removal events.
type BuffRemove uint8

const (
	RemoveNone BuffRemove = iota
	RemoveAll
	RemoveSingle
	RemoveManual
)

func (b BuffRemove) Known() bool {
	return b <= RemoveManual
}

// Result is the outcome code of a physical hit.
type Result uint8

const (
	ResultNormal Result = iota
	ResultCritical
	ResultGlance
	ResultBlock
	ResultEvade
	ResultInterrupt
	ResultAbsorb
	ResultBlind
	ResultKillingBlow
	ResultDowned
)

func (r Result) String() string {
	names := []string{
		"normal", "critical", "glance", "block", "evade",
		"interrupt", "absorb", "blind", "killing-blow", "downed",
	}
	if int(r) < len(names) {
		return names[r]
	}
	return "unknown"
}

// IFF is the friend-or-foe code attached to combat events.
type IFF uint8

const (
	IFFFriend IFF = iota
	IFFFoe
	IFFUnknown
)

// Header holds the decoded file header.
type Header struct {
	// BuildDate is the date-coded version tag of the recording addon, yyyymmdd.
	BuildDate string
	// Revision selects the event record layout.
	Revision uint8
	// EncounterID is the content/area identifier of the recorded fight.
	EncounterID uint16
}

// Agent is one record of the agent table, as stored on disk.
type Agent struct {
	Addr          uint64
	Profession    uint32
	Elite         uint32
	Toughness     int16
	Concentration int16
	Healing       int16
	Condition     int16
	// Name is the raw NUL-terminated name buffer. For players it packs
	// three NUL-separated substrings: character name, account name and
	// the subgroup literal.
	Name [NameLen]byte
}

// Skill is one record of the skill table.
type Skill struct {
	ID   int32
	Name [NameLen]byte
}

// Event is one combat event record. It unifies the revision 0 and
// revision 1 layouts; fields absent from revision 0 are zero.
type Event struct {
	Time              uint64
	SrcAgent          uint64
	DstAgent          uint64
	Value             int32
	BuffDamage        int32
	OverstackValue    uint32
	SkillID           uint32
	SrcInstance       uint16
	DstInstance       uint16
	SrcMasterInstance uint16
	DstMasterInstance uint16
	IFF               IFF
	Buff              uint8
	Result            Result
	Activation        Activation
	BuffRemove        BuffRemove
	HighHealth        bool
	LowHealth         bool
	Moving            bool
	StateChange       StateChange
	Flanking          bool
	Shields           bool
	OffCycle          bool
}

// LogData is a completely decoded raw capture.
type LogData struct {
	Header Header
	Agents []Agent
	Skills []Skill
	Events []Event

	// Warnings collects the non-fatal conditions absorbed during decoding,
	// each wrapping ErrUnsupportedRevision or ErrInvalidText.
	Warnings []error
}
