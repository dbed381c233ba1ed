// Package evtc builds the semantic model of a recorded encounter from the
// raw record set: resolved agent identities with their time-scoped instance
// numbers, minion/master links, named skills, and classified events.
package evtc

import (
	"bytes"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/evtcflow/evtcflow/pkg/gamedata"
	"github.com/evtcflow/evtcflow/pkg/raw"
)

// AgentKind is the closed set of agent variants. Exactly one of Player,
// Character or Gadget implements it; consumers switch exhaustively.
type AgentKind interface {
	isAgentKind()
}

// Player is a character controlled by a person. Entities the player spawns
// (pets, clones, banners) are separate Character or Gadget agents.
type Player struct {
	CharacterName string
	// AccountName includes the leading colon and the 4-digit denominator.
	AccountName string
	Subgroup    uint8
	Profession  gamedata.Profession
	// Elite is NoEliteSpec for core builds.
	Elite gamedata.EliteSpec
}

// Character is a non-player entity with a reliable species id: bosses,
// adds, but also player-spawned minions and illusions.
type Character struct {
	Species uint16
	Name    string
}

// Gadget is an object or visual effect without a true identity. Its id is
// generated from gadget parameters, is only meaningful within one log, and
// may collide with unrelated gadgets in other logs.
type Gadget struct {
	PseudoID uint16
	Name     string
}

func (Player) isAgentKind()    {}
func (Character) isAgentKind() {}
func (Gadget) isAgentKind()    {}

// AgentClass is the result of the pure classification rule, before any
// name decoding happens.
type AgentClass uint8

const (
	ClassPlayer AgentClass = iota
	ClassCharacter
	ClassGadget
)

// ClassifyAgent applies the variant disambiguation rule to the packed
// profession/elite pair:
//
//   - elite all-bits-set and the upper 16 profession bits all set: gadget,
//     volatile id in the lower 16 profession bits;
//   - elite all-bits-set otherwise: character, species id in the lower 16
//     profession bits;
//   - anything else: player.
//
// The rule is exhaustive.
func ClassifyAgent(profession, elite uint32) AgentClass {
	if elite != 0xFFFFFFFF {
		return ClassPlayer
	}
	if profession&0xFFFF0000 == 0xFFFF0000 {
		return ClassGadget
	}
	return ClassCharacter
}

// AwareInterval is one half-open interval [First, Last) during which the
// agent held Instance as its instance number.
type AwareInterval struct {
	Instance uint16
	First    uint64
	Last     uint64
}

// Contains reports whether t falls inside the interval.
func (iv AwareInterval) Contains(t uint64) bool {
	return iv.First <= t && t < iv.Last
}

// Agent is one tracked participant. The address is unique for the whole
// log; the instance number is not, and must always be resolved through the
// aware intervals.
type Agent struct {
	Addr          uint64
	Kind          AgentKind
	Toughness     int16
	Concentration int16
	Healing       int16
	Condition     int16

	// Intervals are the agent's aware intervals in chronological order.
	// An agent that leaves and re-enters tracking has several.
	Intervals []AwareInterval

	// MasterAddr is the address of the controlling agent for minions and
	// pets, zero otherwise.
	MasterAddr uint64
}

// FirstAware returns the first event timestamp this agent was seen at, or
// zero if it never appeared in the event stream.
func (a *Agent) FirstAware() uint64 {
	if len(a.Intervals) == 0 {
		return 0
	}
	return a.Intervals[0].First
}

// LastAware returns the timestamp the agent was last seen at.
func (a *Agent) LastAware() uint64 {
	if len(a.Intervals) == 0 {
		return 0
	}
	return a.Intervals[len(a.Intervals)-1].Last
}

// InstanceAt returns the instance number the agent held at time t.
func (a *Agent) InstanceAt(t uint64) (uint16, bool) {
	for _, iv := range a.Intervals {
		if iv.Contains(t) {
			return iv.Instance, true
		}
	}
	return 0, false
}

// HoldsInstanceAt reports whether the agent held the given instance number
// at time t.
func (a *Agent) HoldsInstanceAt(inst uint16, t uint64) bool {
	got, ok := a.InstanceAt(t)
	return ok && got == inst
}

// IsPlayer reports whether the agent is a player.
func (a *Agent) IsPlayer() bool {
	_, ok := a.Kind.(Player)
	return ok
}

// AsCharacter returns the character data, or false for other kinds.
func (a *Agent) AsCharacter() (Character, bool) {
	c, ok := a.Kind.(Character)
	return c, ok
}

// AsPlayer returns the player data, or false for other kinds.
func (a *Agent) AsPlayer() (Player, bool) {
	p, ok := a.Kind.(Player)
	return p, ok
}

// AsGadget returns the gadget data, or false for other kinds.
func (a *Agent) AsGadget() (Gadget, bool) {
	g, ok := a.Kind.(Gadget)
	return g, ok
}

// Name returns the display name of the agent: the character name for
// players, the entity name otherwise.
func (a *Agent) Name() string {
	switch k := a.Kind.(type) {
	case Player:
		return k.CharacterName
	case Character:
		return k.Name
	case Gadget:
		return k.Name
	}
	return ""
}

// agentKindFromRaw builds the kind variant for one raw agent record,
// decoding the packed name buffer. Invalid text truncates to its valid
// prefix and is reported through the returned warning, never as a failure.
func agentKindFromRaw(ra *raw.Agent) (AgentKind, error) {
	switch ClassifyAgent(ra.Profession, ra.Elite) {
	case ClassGadget:
		name, warn := raw.CString(ra.Name[:])
		return Gadget{PseudoID: uint16(ra.Profession), Name: normName(name)}, warn

	case ClassCharacter:
		name, warn := raw.CString(ra.Name[:])
		return Character{Species: uint16(ra.Profession), Name: normName(name)}, warn

	default:
		return playerFromRaw(ra)
	}
}

// playerFromRaw unpacks the three NUL-separated substrings of a player
// name buffer: character name, account name, subgroup literal. Substring
// boundaries come from the NUL terminators, not the decoded text, which
// may be shorter after an invalid-UTF-8 truncation.
func playerFromRaw(ra *raw.Agent) (AgentKind, error) {
	character, warn := raw.CString(ra.Name[:])

	rest := afterNUL(ra.Name[:])
	account, warn2 := raw.CString(rest)
	if warn == nil {
		warn = warn2
	}

	var subgroup uint8
	if lit, _ := raw.CString(afterNUL(rest)); lit != "" {
		if n, err := strconv.ParseUint(lit, 10, 8); err == nil {
			subgroup = uint8(n)
		}
	}

	elite := gamedata.EliteSpec(ra.Elite)

	return Player{
		CharacterName: normName(character),
		AccountName:   normName(account),
		Subgroup:      subgroup,
		Profession:    gamedata.Profession(ra.Profession),
		Elite:         elite,
	}, warn
}

// afterNUL returns the bytes following the first NUL, or nil when no
// terminator remains.
func afterNUL(buf []byte) []byte {
	i := bytes.IndexByte(buf, 0)
	if i < 0 || i+1 >= len(buf) {
		return nil
	}
	return buf[i+1:]
}

// normName NFC-normalizes a decoded name so that the same player compares
// equal across captures produced by differently composed clients.
func normName(s string) string {
	return norm.NFC.String(s)
}
