package evtc

import (
	"github.com/evtcflow/evtcflow/pkg/gamedata"
)

// Skill is one entry of the log's skill name table.
type Skill struct {
	ID   int32
	Name string
}

// Log is a fully built semantic log. It is immutable after Build returns;
// accessor slices must not be modified by the caller.
type Log struct {
	agents      []Agent
	skills      []Skill
	events      []Event
	encounterID uint16
	buildDate   string
	revision    uint8
	warnings    []error
}

// Agents returns all tracked agents, sorted by address.
func (l *Log) Agents() []Agent { return l.agents }

// Events returns all classified events in capture order.
func (l *Log) Events() []Event { return l.events }

// Skills returns the skill name table.
func (l *Log) Skills() []Skill { return l.skills }

// BuildDate returns the recorder's date-coded version tag.
func (l *Log) BuildDate() string { return l.buildDate }

// Revision returns the event layout revision the capture used.
func (l *Log) Revision() uint8 { return l.revision }

// Warnings returns the non-fatal conditions absorbed while decoding and
// building, empty for a clean capture.
func (l *Log) Warnings() []error { return l.warnings }

// AgentByAddr returns the agent with the given address, or nil.
func (l *Log) AgentByAddr(addr uint64) *Agent {
	return agentByAddr(l.agents, addr)
}

// SkillName returns the name recorded for a skill id, or the empty string.
func (l *Log) SkillName(id int32) string {
	for i := range l.skills {
		if l.skills[i].ID == id {
			return l.skills[i].Name
		}
	}
	return ""
}

// Players returns all player agents.
func (l *Log) Players() []*Agent {
	var out []*Agent
	for i := range l.agents {
		if l.agents[i].IsPlayer() {
			out = append(out, &l.agents[i])
		}
	}
	return out
}

// Characters returns all non-player character agents.
func (l *Log) Characters() []*Agent {
	var out []*Agent
	for i := range l.agents {
		if _, ok := l.agents[i].Kind.(Character); ok {
			out = append(out, &l.agents[i])
		}
	}
	return out
}

// Gadgets returns all gadget agents.
func (l *Log) Gadgets() []*Agent {
	var out []*Agent
	for i := range l.agents {
		if _, ok := l.agents[i].Kind.(Gadget); ok {
			out = append(out, &l.agents[i])
		}
	}
	return out
}

// CharactersBySpecies returns all character agents with the given species.
func (l *Log) CharactersBySpecies(species uint16) []*Agent {
	var out []*Agent
	for i := range l.agents {
		if c, ok := l.agents[i].Kind.(Character); ok && c.Species == species {
			out = append(out, &l.agents[i])
		}
	}
	return out
}

// PointOfView returns the agent that recorded the log, or nil if the
// capture carries no point-of-view marker.
func (l *Log) PointOfView() *Agent {
	for i := range l.events {
		if pov, ok := l.events[i].Kind.(PointOfView); ok {
			return l.AgentByAddr(pov.Agent)
		}
	}
	return nil
}

// EncounterID returns the raw content id from the file header.
func (l *Log) EncounterID() uint16 { return l.encounterID }

// Encounter returns the encounter this log belongs to, or false if the
// header id maps to no known encounter.
func (l *Log) Encounter() (gamedata.Encounter, bool) {
	return gamedata.EncounterByID(l.encounterID)
}

// IsBoss reports whether the given address belongs to one of the
// encounter's boss agents.
func (l *Log) IsBoss(addr uint64) bool {
	agent := l.AgentByAddr(addr)
	if agent == nil {
		return false
	}
	c, ok := agent.Kind.(Character)
	if !ok {
		return false
	}
	enc, ok := l.Encounter()
	if !ok {
		return false
	}
	for _, b := range enc.Bosses() {
		if uint16(b) == c.Species {
			return true
		}
	}
	return false
}

// BossAgents returns the boss agents of the encounter. Encounters with
// split boss identities, like the twin largos, have more than one.
func (l *Log) BossAgents() []*Agent {
	enc, ok := l.Encounter()
	if !ok {
		return nil
	}
	var out []*Agent
	for _, b := range enc.Bosses() {
		out = append(out, l.CharactersBySpecies(uint16(b))...)
	}
	return out
}

// WasRewarded reports whether the capture contains a reward event. The
// reward is granted server-side on success, but only the first clear of a
// reward period, so its absence proves nothing.
func (l *Log) WasRewarded() bool {
	for i := range l.events {
		if _, ok := l.events[i].Kind.(Reward); ok {
			return true
		}
	}
	return false
}

// HasLogEnd reports whether the capture ended in an orderly fashion. A
// missing end marker means the capture may be truncated mid-fight.
func (l *Log) HasLogEnd() bool {
	for i := range l.events {
		if _, ok := l.events[i].Kind.(LogEnd); ok {
			return true
		}
	}
	return false
}

// Span returns the timestamps of the first and last event. A log without
// events spans zero to zero.
func (l *Log) Span() (first, last uint64) {
	if len(l.events) == 0 {
		return 0, 0
	}
	return l.events[0].Time, l.events[len(l.events)-1].Time
}
