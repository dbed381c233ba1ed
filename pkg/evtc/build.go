package evtc

import (
	"errors"
	"fmt"
	"sort"

	"github.com/evtcflow/evtcflow/pkg/raw"
)

// ErrInconsistentInstances is returned when two different agents hold the
// same instance number at overlapping times. A capture like that cannot be
// resolved, since minion ownership hangs off the instance lookup.
var ErrInconsistentInstances = errors.New("evtc: inconsistent instance assignment")

// Build turns a decoded capture into a semantic log. The work happens in
// four passes over the data:
//
//  1. seed one Agent per agent-table record, sorted by address;
//  2. derive each agent's aware intervals from the events it sourced;
//  3. resolve minion masters through the interval-scoped instance lookup;
//  4. classify every event record.
//
// Decoder warnings carry over into the log, joined by any name-decoding
// warnings from pass 1.
func Build(data *raw.LogData) (*Log, error) {
	agents, warnings := seedAgents(data)
	warnings = append(warnings, data.Warnings...)

	collectAwareIntervals(data, agents)
	if err := checkInstanceConsistency(agents); err != nil {
		return nil, err
	}
	resolveMasters(data, agents)

	events := make([]Event, len(data.Events))
	for i := range data.Events {
		events[i] = classifyEvent(&data.Events[i])
	}

	skills := make([]Skill, len(data.Skills))
	for i := range data.Skills {
		name, warn := raw.CString(data.Skills[i].Name[:])
		if warn != nil {
			warnings = append(warnings, warn)
		}
		skills[i] = Skill{ID: data.Skills[i].ID, Name: name}
	}

	return &Log{
		agents:      agents,
		skills:      skills,
		events:      events,
		encounterID: data.Header.EncounterID,
		buildDate:   data.Header.BuildDate,
		revision:    data.Header.Revision,
		warnings:    warnings,
	}, nil
}

func seedAgents(data *raw.LogData) ([]Agent, []error) {
	var warnings []error
	agents := make([]Agent, len(data.Agents))
	for i := range data.Agents {
		ra := &data.Agents[i]
		kind, warn := agentKindFromRaw(ra)
		if warn != nil {
			warnings = append(warnings, warn)
		}
		agents[i] = Agent{
			Addr:          ra.Addr,
			Kind:          kind,
			Toughness:     ra.Toughness,
			Concentration: ra.Concentration,
			Healing:       ra.Healing,
			Condition:     ra.Condition,
		}
	}
	// Sorted by address so lookups can binary search. The table order
	// carries no meaning.
	sort.Slice(agents, func(i, j int) bool { return agents[i].Addr < agents[j].Addr })
	return agents, warnings
}

func agentByAddr(agents []Agent, addr uint64) *Agent {
	i := sort.Search(len(agents), func(i int) bool { return agents[i].Addr >= addr })
	if i < len(agents) && agents[i].Addr == addr {
		return &agents[i]
	}
	return nil
}

// collectAwareIntervals walks the event stream and records, per agent, the
// half-open time intervals during which it held each instance number. Only
// ordinary combat events carry a usable source instance; state changes are
// skipped, matching how the recorder assigns the field.
func collectAwareIntervals(data *raw.LogData, agents []Agent) {
	for i := range data.Events {
		ev := &data.Events[i]
		if ev.StateChange != raw.StateNone {
			continue
		}
		agent := agentByAddr(agents, ev.SrcAgent)
		if agent == nil {
			continue
		}
		n := len(agent.Intervals)
		if n > 0 && agent.Intervals[n-1].Instance == ev.SrcInstance {
			if ev.Time+1 > agent.Intervals[n-1].Last {
				agent.Intervals[n-1].Last = ev.Time + 1
			}
			continue
		}
		agent.Intervals = append(agent.Intervals, AwareInterval{
			Instance: ev.SrcInstance,
			First:    ev.Time,
			Last:     ev.Time + 1,
		})
	}
}

// checkInstanceConsistency verifies that an instance number maps to at most
// one agent at any instant. Reused numbers are fine as long as the reuses
// do not overlap in time.
func checkInstanceConsistency(agents []Agent) error {
	type claim struct {
		addr        uint64
		first, last uint64
	}
	claims := make(map[uint16][]claim)
	for i := range agents {
		for _, iv := range agents[i].Intervals {
			claims[iv.Instance] = append(claims[iv.Instance], claim{
				addr:  agents[i].Addr,
				first: iv.First,
				last:  iv.Last,
			})
		}
	}
	for inst, cs := range claims {
		sort.Slice(cs, func(i, j int) bool { return cs[i].first < cs[j].first })
		for i := 1; i < len(cs); i++ {
			prev, cur := cs[i-1], cs[i]
			if cur.addr != prev.addr && cur.first < prev.last {
				return fmt.Errorf("%w: instance %d claimed by agents %x and %x at time %d",
					ErrInconsistentInstances, inst, prev.addr, cur.addr, cur.first)
			}
		}
	}
	return nil
}

// resolveMasters links minions to their controlling agent. The master is
// referenced by instance number, so the lookup has to be scoped to the
// event's timestamp.
func resolveMasters(data *raw.LogData, agents []Agent) {
	for i := range data.Events {
		ev := &data.Events[i]
		if ev.SrcMasterInstance == 0 {
			continue
		}
		var masterAddr uint64
		for j := range agents {
			if agents[j].Addr != ev.SrcAgent && agents[j].HoldsInstanceAt(ev.SrcMasterInstance, ev.Time) {
				masterAddr = agents[j].Addr
				break
			}
		}
		if masterAddr == 0 {
			continue
		}
		if minion := agentByAddr(agents, ev.SrcAgent); minion != nil {
			minion.MasterAddr = masterAddr
		}
	}
}
