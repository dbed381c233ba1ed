package analyzer

import (
	"github.com/evtcflow/evtcflow/pkg/evtc"
)

// bossMaxHealth returns the largest max-health report seen for any boss
// agent, or false if no report exists in the capture.
func bossMaxHealth(log *evtc.Log) (uint64, bool) {
	var health uint64
	var seen bool
	for _, ev := range log.Events() {
		if up, ok := ev.Kind.(evtc.MaxHealthUpdate); ok && log.IsBoss(up.Agent) {
			if !seen || up.MaxHealth > health {
				health = up.MaxHealth
			}
			seen = true
		}
	}
	return health, seen
}

// bossIsDead reports whether any boss agent has a death event.
func bossIsDead(log *evtc.Log) bool {
	for _, ev := range log.Events() {
		if dead, ok := ev.Kind.(evtc.ChangeDead); ok && log.IsBoss(dead.Agent) {
			return true
		}
	}
	return false
}

// squadWiped reports whether every player died or despawned. This is the
// only evidence strong enough to call a fight lost; anything weaker leaves
// the outcome unknown.
func squadWiped(log *evtc.Log) bool {
	players := log.Players()
	if len(players) == 0 {
		return false
	}
	gone := make(map[uint64]bool)
	for _, ev := range log.Events() {
		switch k := ev.Kind.(type) {
		case evtc.ChangeDead:
			gone[k.Agent] = true
		case evtc.Despawn:
			gone[k.Agent] = true
		case evtc.ChangeUp:
			delete(gone, k.Agent)
		}
	}
	for _, p := range players {
		if !gone[p.Addr] {
			return false
		}
	}
	return true
}

// buffPresent reports whether the given buff is applied anywhere in the log.
func buffPresent(log *evtc.Log, buff uint32) bool {
	for _, ev := range log.Events() {
		if apply, ok := ev.Kind.(evtc.BuffApply); ok && apply.Buff == buff {
			return true
		}
	}
	return false
}

// buffOnBoss reports whether the given buff lands on a boss agent.
func buffOnBoss(log *evtc.Log, buff uint32) bool {
	for _, ev := range log.Events() {
		if apply, ok := ev.Kind.(evtc.BuffApply); ok && apply.Buff == buff && log.IsBoss(apply.Target) {
			return true
		}
	}
	return false
}

// timeBetweenBuffs returns the minimum time in milliseconds between
// applications of the given buff on a single agent, taking the agent that
// received the most applications. Zero means the cadence cannot be
// measured.
func timeBetweenBuffs(log *evtc.Log, buff uint32) uint64 {
	byTarget := make(map[uint64][]uint64)
	for _, ev := range log.Events() {
		if apply, ok := ev.Kind.(evtc.BuffApply); ok && apply.Buff == buff {
			byTarget[apply.Target] = append(byTarget[apply.Target], ev.Time)
		}
	}
	var stamps []uint64
	for _, ts := range byTarget {
		if len(ts) > len(stamps) {
			stamps = ts
		}
	}
	var min uint64
	for i := 1; i < len(stamps); i++ {
		gap := stamps[i] - stamps[i-1]
		// Duplicated application events land within a few milliseconds
		// of each other and would fake an absurdly fast cadence.
		if gap <= 50 {
			continue
		}
		if min == 0 || gap < min {
			min = gap
		}
	}
	return min
}

// playersExitAfterBoss reports whether the players left combat well after
// the last boss agent did. Fights that end with the boss fleeing rather
// than dying leave this as the only success signal.
func playersExitAfterBoss(log *evtc.Log) bool {
	var playerExit, bossExit uint64
	for _, ev := range log.Events() {
		exit, ok := ev.Kind.(evtc.ExitCombat)
		if !ok {
			continue
		}
		agent := log.AgentByAddr(exit.Agent)
		if agent == nil {
			continue
		}
		switch {
		case agent.IsPlayer() && ev.Time >= playerExit:
			playerExit = ev.Time
		case log.IsBoss(exit.Agent) && ev.Time >= bossExit:
			bossExit = ev.Time
		}
	}
	// Safety margin against out-of-order exits at the very end.
	return bossExit != 0 && playerExit > bossExit+1000
}

// characterSpawned reports whether a character with the given species id
// spawns during the capture.
func characterSpawned(log *evtc.Log, species uint16) bool {
	for _, ev := range log.Events() {
		spawn, ok := ev.Kind.(evtc.Spawn)
		if !ok {
			continue
		}
		if agent := log.AgentByAddr(spawn.Agent); agent != nil {
			if c, ok := agent.AsCharacter(); ok && c.Species == species {
				return true
			}
		}
	}
	return false
}

// verdict folds a success trigger into the tri-state outcome. The reward
// marker is the strongest win signal and counts for every encounter, then
// the encounter's own trigger; a full squad wipe loses, anything else
// stays unknown.
func verdict(log *evtc.Log, success bool) Outcome {
	if log.WasRewarded() || success {
		return OutcomeSuccess
	}
	if squadWiped(log) {
		return OutcomeFailure
	}
	return OutcomeUnknown
}
