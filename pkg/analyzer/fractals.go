package analyzer

import (
	"github.com/evtcflow/evtcflow/pkg/evtc"
	"github.com/evtcflow/evtcflow/pkg/gamedata"
)

const (
	// aiInvulnerability is applied to Ai when a phase is beaten; she
	// never dies outright.
	aiInvulnerability = 895
	// aiPhaseSkill marks the transition into the dark phase.
	aiPhaseSkill = 53569
	// aiDarkModeSkill only appears in the dark phase.
	aiDarkModeSkill = 61356
)

// skorvaldAnomalies are the flux anomaly species of the challenge mote
// split phase. Normal mode spawns different anomalies.
var skorvaldAnomalies = []uint16{17599, 17673, 17770, 17851}

func registerFractals(e *Engine, cat *Catalog) {
	e.Register(gamedata.EncAi, baseAnalyzer{cat.Detector(gamedata.EncAi), aiDefeated})
	e.Register(gamedata.EncSkorvald, skorvaldAnalyzer{cat.Detector(gamedata.EncSkorvald)})

	for _, enc := range []gamedata.Encounter{
		gamedata.EncArtsariiv,
		gamedata.EncArkk,
		gamedata.EncMAMA,
		gamedata.EncSiax,
		gamedata.EncEnsolyss,
	} {
		e.Register(enc, baseAnalyzer{cat.Detector(enc), bossIsDead})
	}
}

// aiDefeated detects the end of the Ai fight: her invulnerability buff
// during the dark phase. The elemental phase applies the same buff, so the
// check has to be scoped to after the phase transition.
func aiDefeated(log *evtc.Log) bool {
	darkStart, ok := aiDarkPhaseStart(log)
	if !ok {
		return false
	}
	for _, ev := range log.Events() {
		if ev.Time < darkStart {
			continue
		}
		apply, ok := ev.Kind.(evtc.BuffApply)
		if !ok || apply.Buff != aiInvulnerability {
			continue
		}
		agent := log.AgentByAddr(apply.Target)
		if agent == nil {
			continue
		}
		if c, ok := agent.AsCharacter(); ok && gamedata.Boss(c.Species) == gamedata.Ai {
			return true
		}
	}
	return false
}

// aiDarkPhaseStart returns the timestamp the dark phase began. A log that
// is entirely dark phase starts at zero; a log without any dark phase
// returns false.
func aiDarkPhaseStart(log *evtc.Log) (uint64, bool) {
	var darkSeen bool
	var phased uint64
	for _, ev := range log.Events() {
		use, ok := ev.Kind.(evtc.SkillUse)
		if !ok {
			continue
		}
		switch use.Skill {
		case aiDarkModeSkill:
			darkSeen = true
		case aiPhaseSkill:
			phased = ev.Time
		}
	}
	if !darkSeen {
		return 0, false
	}
	return phased, true
}

// skorvaldAnalyzer needs anomaly detection on top of the health rule: a
// 2020 update equalized the boss health across modes, leaving the split
// phase anomalies as the only tell in newer logs.
type skorvaldAnalyzer struct {
	detector Detector
}

func (a skorvaldAnalyzer) Outcome(log *evtc.Log) Outcome {
	return verdict(log, bossIsDead(log))
}

func (a skorvaldAnalyzer) Challenge(log *evtc.Log) Challenge {
	// Old logs still pass the health check.
	if a.detector.evaluate(log) == ChallengeYes {
		return ChallengeYes
	}
	for _, species := range skorvaldAnomalies {
		if len(log.CharactersBySpecies(species)) > 0 {
			return ChallengeYes
		}
	}
	// Without reaching the split phase the modes are indistinguishable.
	return ChallengeUnknown
}
