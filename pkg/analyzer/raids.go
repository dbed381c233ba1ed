package analyzer

import (
	"github.com/evtcflow/evtcflow/pkg/evtc"
	"github.com/evtcflow/evtcflow/pkg/gamedata"
)

// baseAnalyzer pairs a success trigger with a catalog detection rule. Most
// encounters fit this shape; the ones that don't supply their own type.
type baseAnalyzer struct {
	detector Detector
	success  func(*evtc.Log) bool
}

func (a baseAnalyzer) Outcome(log *evtc.Log) Outcome {
	return verdict(log, a.success(log))
}

func (a baseAnalyzer) Challenge(log *evtc.Log) Challenge {
	return a.detector.evaluate(log)
}

// desminaDeathBuff lands on Soulless Horror when she is defeated; she has
// no regular death event.
const desminaDeathBuff = 895

// zommorosSpawn marks the end of the Conjured Amalgamate fight, which ends
// with the construct collapsing rather than dying.
const zommorosSpawn = 21118

func registerRaids(e *Engine, cat *Catalog) {
	// The reward marker already wins through verdict; success triggers
	// here only need the encounter's own signal.
	bossDeath := func(enc gamedata.Encounter) {
		e.Register(enc, baseAnalyzer{cat.Detector(enc), bossIsDead})
	}

	// Spirit Vale, Salvation Pass and the Stronghold of the Faithful up
	// to Keep Construct all end with a plain boss kill, as do the
	// training golems.
	for _, enc := range []gamedata.Encounter{
		gamedata.EncValeGuardian,
		gamedata.EncGorseval,
		gamedata.EncSabetha,
		gamedata.EncSlothasor,
		gamedata.EncMatthias,
		gamedata.EncKeepConstruct,
		gamedata.EncStandardKittyGolem,
		gamedata.EncMediumKittyGolem,
		gamedata.EncLargeKittyGolem,
	} {
		bossDeath(enc)
	}

	// Xera flees at 50% instead of dying, so short of a reward the only
	// kill signal is the players leaving combat after her.
	e.Register(gamedata.EncXera, baseAnalyzer{cat.Detector(gamedata.EncXera), playersExitAfterBoss})

	bossDeath(gamedata.EncCairn)
	bossDeath(gamedata.EncMursaatOverseer)
	bossDeath(gamedata.EncSamarog)
	e.Register(gamedata.EncDeimos, baseAnalyzer{cat.Detector(gamedata.EncDeimos), deimosKilled})

	// Soulless Horror gets a marker buff instead of a death event.
	e.Register(gamedata.EncSoullessHorror, baseAnalyzer{cat.Detector(gamedata.EncSoullessHorror), func(log *evtc.Log) bool {
		return buffOnBoss(log, desminaDeathBuff)
	}})
	bossDeath(gamedata.EncVoiceInTheVoid)

	// Conjured Amalgamate collapses and Zommoros spawns from the rubble.
	e.Register(gamedata.EncConjuredAmalgamate, baseAnalyzer{cat.Detector(gamedata.EncConjuredAmalgamate), func(log *evtc.Log) bool {
		return characterSpawned(log, zommorosSpawn)
	}})
	e.Register(gamedata.EncTwinLargos, baseAnalyzer{cat.Detector(gamedata.EncTwinLargos), bothLargosDead})
	// Qadim leaves combat instead of dying.
	e.Register(gamedata.EncQadim, baseAnalyzer{cat.Detector(gamedata.EncQadim), playersExitAfterBoss})

	bossDeath(gamedata.EncCardinalAdina)
	bossDeath(gamedata.EncCardinalSabir)
	bossDeath(gamedata.EncQadimThePeerless)
}

// bothLargosDead reports whether both Nikare and Kenut died. Killing only
// one of the twins does not end the encounter.
func bothLargosDead(log *evtc.Log) bool {
	var nikare, kenut bool
	for _, ev := range log.Events() {
		dead, ok := ev.Kind.(evtc.ChangeDead)
		if !ok {
			continue
		}
		agent := log.AgentByAddr(dead.Agent)
		if agent == nil {
			continue
		}
		c, ok := agent.AsCharacter()
		if !ok {
			continue
		}
		switch gamedata.Boss(c.Species) {
		case gamedata.Nikare:
			nikare = true
		case gamedata.Kenut:
			kenut = true
		}
	}
	return nikare && kenut
}

// deimosKilled detects the end of the Deimos fight. At 10% the boss swaps
// to a gadget with an attack target; the kill shows up as the players
// leaving combat well after that target goes untargetable.
func deimosKilled(log *evtc.Log) bool {
	// The 10% phase announces itself with a targetable toggle. Without
	// it the fight never reached the end phase.
	var splitSeen bool
	for _, ev := range log.Events() {
		if t, ok := ev.Kind.(evtc.Targetable); ok && t.Targetable {
			splitSeen = true
		}
	}
	if !splitSeen {
		return false
	}

	target := deimosAttackTarget(log)
	if target == 0 {
		return false
	}

	var playerExit, targetGone uint64
	for _, ev := range log.Events() {
		switch k := ev.Kind.(type) {
		case evtc.ExitCombat:
			agent := log.AgentByAddr(k.Agent)
			if agent != nil && agent.IsPlayer() && ev.Time >= playerExit {
				playerExit = ev.Time
			}
		case evtc.Targetable:
			if k.Agent == target && !k.Targetable && ev.Time >= targetGone {
				targetGone = ev.Time
			}
		}
	}
	return playerExit > targetGone+1000
}

// deimosAttackTarget finds the attack target whose parent is the Deimos
// gadget of the 10% phase. The last link in the log is the one that
// matters.
func deimosAttackTarget(log *evtc.Log) uint64 {
	events := log.Events()
	for i := len(events) - 1; i >= 0; i-- {
		at, ok := events[i].Kind.(evtc.AttackTarget)
		if !ok {
			continue
		}
		parent := log.AgentByAddr(at.Parent)
		if parent == nil {
			continue
		}
		if g, ok := parent.AsGadget(); ok && g.Name == "Deimos" {
			return at.Agent
		}
	}
	return 0
}
