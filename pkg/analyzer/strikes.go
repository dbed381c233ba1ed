package analyzer

import (
	"github.com/evtcflow/evtcflow/pkg/gamedata"
)

func registerStrikes(e *Engine, cat *Catalog) {
	// All strike missions end with a boss kill. The Kodan brothers count
	// as one encounter with two boss agents, so the shared death check
	// already covers them.
	for _, enc := range []gamedata.Encounter{
		gamedata.EncIcebroodConstruct,
		gamedata.EncSuperKodanBrothers,
		gamedata.EncFraenirOfJormag,
		gamedata.EncBoneskinner,
		gamedata.EncWhisperOfJormag,
	} {
		e.Register(enc, baseAnalyzer{cat.Detector(enc), bossIsDead})
	}
}
