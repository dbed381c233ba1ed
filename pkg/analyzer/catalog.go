package analyzer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/evtcflow/evtcflow/pkg/evtc"
	"github.com/evtcflow/evtcflow/pkg/gamedata"
)

// DetectorKind names a challenge-mote detection strategy.
type DetectorKind string

const (
	// DetectNone is for encounters that have no challenge mote.
	DetectNone DetectorKind = "none"
	// DetectFixed is for encounters that only exist in challenge mode.
	DetectFixed DetectorKind = "fixed"
	// DetectBuff looks for a marker buff that only the mote applies.
	DetectBuff DetectorKind = "buff"
	// DetectHealth compares the boss max health against a threshold.
	DetectHealth DetectorKind = "health"
	// DetectCadence measures the application interval of a recurring
	// debuff, which the mote speeds up.
	DetectCadence DetectorKind = "cadence"
)

// Detector is one challenge-mote detection rule. Which fields matter
// depends on the kind.
type Detector struct {
	Kind DetectorKind `yaml:"kind"`
	// Buff is the marker or cadence buff id.
	Buff uint32 `yaml:"buff,omitempty"`
	// MinHealth is the boss health threshold for health detection.
	MinHealth uint64 `yaml:"min-health,omitempty"`
	// MaxInterval is the cadence threshold in milliseconds.
	MaxInterval uint64 `yaml:"max-interval,omitempty"`
}

// evaluate runs the rule against a log.
func (d Detector) evaluate(log *evtc.Log) Challenge {
	switch d.Kind {
	case DetectNone:
		return ChallengeNo
	case DetectFixed:
		return ChallengeYes
	case DetectBuff:
		if buffPresent(log, d.Buff) {
			return ChallengeYes
		}
		// Absence only proves anything if the capture is complete.
		if log.HasLogEnd() {
			return ChallengeNo
		}
		return ChallengeUnknown
	case DetectHealth:
		health, ok := bossMaxHealth(log)
		if !ok {
			return ChallengeUnknown
		}
		if health >= d.MinHealth {
			return ChallengeYes
		}
		return ChallengeNo
	case DetectCadence:
		gap := timeBetweenBuffs(log, d.Buff)
		if gap == 0 {
			return ChallengeUnknown
		}
		if gap <= d.MaxInterval {
			return ChallengeYes
		}
		return ChallengeNo
	}
	return ChallengeUnknown
}

// Catalog holds the challenge-mote detection rules, keyed by encounter id.
// The thresholds and marker buffs are game data, not logic, so they live
// here as data and can be overridden from a file when a balance patch
// moves them.
type Catalog struct {
	Detectors map[uint16]Detector `yaml:"detectors"`
}

// Detector returns the rule for an encounter. Encounters without an entry
// get a none rule.
func (c *Catalog) Detector(enc gamedata.Encounter) Detector {
	if d, ok := c.Detectors[uint16(enc)]; ok {
		return d
	}
	return Detector{Kind: DetectNone}
}

// DefaultCatalog returns the built-in detection rules.
func DefaultCatalog() *Catalog {
	return &Catalog{Detectors: map[uint16]Detector{
		// Bastion of the Penitent. Cairn's mote adds the countdown that
		// forces regular special-action use; the rest scale boss health.
		uint16(gamedata.EncCairn):           {Kind: DetectBuff, Buff: 38098},
		uint16(gamedata.EncMursaatOverseer): {Kind: DetectHealth, MinHealth: 30_000_000},
		uint16(gamedata.EncSamarog):         {Kind: DetectHealth, MinHealth: 40_000_000},
		uint16(gamedata.EncDeimos):          {Kind: DetectHealth, MinHealth: 42_000_000},

		// Hall of Chains. The mote speeds up the necrosis debuff cadence
		// on Soulless Horror.
		uint16(gamedata.EncSoullessHorror): {Kind: DetectCadence, Buff: 47414, MaxInterval: 11_000},
		uint16(gamedata.EncVoiceInTheVoid): {Kind: DetectHealth, MinHealth: 40_000_000},

		// Mythwright Gambit. The amalgamate mote marks the laser target
		// with a buff.
		uint16(gamedata.EncConjuredAmalgamate): {Kind: DetectBuff, Buff: 53075},
		uint16(gamedata.EncTwinLargos):         {Kind: DetectHealth, MinHealth: 19_200_000},
		uint16(gamedata.EncQadim):              {Kind: DetectHealth, MinHealth: 21_100_000},

		// Key of Ahdashim.
		uint16(gamedata.EncCardinalAdina):    {Kind: DetectHealth, MinHealth: 24_800_000},
		uint16(gamedata.EncCardinalSabir):    {Kind: DetectHealth, MinHealth: 32_400_000},
		uint16(gamedata.EncQadimThePeerless): {Kind: DetectHealth, MinHealth: 51_000_000},

		// Challenge fractals only produce logs with the mote active.
		uint16(gamedata.EncAi):        {Kind: DetectFixed},
		uint16(gamedata.EncSkorvald):  {Kind: DetectHealth, MinHealth: 5_551_340},
		uint16(gamedata.EncArtsariiv): {Kind: DetectFixed},
		uint16(gamedata.EncArkk):      {Kind: DetectFixed},
		uint16(gamedata.EncMAMA):      {Kind: DetectFixed},
		uint16(gamedata.EncSiax):      {Kind: DetectFixed},
		uint16(gamedata.EncEnsolyss):  {Kind: DetectFixed},
	}}
}

// LoadCatalog reads detection rules from a YAML file and merges them over
// the defaults, entry by entry.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("analyzer: reading catalog: %w", err)
	}
	var overrides Catalog
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("analyzer: parsing catalog %s: %w", path, err)
	}
	cat := DefaultCatalog()
	for id, d := range overrides.Detectors {
		cat.Detectors[id] = d
	}
	return cat, nil
}
