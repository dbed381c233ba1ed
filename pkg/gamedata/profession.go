// Package gamedata holds the immutable identifier tables of the game:
// professions, elite specializations, boss species ids and the encounters
// they belong to. All tables are fixed at compile time and never mutated.
package gamedata

import "fmt"

// Profession is one of the nine base professions.
type Profession uint32

const (
	Guardian Profession = iota + 1
	Warrior
	Engineer
	Ranger
	Thief
	Elementalist
	Mesmer
	Necromancer
	Revenant
)

func (p Profession) String() string {
	switch p {
	case Guardian:
		return "Guardian"
	case Warrior:
		return "Warrior"
	case Engineer:
		return "Engineer"
	case Ranger:
		return "Ranger"
	case Thief:
		return "Thief"
	case Elementalist:
		return "Elementalist"
	case Mesmer:
		return "Mesmer"
	case Necromancer:
		return "Necromancer"
	case Revenant:
		return "Revenant"
	default:
		return fmt.Sprintf("Profession(%d)", uint32(p))
	}
}

// EliteSpec is an elite specialization. The numeric values match the
// specialization ids of the official API. Zero means a core build.
type EliteSpec uint32

const (
	NoEliteSpec EliteSpec = 0

	Druid        EliteSpec = 5
	Daredevil    EliteSpec = 7
	Berserker    EliteSpec = 18
	Dragonhunter EliteSpec = 27
	Reaper       EliteSpec = 34
	Chronomancer EliteSpec = 40
	Scrapper     EliteSpec = 43
	Tempest      EliteSpec = 48
	Herald       EliteSpec = 52

	Soulbeast   EliteSpec = 55
	Weaver      EliteSpec = 56
	Holosmith   EliteSpec = 57
	Deadeye     EliteSpec = 58
	Mirage      EliteSpec = 59
	Scourge     EliteSpec = 60
	Spellbreaker EliteSpec = 61
	Firebrand   EliteSpec = 62
	Renegade    EliteSpec = 63
)

func (e EliteSpec) String() string {
	switch e {
	case NoEliteSpec:
		return "none"
	case Druid:
		return "Druid"
	case Daredevil:
		return "Daredevil"
	case Berserker:
		return "Berserker"
	case Dragonhunter:
		return "Dragonhunter"
	case Reaper:
		return "Reaper"
	case Chronomancer:
		return "Chronomancer"
	case Scrapper:
		return "Scrapper"
	case Tempest:
		return "Tempest"
	case Herald:
		return "Herald"
	case Soulbeast:
		return "Soulbeast"
	case Weaver:
		return "Weaver"
	case Holosmith:
		return "Holosmith"
	case Deadeye:
		return "Deadeye"
	case Mirage:
		return "Mirage"
	case Scourge:
		return "Scourge"
	case Spellbreaker:
		return "Spellbreaker"
	case Firebrand:
		return "Firebrand"
	case Renegade:
		return "Renegade"
	default:
		return fmt.Sprintf("EliteSpec(%d)", uint32(e))
	}
}

// Profession returns the base profession an elite specialization belongs to.
func (e EliteSpec) Profession() Profession {
	switch e {
	case Dragonhunter, Firebrand:
		return Guardian
	case Berserker, Spellbreaker:
		return Warrior
	case Scrapper, Holosmith:
		return Engineer
	case Druid, Soulbeast:
		return Ranger
	case Daredevil, Deadeye:
		return Thief
	case Tempest, Weaver:
		return Elementalist
	case Chronomancer, Mirage:
		return Mesmer
	case Reaper, Scourge:
		return Necromancer
	case Herald, Renegade:
		return Revenant
	default:
		return 0
	}
}
