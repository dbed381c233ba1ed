package gamedata

import "fmt"

// Boss is the species id of a single boss agent. Encounters with several
// boss agents (Twin Largos, phased Xera) carry several Boss values.
type Boss uint16

const (
	// Wing 1, Spirit Vale.
	ValeGuardian Boss = 0x3C4E
	Gorseval     Boss = 0x3C45
	Sabetha      Boss = 0x3C0F

	// Wing 2, Salvation Pass.
	Slothasor Boss = 0x3EFB
	Matthias  Boss = 0x3EF3

	// Wing 3, Stronghold of the Faithful.
	KeepConstruct Boss = 0x3F6B
	Xera          Boss = 0x3F76
	// Xera despawns during the tower phase; a second spawn with its own
	// species id takes over afterwards.
	Xera2 Boss = 0x3F9E

	// Wing 4, Bastion of the Penitent.
	Cairn           Boss = 0x432A
	MursaatOverseer Boss = 0x4314
	Samarog         Boss = 0x4324
	Deimos          Boss = 0x4302

	// Wing 5, Hall of Chains.
	SoullessHorror Boss = 0x4D37
	Dhuum          Boss = 0x4BFA

	// Wing 6, Mythwright Gambit.
	ConjuredAmalgamate Boss = 0xABC6
	Nikare             Boss = 0x5271
	Kenut              Boss = 0x5261
	Qadim              Boss = 0x51C6

	// Wing 7, Key of Ahdashim.
	CardinalAdina    Boss = 0x55F6
	CardinalSabir    Boss = 0x55CC
	QadimThePeerless Boss = 0x55F0

	// Training area golems.
	StandardKittyGolem Boss = 0x3F47
	MediumKittyGolem   Boss = 0x4CBD
	LargeKittyGolem    Boss = 0x4CDC

	// Fractal challenge motes.
	Ai        Boss = 0x5AD6
	Skorvald  Boss = 0x44E0
	Artsariiv Boss = 0x461D
	Arkk      Boss = 0x455F
	MAMA      Boss = 0x427D
	Siax      Boss = 0x4284
	Ensolyss  Boss = 0x4234

	// Strike missions.
	IcebroodConstruct Boss = 0x568A
	VoiceOfTheFallen  Boss = 0x5747
	ClawOfTheFallen   Boss = 0x57D1
	FraenirOfJormag   Boss = 0x57DC
	Boneskinner       Boss = 0x57F9
	WhisperOfJormag   Boss = 0x58B7
)

// Encounter identifies one fight. Its numeric value equals the species id
// of the boss whose id the recording addon writes into the header, so
// header content ids map onto encounters directly.
type Encounter uint16

const (
	EncValeGuardian       Encounter = Encounter(ValeGuardian)
	EncGorseval           Encounter = Encounter(Gorseval)
	EncSabetha            Encounter = Encounter(Sabetha)
	EncSlothasor          Encounter = Encounter(Slothasor)
	EncMatthias           Encounter = Encounter(Matthias)
	EncKeepConstruct      Encounter = Encounter(KeepConstruct)
	EncXera               Encounter = Encounter(Xera)
	EncCairn              Encounter = Encounter(Cairn)
	EncMursaatOverseer    Encounter = Encounter(MursaatOverseer)
	EncSamarog            Encounter = Encounter(Samarog)
	EncDeimos             Encounter = Encounter(Deimos)
	EncSoullessHorror     Encounter = Encounter(SoullessHorror)
	EncVoiceInTheVoid     Encounter = Encounter(Dhuum)
	EncConjuredAmalgamate Encounter = Encounter(ConjuredAmalgamate)
	EncTwinLargos         Encounter = Encounter(Nikare)
	EncQadim              Encounter = Encounter(Qadim)
	EncCardinalAdina      Encounter = Encounter(CardinalAdina)
	EncCardinalSabir      Encounter = Encounter(CardinalSabir)
	EncQadimThePeerless   Encounter = Encounter(QadimThePeerless)
	EncStandardKittyGolem Encounter = Encounter(StandardKittyGolem)
	EncMediumKittyGolem   Encounter = Encounter(MediumKittyGolem)
	EncLargeKittyGolem    Encounter = Encounter(LargeKittyGolem)
	EncAi                 Encounter = Encounter(Ai)
	EncSkorvald           Encounter = Encounter(Skorvald)
	EncArtsariiv          Encounter = Encounter(Artsariiv)
	EncArkk               Encounter = Encounter(Arkk)
	EncMAMA               Encounter = Encounter(MAMA)
	EncSiax               Encounter = Encounter(Siax)
	EncEnsolyss           Encounter = Encounter(Ensolyss)
	EncIcebroodConstruct  Encounter = Encounter(IcebroodConstruct)
	EncSuperKodanBrothers Encounter = Encounter(VoiceOfTheFallen)
	EncFraenirOfJormag    Encounter = Encounter(FraenirOfJormag)
	EncBoneskinner        Encounter = Encounter(Boneskinner)
	EncWhisperOfJormag    Encounter = Encounter(WhisperOfJormag)
)

// bossEncounters maps every boss species id to its encounter, including
// secondary ids like the phase-two Xera or the second largo.
var bossEncounters = map[Boss]Encounter{
	ValeGuardian:       EncValeGuardian,
	Gorseval:           EncGorseval,
	Sabetha:            EncSabetha,
	Slothasor:          EncSlothasor,
	Matthias:           EncMatthias,
	KeepConstruct:      EncKeepConstruct,
	Xera:               EncXera,
	Xera2:              EncXera,
	Cairn:              EncCairn,
	MursaatOverseer:    EncMursaatOverseer,
	Samarog:            EncSamarog,
	Deimos:             EncDeimos,
	SoullessHorror:     EncSoullessHorror,
	Dhuum:              EncVoiceInTheVoid,
	ConjuredAmalgamate: EncConjuredAmalgamate,
	Nikare:             EncTwinLargos,
	Kenut:              EncTwinLargos,
	Qadim:              EncQadim,
	CardinalAdina:      EncCardinalAdina,
	CardinalSabir:      EncCardinalSabir,
	QadimThePeerless:   EncQadimThePeerless,
	StandardKittyGolem: EncStandardKittyGolem,
	MediumKittyGolem:   EncMediumKittyGolem,
	LargeKittyGolem:    EncLargeKittyGolem,
	Ai:                 EncAi,
	Skorvald:           EncSkorvald,
	Artsariiv:          EncArtsariiv,
	Arkk:               EncArkk,
	MAMA:               EncMAMA,
	Siax:               EncSiax,
	Ensolyss:           EncEnsolyss,
	IcebroodConstruct:  EncIcebroodConstruct,
	VoiceOfTheFallen:   EncSuperKodanBrothers,
	ClawOfTheFallen:    EncSuperKodanBrothers,
	FraenirOfJormag:    EncFraenirOfJormag,
	Boneskinner:        EncBoneskinner,
	WhisperOfJormag:    EncWhisperOfJormag,
}

// EncounterForBoss resolves a boss species id to its encounter.
func EncounterForBoss(id Boss) (Encounter, bool) {
	enc, ok := bossEncounters[id]
	return enc, ok
}

// EncounterByID resolves a header content id to an encounter. The second
// return value is false for ids that do not belong to a known boss.
func EncounterByID(id uint16) (Encounter, bool) {
	return EncounterForBoss(Boss(id))
}

// Bosses returns the boss species ids that have to be tracked for this
// encounter. The returned slice must not be modified.
func (e Encounter) Bosses() []Boss {
	switch e {
	case EncXera:
		return []Boss{Xera, Xera2}
	case EncTwinLargos:
		return []Boss{Nikare, Kenut}
	case EncSuperKodanBrothers:
		return []Boss{VoiceOfTheFallen, ClawOfTheFallen}
	default:
		return []Boss{Boss(e)}
	}
}

func (e Encounter) String() string {
	switch e {
	case EncValeGuardian:
		return "Vale Guardian"
	case EncGorseval:
		return "Gorseval"
	case EncSabetha:
		return "Sabetha"
	case EncSlothasor:
		return "Slothasor"
	case EncMatthias:
		return "Matthias Gabrel"
	case EncKeepConstruct:
		return "Keep Construct"
	case EncXera:
		return "Xera"
	case EncCairn:
		return "Cairn the Indomitable"
	case EncMursaatOverseer:
		return "Mursaat Overseer"
	case EncSamarog:
		return "Samarog"
	case EncDeimos:
		return "Deimos"
	case EncSoullessHorror:
		return "Soulless Horror"
	case EncVoiceInTheVoid:
		return "Voice in the Void"
	case EncConjuredAmalgamate:
		return "Conjured Amalgamate"
	case EncTwinLargos:
		return "Twin Largos"
	case EncQadim:
		return "Qadim"
	case EncCardinalAdina:
		return "Cardinal Adina"
	case EncCardinalSabir:
		return "Cardinal Sabir"
	case EncQadimThePeerless:
		return "Qadim the Peerless"
	case EncStandardKittyGolem:
		return "Standard Kitty Golem"
	case EncMediumKittyGolem:
		return "Medium Kitty Golem"
	case EncLargeKittyGolem:
		return "Large Kitty Golem"
	case EncAi:
		return "Ai, Keeper of the Peak"
	case EncSkorvald:
		return "Skorvald the Shattered"
	case EncArtsariiv:
		return "Artsariiv"
	case EncArkk:
		return "Arkk"
	case EncMAMA:
		return "MAMA"
	case EncSiax:
		return "Siax the Corrupted"
	case EncEnsolyss:
		return "Ensolyss of the Endless Torment"
	case EncIcebroodConstruct:
		return "Icebrood Construct"
	case EncSuperKodanBrothers:
		return "Super Kodan Brothers"
	case EncFraenirOfJormag:
		return "Fraenir of Jormag"
	case EncBoneskinner:
		return "Boneskinner"
	case EncWhisperOfJormag:
		return "Whisper of Jormag"
	default:
		return fmt.Sprintf("Encounter(%#04x)", uint16(e))
	}
}
