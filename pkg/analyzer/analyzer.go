// Package analyzer derives per-encounter verdicts from a built log: whether
// the fight was won and whether the challenge mote was active. Every
// encounter needs its own detection logic, so the package keeps a registry
// mapping encounters to their analyzers and exposes a single Analyze entry
// point on top of it.
package analyzer

import (
	"sync"

	"github.com/evtcflow/evtcflow/pkg/evtc"
	"github.com/evtcflow/evtcflow/pkg/gamedata"
)

// Outcome is the derived result of a fight.
type Outcome uint8

const (
	// OutcomeUnknown means the capture does not prove either result. A
	// truncated log lands here, never at OutcomeFailure.
	OutcomeUnknown Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	}
	return "unknown"
}

// Challenge is the derived challenge-mote state of a fight.
type Challenge uint8

const (
	// ChallengeUnknown means the capture carries no usable evidence in
	// either direction.
	ChallengeUnknown Challenge = iota
	ChallengeYes
	ChallengeNo
)

func (c Challenge) String() string {
	switch c {
	case ChallengeYes:
		return "yes"
	case ChallengeNo:
		return "no"
	}
	return "unknown"
}

// Analyzer implements the encounter-specific detection logic.
type Analyzer interface {
	// Outcome derives the result of the fight.
	Outcome(log *evtc.Log) Outcome
	// Challenge derives whether the challenge mote was active.
	Challenge(log *evtc.Log) Challenge
}

// Result is the verdict for one log.
type Result struct {
	// Encounter is zero when the header id maps to no known encounter.
	Encounter gamedata.Encounter
	Outcome   Outcome
	Challenge Challenge
}

// Engine holds the per-encounter analyzer registry. The zero value is not
// usable; construct one with NewEngine.
type Engine struct {
	mu        sync.RWMutex
	analyzers map[gamedata.Encounter]Analyzer
}

// NewEngine builds an engine with the full analyzer set, with challenge
// detection driven by the given catalog. A nil catalog uses the defaults.
func NewEngine(cat *Catalog) *Engine {
	if cat == nil {
		cat = DefaultCatalog()
	}
	e := &Engine{analyzers: make(map[gamedata.Encounter]Analyzer)}
	registerRaids(e, cat)
	registerFractals(e, cat)
	registerStrikes(e, cat)
	return e
}

// Register adds or replaces the analyzer for an encounter.
func (e *Engine) Register(enc gamedata.Encounter, a Analyzer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.analyzers[enc] = a
}

// For returns the analyzer responsible for the log's encounter.
func (e *Engine) For(log *evtc.Log) (Analyzer, bool) {
	enc, ok := log.Encounter()
	if !ok {
		return nil, false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.analyzers[enc]
	return a, ok
}

// Analyze derives the verdict for one log. Logs of unrecognized encounters
// get an unknown verdict rather than an error; the capture itself is fine,
// the engine just has no logic for it.
func (e *Engine) Analyze(log *evtc.Log) Result {
	enc, ok := log.Encounter()
	if !ok {
		return Result{}
	}
	a, ok := e.For(log)
	if !ok {
		return Result{Encounter: enc}
	}
	return Result{
		Encounter: enc,
		Outcome:   a.Outcome(log),
		Challenge: a.Challenge(log),
	}
}

var defaultEngine = NewEngine(nil)

// Analyze derives the verdict for one log using the default engine.
func Analyze(log *evtc.Log) Result {
	return defaultEngine.Analyze(log)
}

// For returns the default engine's analyzer for the log's encounter.
func For(log *evtc.Log) (Analyzer, bool) {
	return defaultEngine.For(log)
}
