package oracle

import (
	"context"
	"strings"
	"time"
)

const maxDedupAttempts = 3

// Generator is the engine's only external collaborator: an opaque
// text-generation capability. Errors are never fatal; they route the
// request onto the fallback path.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EnhancementOverride forces a single enhancement without an offering
// purchase, e.g. from a redeemed reward.
type EnhancementOverride struct {
	Type string `json:"type"`
}

type PersonaInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Probability     float64  `json:"probability"`
	Characteristics []string `json:"characteristics"`
}

type ResponseTypeInfo struct {
	ID          string  `json:"id"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

type State struct {
	Mood          Mood               `json:"mood"`
	Personas      []PersonaInfo      `json:"personas"`
	ResponseTypes []ResponseTypeInfo `json:"responseTypes"`
}

type Metadata struct {
	Persona          PersonaInfo   `json:"persona"`
	ResponseType     string        `json:"responseType"`
	Themes           []string      `json:"themes"`
	Sentiment        Sentiment     `json:"sentiment"`
	Mood             Mood          `json:"mood"`
	ProcessingTime   time.Duration `json:"processingTimeMs"`
	SessionID        string        `json:"sessionId,omitempty"`
	Timestamp        time.Time     `json:"timestamp"`
	Offerings        []string      `json:"offerings"`
	EnhancementLevel string        `json:"enhancementLevel"`
	FallbackUsed     bool          `json:"-"`
}

type Result struct {
	Success  bool     `json:"success"`
	Question string   `json:"question"`
	Response string   `json:"response"`
	Metadata Metadata `json:"metadata"`
}

var fallbackSentences = []string{
	"The mists of time obscure the answer you seek. Perhaps the question itself holds the key.",
	"Like a river that changes course, your path will become clear when the time is right.",
	"The universe whispers its secrets to those who listen with patience and an open heart.",
	"Some truths can only be discovered through your own journey of exploration.",
	"The answer you seek lies not in the stars, but in the courage to trust your inner wisdom.",
}

var disturbanceSentences = []string{
	"The cosmic servers are experiencing turbulence. Your question awaits clearer skies.",
	"The Oracle's vision is clouded. Perhaps ask the question differently.",
	"The mystical networks are realigning. Your inquiry travels through distant dimensions.",
	"Even oracles must admit the limitations of mortal technology. The wisdom requires patience.",
	"The universe is buffering. Reality recalibrates its response algorithms.",
}

// Engine ties classification, selection, context injection, prompt
// composition and response shaping together for one question. One engine
// per process; the dedup cache and randomness source are shared across
// requests.
type Engine struct {
	gen   Generator
	rng   Rand
	now   func() time.Time
	dedup *DedupCache
}

func NewEngine(gen Generator, rng Rand, now func() time.Time) *Engine {
	if rng == nil {
		rng = NewRand()
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{
		gen:   gen,
		rng:   rng,
		now:   now,
		dedup: NewDedupCache(),
	}
}

// CurrentMood derives the mood from today's date on every call, so the
// value rolls over at midnight without any scheduled refresh.
func (e *Engine) CurrentMood() Mood {
	return MoodFor(e.now())
}

func (e *Engine) CurrentState() State {
	personas := make([]PersonaInfo, 0, len(personaTable))
	for _, persona := range personaTable {
		personas = append(personas, personaInfo(persona))
	}

	responseTypes := make([]ResponseTypeInfo, 0, len(responseTypeTable))
	for _, rt := range responseTypeTable {
		responseTypes = append(responseTypes, ResponseTypeInfo{
			ID:          rt.ID,
			Weight:      rt.Weight,
			Description: rt.Description,
		})
	}

	return State{
		Mood:          e.CurrentMood(),
		Personas:      personas,
		ResponseTypes: responseTypes,
	}
}

// Process runs the full pipeline for one question. It never returns an
// error and never panics outward: generation failures substitute a fallback
// sentence, and anything unexpected is converted into a disturbance result
// at this boundary.
func (e *Engine) Process(ctx context.Context, question, sessionID string, offeringIDs []string, override *EnhancementOverride) (result Result) {
	start := e.now()

	defer func() {
		if recovered := recover(); recovered != nil {
			result = e.disturbanceResult(question, sessionID, start)
		}
	}()

	analysis := Analyze(question)
	mood := e.CurrentMood()
	persona := SelectPersona(e.rng, mood)
	responseType := SelectResponseType(e.rng)

	enhancements := ResolveEnhancements(offeringIDs)
	enhancements = applyOverride(enhancements, override)

	if enhancements.RarePersonas {
		if rare, ok := RarePersona(e.rng); ok {
			persona = rare
		}
	}

	payload := GenerateContext(e.rng, analysis.Themes)
	fingerprint := Fingerprint(question, persona.Name, payload)

	// Bounded retry on fingerprint collision. The fingerprint is computed
	// from the first context, so this caps the work at three regenerations
	// without guaranteeing novelty; a duplicate is accepted afterwards.
	var (
		text      string
		genErr    error
		generated bool
	)
	for attempts := 0; attempts < maxDedupAttempts && e.dedup.Seen(fingerprint); attempts++ {
		payload = GenerateContext(e.rng, analysis.Themes)
		text, genErr = e.generate(ctx, question, persona, payload, responseType, enhancements)
		generated = true
	}
	if !generated {
		text, genErr = e.generate(ctx, question, persona, payload, responseType, enhancements)
	}

	e.dedup.MarkSeen(fingerprint)

	fallbackUsed := false
	if genErr != nil {
		text = pickOne(e.rng, fallbackSentences)
		fallbackUsed = true
	}

	shaped := ShapeResponse(e.rng, text, responseType, analysis, enhancements)

	return Result{
		Success:  true,
		Question: strings.TrimSpace(question),
		Response: shaped,
		Metadata: Metadata{
			Persona:          personaInfo(persona),
			ResponseType:     responseType.ID,
			Themes:           analysis.Themes,
			Sentiment:        analysis.Sentiment,
			Mood:             mood,
			ProcessingTime:   e.now().Sub(start),
			SessionID:        sessionID,
			Timestamp:        e.now().UTC(),
			Offerings:        offeringIDs,
			EnhancementLevel: enhancements.Level(),
			FallbackUsed:     fallbackUsed,
		},
	}
}

func (e *Engine) generate(ctx context.Context, question string, persona Persona, payload ContextPayload, responseType ResponseType, enhancements EnhancementSet) (string, error) {
	prompt := ComposePrompt(persona, question, payload, responseType, enhancements)
	return e.gen.Generate(ctx, prompt)
}

func (e *Engine) disturbanceResult(question, sessionID string, start time.Time) Result {
	return Result{
		Success:  false,
		Question: strings.TrimSpace(question),
		Response: pickOne(e.rng, disturbanceSentences),
		Metadata: Metadata{
			Mood:             e.CurrentMood(),
			ProcessingTime:   e.now().Sub(start),
			SessionID:        sessionID,
			Timestamp:        e.now().UTC(),
			Offerings:        []string{},
			EnhancementLevel: "standard",
			FallbackUsed:     true,
		},
	}
}

func applyOverride(enhancements EnhancementSet, override *EnhancementOverride) EnhancementSet {
	if override == nil {
		return enhancements
	}
	switch override.Type {
	case "rare_persona":
		enhancements.RarePersonas = true
		enhancements.RarePersonaBoost = true
	case "good_omens":
		enhancements.GoodOmens = true
	}
	return enhancements
}

func personaInfo(persona Persona) PersonaInfo {
	return PersonaInfo{
		ID:              persona.ID,
		Name:            persona.Name,
		Description:     persona.Description,
		Probability:     persona.Probability,
		Characteristics: persona.Characteristics,
	}
}
