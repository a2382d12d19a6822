package oracle

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// zeroRand makes every draw deterministic: first item of every pool, no
// jitter variance, no shuffle.
type zeroRand struct{}

func (zeroRand) Float64() float64 { return 0 }

func (zeroRand) Intn(int) int { return 0 }

func (zeroRand) Shuffle(int, func(i, j int)) {}

type stubGenerator struct {
	calls    int
	text     string
	err      error
	panicMsg string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	if g.panicMsg != "" {
		panic(g.panicMsg)
	}
	return g.text, g.err
}

func fixedNow() time.Time {
	return time.Date(2025, time.March, 14, 15, 9, 26, 0, time.UTC)
}

func TestEngineProcessBasics(t *testing.T) {
	gen := &stubGenerator{text: strings.Repeat("The threads of fate weave onward. ", 12)}
	engine := NewEngine(gen, zeroRand{}, fixedNow)

	result := engine.Process(context.Background(), "  What awaits me?  ", "session-1", nil, nil)

	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Question != "What awaits me?" {
		t.Fatalf("question not trimmed: %q", result.Question)
	}
	if len(result.Response) > defaultMaxResponseLen {
		t.Fatalf("unenhanced response exceeds %d chars: %d", defaultMaxResponseLen, len(result.Response))
	}
	if _, ok := personaByID(result.Metadata.Persona.ID); !ok {
		t.Fatalf("persona %q not in the table", result.Metadata.Persona.ID)
	}
	if _, ok := responseTypeByID(result.Metadata.ResponseType); !ok {
		t.Fatalf("response type %q not in the table", result.Metadata.ResponseType)
	}
	if result.Metadata.EnhancementLevel != "standard" {
		t.Fatalf("no offerings should mean standard level, got %s", result.Metadata.EnhancementLevel)
	}
	if result.Metadata.Mood != MoodFor(fixedNow()) {
		t.Fatalf("metadata mood should match today's mood")
	}
	if result.Metadata.SessionID != "session-1" {
		t.Fatalf("session id not carried through")
	}
	if gen.calls != 1 {
		t.Fatalf("fresh question should call the generator once, got %d", gen.calls)
	}
}

func TestEngineProcessGoodOmensOverride(t *testing.T) {
	gen := &stubGenerator{text: "The currents of destiny favor those who act with an open heart today."}
	engine := NewEngine(gen, zeroRand{}, fixedNow)

	result := engine.Process(context.Background(), "Will my garden bloom?", "", nil, &EnhancementOverride{Type: "good_omens"})

	if result.Metadata.EnhancementLevel != "good_omens" {
		t.Fatalf("override should raise the level, got %s", result.Metadata.EnhancementLevel)
	}
	idx := strings.Index(result.Response, omenHeader)
	if idx < 0 {
		t.Fatalf("good omens response missing omen block: %q", result.Response)
	}
	lines := strings.Split(result.Response[idx+len(omenHeader):], "\n")
	if len(lines) != omenCount {
		t.Fatalf("expected %d omen lines, got %d", omenCount, len(lines))
	}
}

func TestEngineProcessRarePersonaOverride(t *testing.T) {
	gen := &stubGenerator{text: "Ancient knowledge stirs in forgotten archives, waiting for your question."}
	engine := NewEngine(gen, zeroRand{}, fixedNow)

	result := engine.Process(context.Background(), "What is hidden?", "", nil, &EnhancementOverride{Type: "rare_persona"})

	if !contains(rarePersonaIDs, result.Metadata.Persona.ID) {
		t.Fatalf("rare persona override should select from the rare set, got %s", result.Metadata.Persona.ID)
	}
	if result.Metadata.EnhancementLevel != "rare_persona" {
		t.Fatalf("level mismatch: got %s", result.Metadata.EnhancementLevel)
	}
}

func TestEngineDedupRetryBudget(t *testing.T) {
	gen := &stubGenerator{text: "The wheel turns and the same stars rise again over patient watchers."}
	engine := NewEngine(gen, zeroRand{}, fixedNow)

	engine.Process(context.Background(), "Same question", "", nil, nil)
	if gen.calls != 1 {
		t.Fatalf("first pass should generate once, got %d", gen.calls)
	}

	// The zero rand regenerates an identical context, so the fingerprint
	// stays seen and the retry loop runs to its bound.
	engine.Process(context.Background(), "Same question", "", nil, nil)
	if gen.calls != 1+maxDedupAttempts {
		t.Fatalf("collision should retry %d times, got %d total calls", maxDedupAttempts, gen.calls)
	}
}

func TestEngineFallbackOnGeneratorError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream unavailable")}
	engine := NewEngine(gen, zeroRand{}, fixedNow)

	result := engine.Process(context.Background(), "Tell me of the weather", "", nil, nil)

	if !result.Success {
		t.Fatalf("generation failure still yields a successful mystical result")
	}
	if !result.Metadata.FallbackUsed {
		t.Fatalf("fallback flag should be set")
	}
	if !contains(fallbackSentences, result.Response) {
		t.Fatalf("response %q not a fallback sentence", result.Response)
	}
}

func TestEngineDisturbanceOnPanic(t *testing.T) {
	gen := &stubGenerator{panicMsg: "boom"}
	engine := NewEngine(gen, zeroRand{}, fixedNow)

	result := engine.Process(context.Background(), "Why?", "session-9", nil, nil)

	if result.Success {
		t.Fatalf("a panic must surface as an unsuccessful disturbance result")
	}
	if !contains(disturbanceSentences, result.Response) {
		t.Fatalf("response %q not a disturbance sentence", result.Response)
	}
	if !result.Metadata.FallbackUsed {
		t.Fatalf("disturbance results are fallbacks")
	}
	if result.Metadata.SessionID != "session-9" {
		t.Fatalf("session id lost on the disturbance path")
	}
}

func TestEngineCurrentState(t *testing.T) {
	engine := NewEngine(&stubGenerator{}, zeroRand{}, fixedNow)

	state := engine.CurrentState()
	if state.Mood != MoodFor(fixedNow()) {
		t.Fatalf("state mood should match the daily mood")
	}
	if len(state.Personas) != len(personaTable) {
		t.Fatalf("state should list all %d personas, got %d", len(personaTable), len(state.Personas))
	}
	if len(state.ResponseTypes) != len(responseTypeTable) {
		t.Fatalf("state should list all %d response types, got %d", len(responseTypeTable), len(state.ResponseTypes))
	}
}
