package oracle

import (
	"strings"
	"testing"
)

func TestNewPromptTemplateRequiresSlots(t *testing.T) {
	if _, err := NewPromptTemplate("only {context} here"); err == nil {
		t.Fatalf("expected error for missing question slot")
	}
	if _, err := NewPromptTemplate("only {question} here"); err == nil {
		t.Fatalf("expected error for missing context slot")
	}
	if _, err := NewPromptTemplate("ask {question} with {context}"); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}
}

func TestPromptTemplateFill(t *testing.T) {
	template := mustTemplate("Q: {question}\nC: {context}")

	got := template.Fill("why?", "stars align")
	want := "Q: why?\nC: stars align"
	if got != want {
		t.Fatalf("fill mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestPersonaTemplatesAllValid(t *testing.T) {
	for _, persona := range personaTable {
		filled := persona.Template.Fill("MARKER_Q", "MARKER_C")
		if !strings.Contains(filled, "MARKER_Q") || !strings.Contains(filled, "MARKER_C") {
			t.Fatalf("persona %s template did not substitute both slots", persona.ID)
		}
		if strings.Contains(filled, "{question}") || strings.Contains(filled, "{context}") {
			t.Fatalf("persona %s template left a raw slot", persona.ID)
		}
	}
}

func TestComposePromptAppendsEnhancementDirectives(t *testing.T) {
	persona := personaTable[0]
	payload := ContextPayload{"trivia": {"honey never spoils"}}
	responseType, _ := responseTypeByID("metaphoricalRiddle")

	plain := ComposePrompt(persona, "Will it rain?", payload, responseType, EnhancementSet{})
	if strings.Contains(plain, "gentle compassion") || strings.Contains(plain, "detailed response") {
		t.Fatalf("unenhanced prompt must carry no enhancement directives")
	}
	if !strings.Contains(plain, "Response style: Embed your wisdom") {
		t.Fatalf("prompt missing response-type guidance: %q", plain)
	}
	if !strings.Contains(plain, "Will it rain?") || !strings.Contains(plain, "honey never spoils") {
		t.Fatalf("prompt missing question or context")
	}

	enhanced := ComposePrompt(persona, "Will it rain?", payload, responseType, EnhancementSet{
		ExtendedResponse: true,
		Empathetic:       true,
		RarePersonas:     true,
		GoodOmens:        true,
	})
	for _, directive := range []string{
		"Provide a detailed response",
		"gentle compassion",
		"ancient wisdom and scholarly knowledge",
		"uplifting, positive response",
	} {
		if !strings.Contains(enhanced, directive) {
			t.Fatalf("enhanced prompt missing %q", directive)
		}
	}
	if !strings.HasSuffix(plain, responseTypeGuidance["metaphoricalRiddle"]) {
		t.Fatalf("guidance must be the final line")
	}
}

func TestComposePromptUnknownTypeFallsBack(t *testing.T) {
	persona := personaTable[0]
	got := ComposePrompt(persona, "q", ContextPayload{}, ResponseType{ID: "nonexistent"}, EnhancementSet{})
	if !strings.Contains(got, responseTypeGuidance["directWisdom"]) {
		t.Fatalf("unknown response type should fall back to directWisdom guidance")
	}
}
