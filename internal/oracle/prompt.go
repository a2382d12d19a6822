package oracle

import (
	"fmt"
	"strings"
)

const (
	slotQuestion = "{question}"
	slotContext  = "{context}"
)

// PromptTemplate is a persona template with required question and context
// slots. Validation happens at construction so a malformed persona
// definition fails at process start, not mid-request.
type PromptTemplate struct {
	text string
}

func NewPromptTemplate(text string) (PromptTemplate, error) {
	if !strings.Contains(text, slotQuestion) {
		return PromptTemplate{}, fmt.Errorf("prompt template missing %s slot", slotQuestion)
	}
	if !strings.Contains(text, slotContext) {
		return PromptTemplate{}, fmt.Errorf("prompt template missing %s slot", slotContext)
	}
	return PromptTemplate{text: text}, nil
}

func mustTemplate(text string) PromptTemplate {
	template, err := NewPromptTemplate(text)
	if err != nil {
		panic(err)
	}
	return template
}

func (t PromptTemplate) Fill(question, context string) string {
	filled := strings.Replace(t.text, slotQuestion, question, 1)
	return strings.Replace(filled, slotContext, context, 1)
}

var responseTypeGuidance = map[string]string{
	"directWisdom":        "Be clear and actionable while maintaining mystical authority. Use minimal metaphor.",
	"metaphoricalRiddle":  "Embed your wisdom using only 1-2 metaphors and symbolic language.",
	"tangentialInsight":   "Approach the question from an unexpected but illuminating angle with minimal metaphor.",
	"absurdistPhilosophy": "Embrace one beautiful paradox and surreal connection.",
	"pureNonsense":        "Be delightfully absurd while somehow remaining oddly helpful. Use one metaphor at most.",
}

// ComposePrompt fills the persona template, appends a directive per active
// enhancement flag, then the response-type style guidance line.
func ComposePrompt(persona Persona, question string, payload ContextPayload, responseType ResponseType, enhancements EnhancementSet) string {
	var sb strings.Builder
	sb.WriteString(persona.Template.Fill(question, FormatForPrompt(payload)))

	if enhancements.ExtendedResponse {
		sb.WriteString("\n\nProvide a detailed response with deeper insights, but use maximum 2 metaphors.")
	}
	if enhancements.Empathetic {
		sb.WriteString("\n\nSpeak with gentle compassion, addressing the human directly with empathy. Use 'you' frequently and acknowledge their feelings. Limit metaphors to 2 maximum.")
	}
	if enhancements.RarePersonas {
		sb.WriteString("\n\nDraw upon ancient wisdom and scholarly knowledge. Use maximum 2 metaphors.")
	}
	if enhancements.GoodOmens {
		sb.WriteString("\n\nProvide an uplifting, positive response with favorable outcomes. Use maximum 2 metaphors.")
	}

	guidance, ok := responseTypeGuidance[responseType.ID]
	if !ok {
		guidance = responseTypeGuidance[defaultResponseTypeID]
	}
	sb.WriteString("\n\nResponse style: ")
	sb.WriteString(guidance)

	return sb.String()
}
