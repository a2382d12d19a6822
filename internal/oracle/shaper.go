package oracle

import "strings"

const (
	defaultMaxResponseLen  = 300
	extendedMaxResponseLen = 600
	shortResponseThreshold = 50
	truncateSentenceCount  = 2
	omenCount              = 3
	consolingCodaChance    = 0.3
)

const (
	consolingCoda = "\n\nRemember: even the darkest night gives way to dawn."
	shortFiller   = " The universe speaks in whispers."
	omenHeader    = "\n\nThree Omens to Watch For:\n"
)

var omenPools = map[string][]string{
	"professional": {
		"A door you hadn't noticed opens when you least expect it",
		"The counsel of an unexpected ally arrives at the perfect moment",
		"Your authentic voice carries further than forced confidence ever could",
	},
	"personal": {
		"A moment of clarity blooms from embracing uncertainty",
		"What seems like a detour reveals itself as the true path",
		"Your intuition speaks loudest in the quiet spaces between thoughts",
	},
	"relationships": {
		"Understanding flows both ways when you listen with your heart",
		"A gesture of vulnerability becomes a bridge of connection",
		"The love you seek is already being reflected back to you",
	},
	"past": {
		"A forgotten lesson resurfaces exactly when you need it most",
		"What once felt like an ending reveals itself as a beginning",
		"Healing happens in layers, and today another layer lifts",
	},
	"present": {
		"The next right step becomes clear when you trust the process",
		"Flow emerges naturally when you stop fighting the current",
		"Today's small actions create tomorrow's significant changes",
	},
	"future": {
		"Your vision aligns with opportunities you haven't yet seen",
		"Seeds planted in hope will sprout in perfect timing",
		"The path forward illuminates as you take each faithful step",
	},
}

// omenPoolOrder keeps the union pool deterministic before shuffling.
var omenPoolOrder = []string{"professional", "personal", "relationships", "past", "present", "future"}

var genericOmens = []string{
	"Serendipity dances around your daily choices",
	"Your unique perspective becomes a gift to others",
	"Hidden blessings reveal themselves through small moments",
}

// ShapeResponse post-processes raw generated text: consoling coda on
// negative sentiment, filler on too-short output, omens when purchased, and
// sentence truncation when over the cap without an overriding enhancement.
func ShapeResponse(rng Rand, text string, responseType ResponseType, analysis Analysis, enhancements EnhancementSet) string {
	maxLen := defaultMaxResponseLen
	if enhancements.ExtendedResponse {
		maxLen = extendedMaxResponseLen
	}

	if analysis.Sentiment == SentimentNegative && rng.Float64() < consolingCodaChance {
		text += consolingCoda
	}

	if len(text) < shortResponseThreshold && responseType.ID != "pureNonsense" {
		text += shortFiller
	}

	if enhancements.GoodOmens {
		text += omenHeader + strings.Join(GenerateOmens(rng, analysis), "\n")
	}

	if len(text) > maxLen && !enhancements.ExtendedResponse && !enhancements.GoodOmens {
		sentences := strings.Split(text, ". ")
		if len(sentences) > truncateSentenceCount {
			sentences = sentences[:truncateSentenceCount]
		}
		text = strings.Join(sentences, ". ")
		text = strings.TrimSuffix(text, ".") + "."
	}

	return text
}

// GenerateOmens returns exactly 3 omen lines: the pool matching the first
// detected theme when one exists, otherwise a shuffled sample of the union,
// padded from the generic pool if the match came up short.
func GenerateOmens(rng Rand, analysis Analysis) []string {
	var selected []string

	if len(analysis.Themes) > 0 {
		theme := strings.ToLower(analysis.Themes[0])
		if pool, exists := omenPools[theme]; exists {
			selected = append(selected, pool...)
		}
	}

	if len(selected) == 0 {
		var union []string
		for _, key := range omenPoolOrder {
			union = append(union, omenPools[key]...)
		}
		rng.Shuffle(len(union), func(i, j int) {
			union[i], union[j] = union[j], union[i]
		})
		selected = union[:omenCount]
	}

	for len(selected) < omenCount {
		selected = append(selected, genericOmens[len(selected)%len(genericOmens)])
	}

	return selected[:omenCount]
}
