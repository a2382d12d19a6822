package oracle

import (
	"regexp"
	"strings"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Analysis is the per-request classification of a question.
type Analysis struct {
	Themes     []string  `json:"themes"`
	IsQuestion bool      `json:"is_question"`
	Length     int       `json:"length"`
	Sentiment  Sentiment `json:"sentiment"`
}

// Theme order matters: downstream omen selection keys off the first match.
var themeMatchers = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"love", regexp.MustCompile(`(?i)love|relationship|heart|romance|partner|dating`)},
	{"career", regexp.MustCompile(`(?i)work|job|career|money|success|business|professional`)},
	{"life", regexp.MustCompile(`(?i)life|meaning|purpose|direction|lost|confused`)},
	{"future", regexp.MustCompile(`(?i)future|will|going to|prediction|forecast|tomorrow`)},
	{"past", regexp.MustCompile(`(?i)past|regret|yesterday|history|memory|mistake`)},
	{"spiritual", regexp.MustCompile(`(?i)spiritual|soul|god|universe|cosmic|divine`)},
	{"practical", regexp.MustCompile(`(?i)should|how to|advice|help|guide|what do`)},
	{"existential", regexp.MustCompile(`(?i)why|existence|reality|truth|consciousness|being`)},
}

var (
	positivePattern = regexp.MustCompile(`(?i)happy|joy|love|good|great|wonderful|amazing|excellent`)
	negativePattern = regexp.MustCompile(`(?i)sad|pain|hurt|bad|terrible|awful|hate|angry|depressed`)
)

func Analyze(question string) Analysis {
	themes := make([]string, 0, 2)
	for _, matcher := range themeMatchers {
		if matcher.pattern.MatchString(question) {
			themes = append(themes, matcher.name)
		}
	}

	return Analysis{
		Themes:     themes,
		IsQuestion: strings.Contains(question, "?"),
		Length:     len(question),
		Sentiment:  detectSentiment(question),
	}
}

// Positive wins when both match; negation ("not happy") is not handled.
func detectSentiment(text string) Sentiment {
	if positivePattern.MatchString(text) {
		return SentimentPositive
	}
	if negativePattern.MatchString(text) {
		return SentimentNegative
	}
	return SentimentNeutral
}
