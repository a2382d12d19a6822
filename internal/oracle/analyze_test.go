package oracle

import (
	"reflect"
	"testing"
)

func TestAnalyzeDetectsLoveTheme(t *testing.T) {
	analysis := Analyze("Will I find love?")

	if !hasTheme(analysis.Themes, "love") {
		t.Fatalf("expected love theme, got %v", analysis.Themes)
	}
	if !analysis.IsQuestion {
		t.Fatalf("text with ? should be a question")
	}
}

func TestAnalyzeThemeOrderFollowsTable(t *testing.T) {
	analysis := Analyze("Should I leave my job for love?")

	want := []string{"love", "career", "practical"}
	if !reflect.DeepEqual(analysis.Themes, want) {
		t.Fatalf("theme order mismatch: got %v want %v", analysis.Themes, want)
	}
}

func TestAnalyzeNeutralEmptyInput(t *testing.T) {
	analysis := Analyze("")

	if len(analysis.Themes) != 0 {
		t.Fatalf("empty input should yield no themes, got %v", analysis.Themes)
	}
	if analysis.Sentiment != SentimentNeutral {
		t.Fatalf("empty input should be neutral, got %s", analysis.Sentiment)
	}
	if analysis.IsQuestion {
		t.Fatalf("empty input is not a question")
	}
}

func TestAnalyzeNoKeywordText(t *testing.T) {
	analysis := Analyze("Describe a gray stone on a quiet road")

	if len(analysis.Themes) != 0 {
		t.Fatalf("expected no themes, got %v", analysis.Themes)
	}
	if analysis.Sentiment != SentimentNeutral {
		t.Fatalf("expected neutral, got %s", analysis.Sentiment)
	}
}

func TestDetectSentimentPositiveWinsOverNegative(t *testing.T) {
	// Contains both "happy" and "sad"; positive is checked first.
	if got := detectSentiment("I was sad but now I am happy"); got != SentimentPositive {
		t.Fatalf("positive should take precedence, got %s", got)
	}
	if got := detectSentiment("everything feels terrible"); got != SentimentNegative {
		t.Fatalf("expected negative, got %s", got)
	}
	if got := detectSentiment("the sky is blue"); got != SentimentNeutral {
		t.Fatalf("expected neutral, got %s", got)
	}
}

func TestAnalyzeCaseInsensitive(t *testing.T) {
	analysis := Analyze("MY CAREER IS AMAZING")

	if !hasTheme(analysis.Themes, "career") {
		t.Fatalf("uppercase career keyword should match, got %v", analysis.Themes)
	}
	if analysis.Sentiment != SentimentPositive {
		t.Fatalf("uppercase positive keyword should match, got %s", analysis.Sentiment)
	}
}
