package api

import (
	"strings"
	"testing"
)

func TestValidateQuestion(t *testing.T) {
	if _, err := validateQuestion("", 500); err == nil {
		t.Fatalf("empty question should be rejected")
	}
	if _, err := validateQuestion("   ", 500); err == nil {
		t.Fatalf("whitespace question should be rejected")
	}
	if _, err := validateQuestion(strings.Repeat("a", 501), 500); err == nil {
		t.Fatalf("question over the limit should be rejected")
	}

	got, err := validateQuestion("  Will it rain?  ", 500)
	if err != nil {
		t.Fatalf("valid question rejected: %v", err)
	}
	if got != "Will it rain?" {
		t.Fatalf("question not trimmed: %q", got)
	}

	if _, err := validateQuestion(strings.Repeat("a", 500), 500); err != nil {
		t.Fatalf("question at the limit should pass: %v", err)
	}
}

func TestValidateRating(t *testing.T) {
	for _, rating := range []string{"makes_sense", "beautifully_nonsensical", "unhelpful"} {
		if _, err := validateRating(rating); err != nil {
			t.Fatalf("rating %s should be valid: %v", rating, err)
		}
	}
	if _, err := validateRating("five_stars"); err == nil {
		t.Fatalf("unknown rating should be rejected")
	}
	if _, err := validateRating(""); err == nil {
		t.Fatalf("empty rating should be rejected")
	}
}

func TestValidateOfferingIDs(t *testing.T) {
	if _, err := validateOfferingIDs(nil); err == nil {
		t.Fatalf("empty offerings list should be rejected")
	}
	if _, err := validateOfferingIDs([]string{"candle", " "}); err == nil {
		t.Fatalf("blank offering id should be rejected")
	}

	got, err := validateOfferingIDs([]string{" candle ", "lotus"})
	if err != nil {
		t.Fatalf("valid offerings rejected: %v", err)
	}
	if got[0] != "candle" || got[1] != "lotus" {
		t.Fatalf("offerings not trimmed: %v", got)
	}
}

func TestParsePaginationLimit(t *testing.T) {
	if got, err := parsePaginationLimit("", 10, 1, 50); err != nil || got != 10 {
		t.Fatalf("empty limit should default: got %d err %v", got, err)
	}
	if got, err := parsePaginationLimit("25", 10, 1, 50); err != nil || got != 25 {
		t.Fatalf("numeric limit mishandled: got %d err %v", got, err)
	}
	if _, err := parsePaginationLimit("51", 10, 1, 50); err == nil {
		t.Fatalf("limit above max should be rejected")
	}
	if _, err := parsePaginationLimit("0", 10, 1, 50); err == nil {
		t.Fatalf("limit below min should be rejected")
	}
	if _, err := parsePaginationLimit("abc", 10, 1, 50); err == nil {
		t.Fatalf("non-numeric limit should be rejected")
	}
}
