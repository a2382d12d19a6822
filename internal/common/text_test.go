package common

import "testing"

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("  hello world  ", 0); got != "hello world" {
		t.Fatalf("zero max should only trim: %q", got)
	}
	if got := TruncateRunes("hello world", 5); got != "hello" {
		t.Fatalf("truncation mismatch: %q", got)
	}
	if got := TruncateRunes("héllo wörld", 7); got != "héllo w" {
		t.Fatalf("rune-safe truncation mismatch: %q", got)
	}
	if got := TruncateRunes("short", 50); got != "short" {
		t.Fatalf("under the limit should pass through: %q", got)
	}
}

func TestWordCount(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"will my garden bloom this year", 6},
		{"  spaced   out   words  ", 3},
	}
	for _, tc := range cases {
		if got := WordCount(tc.in); got != tc.want {
			t.Fatalf("%q: got %d want %d", tc.in, got, tc.want)
		}
	}
}
