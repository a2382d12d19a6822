package oracle

import "testing"

func TestDedupCacheMarksAndReports(t *testing.T) {
	cache := NewDedupCache()

	if cache.Seen(42) {
		t.Fatalf("fresh cache should not know 42")
	}
	cache.MarkSeen(42)
	if !cache.Seen(42) {
		t.Fatalf("42 should be known after MarkSeen")
	}

	cache.MarkSeen(42)
	if cache.Len() != 1 {
		t.Fatalf("re-marking must not grow the cache, len=%d", cache.Len())
	}
}

func TestDedupCacheEvictsOldestBeyondBound(t *testing.T) {
	cache := NewDedupCache()

	for fp := 0; fp < dedupLimit; fp++ {
		cache.MarkSeen(fp)
	}
	if cache.Len() != dedupLimit {
		t.Fatalf("cache should hold exactly %d, got %d", dedupLimit, cache.Len())
	}

	cache.MarkSeen(dedupLimit)

	if cache.Len() != dedupLimit {
		t.Fatalf("insertion beyond bound must evict one, len=%d", cache.Len())
	}
	if cache.Seen(0) {
		t.Fatalf("oldest fingerprint should have been evicted")
	}
	if !cache.Seen(1) {
		t.Fatalf("second-oldest fingerprint should survive")
	}
	if !cache.Seen(dedupLimit) {
		t.Fatalf("newest fingerprint should be present")
	}
}

func TestFingerprintStableForSameInputs(t *testing.T) {
	payload := ContextPayload{
		"scientific": {"Sharks are older than trees"},
		"historical": {"Know thyself"},
	}

	first := Fingerprint("What awaits me?", "Cryptic Sage", payload)
	second := Fingerprint("What awaits me?", "Cryptic Sage", payload)
	if first != second {
		t.Fatalf("fingerprint not stable: %d vs %d", first, second)
	}
	if first < 0 {
		t.Fatalf("fingerprint must be non-negative, got %d", first)
	}
}

func TestFingerprintVariesWithComponents(t *testing.T) {
	payload := ContextPayload{"trivia": {"Sharks are older than trees"}}
	base := Fingerprint("What awaits me?", "Cryptic Sage", payload)

	if Fingerprint("What awaits you?", "Cryptic Sage", payload) == base {
		t.Fatalf("question change should alter fingerprint")
	}
	if Fingerprint("What awaits me?", "Nature Mystic", payload) == base {
		t.Fatalf("persona change should alter fingerprint")
	}
	other := ContextPayload{"trivia": {"Oxford University is older than the Aztec Empire"}}
	if Fingerprint("What awaits me?", "Cryptic Sage", other) == base {
		t.Fatalf("context change should alter fingerprint")
	}
}
