package oracle

import "testing"

func TestResolveEnhancementsStarlight(t *testing.T) {
	set := ResolveEnhancements([]string{"starlight"})

	if !set.ExtendedResponse || !set.Empathetic || !set.RarePersonas || !set.PremiumVoice || !set.VisualEffects {
		t.Fatalf("starlight should light all premium flags: %+v", set)
	}
	if set.RarePersonaBoost || set.GoodOmens {
		t.Fatalf("starlight must not imply rare_persona boost or good omens: %+v", set)
	}
	if level := set.Level(); level != "starlight" {
		t.Fatalf("level mismatch: got %s", level)
	}
}

func TestResolveEnhancementsEmpty(t *testing.T) {
	set := ResolveEnhancements(nil)

	if set.Active() {
		t.Fatalf("no offerings should produce the zero set: %+v", set)
	}
	if level := set.Level(); level != "standard" {
		t.Fatalf("level mismatch: got %s", level)
	}
}

func TestResolveEnhancementsSingles(t *testing.T) {
	cases := []struct {
		offering string
		level    string
	}{
		{"candle", "candle"},
		{"lotus", "lotus"},
		{"crystal", "rare_persona"},
		{"rare_persona", "rare_persona"},
		{"good_omens", "good_omens"},
	}
	for _, tc := range cases {
		set := ResolveEnhancements([]string{tc.offering})
		if !set.VisualEffects {
			t.Fatalf("%s: any offering implies visual effects", tc.offering)
		}
		if level := set.Level(); level != tc.level {
			t.Fatalf("%s: level got %s want %s", tc.offering, level, tc.level)
		}
	}
}

func TestCostOf(t *testing.T) {
	if got := CostOf([]string{"candle", "lotus"}); got != 13 {
		t.Fatalf("candle+lotus should cost 13, got %d", got)
	}
	if got := CostOf([]string{"unknown_token"}); got != 0 {
		t.Fatalf("unknown offering should cost 0, got %d", got)
	}
	if got := CostOf(nil); got != 0 {
		t.Fatalf("no offerings should cost 0, got %d", got)
	}
	if got := CostOf([]string{"good_omens", "starlight"}); got != 40 {
		t.Fatalf("good_omens+starlight should cost 40, got %d", got)
	}
}

func TestCanSpendBoundary(t *testing.T) {
	offerings := []string{"candle", "lotus"} // 13

	if !CanSpend(13, offerings) {
		t.Fatalf("spending exactly the held balance is legal")
	}
	if CanSpend(12, offerings) {
		t.Fatalf("spending beyond the balance is illegal")
	}
	if !CanSpend(0, nil) {
		t.Fatalf("spending nothing is always legal")
	}
}

func TestOfferingsReturnsCopy(t *testing.T) {
	first := Offerings()
	first[0].Cost = 999

	second := Offerings()
	if second[0].Cost == 999 {
		t.Fatalf("Offerings must not expose the internal table")
	}
}
