package oracle

// Offering is a purchasable gamification token. Costs are fixed in code as
// they are part of the economy balance, not deployment configuration.
type Offering struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Cost        int    `json:"cost"`
	Description string `json:"description"`
	Enhancement string `json:"enhancement"`
}

var offeringTable = []Offering{
	{ID: "candle", Name: "Sacred Candle", Cost: 5, Description: "Extended, detailed responses", Enhancement: "extended_response"},
	{ID: "lotus", Name: "Lotus Petals", Cost: 8, Description: "More empathetic, personalized guidance", Enhancement: "empathetic_tone"},
	{ID: "crystal", Name: "Crystal Focus", Cost: 12, Description: "Access to rare Oracle personas", Enhancement: "rare_personas"},
	{ID: "starlight", Name: "Starlight Blessing", Cost: 15, Description: "Premium experience with all enhancements", Enhancement: "premium_all"},
	{ID: "rare_persona", Name: "Rare Persona", Cost: 10, Description: "Increase chances of rare Oracle persona", Enhancement: "rare_persona_boost"},
	{ID: "good_omens", Name: "Good Omens", Cost: 25, Description: "Receive positive omens and uplifting guidance", Enhancement: "good_omens"},
}

func Offerings() []Offering {
	out := make([]Offering, len(offeringTable))
	copy(out, offeringTable)
	return out
}

// EnhancementSet is a pure function of the offering ids (plus any forced
// override); it carries no hidden state.
type EnhancementSet struct {
	ExtendedResponse bool `json:"extended_response"`
	Empathetic       bool `json:"empathetic"`
	RarePersonas     bool `json:"rare_personas"`
	PremiumVoice     bool `json:"premium_voice"`
	VisualEffects    bool `json:"visual_effects"`
	RarePersonaBoost bool `json:"rare_persona_boost"`
	GoodOmens        bool `json:"good_omens"`
}

func ResolveEnhancements(offeringIDs []string) EnhancementSet {
	has := func(id string) bool {
		for _, offering := range offeringIDs {
			if offering == id {
				return true
			}
		}
		return false
	}

	return EnhancementSet{
		ExtendedResponse: has("candle") || has("starlight"),
		Empathetic:       has("lotus") || has("starlight"),
		RarePersonas:     has("crystal") || has("starlight") || has("rare_persona"),
		PremiumVoice:     has("starlight"),
		VisualEffects:    len(offeringIDs) > 0,
		RarePersonaBoost: has("rare_persona"),
		GoodOmens:        has("good_omens"),
	}
}

// Level resolves the single metadata label, highest priority first.
func (e EnhancementSet) Level() string {
	switch {
	case e.PremiumVoice:
		return "starlight"
	case e.GoodOmens:
		return "good_omens"
	case e.RarePersonas || e.RarePersonaBoost:
		return "rare_persona"
	case e.Empathetic:
		return "lotus"
	case e.ExtendedResponse:
		return "candle"
	default:
		return "standard"
	}
}

func (e EnhancementSet) Active() bool {
	return e != EnhancementSet{}
}

// CostOf sums fixed offering costs; unknown ids contribute 0.
func CostOf(offeringIDs []string) int {
	total := 0
	for _, id := range offeringIDs {
		for _, offering := range offeringTable {
			if offering.ID == id {
				total += offering.Cost
				break
			}
		}
	}
	return total
}

// CanSpend reports whether balance covers the offerings. Spending exactly
// the held balance is legal.
func CanSpend(balance int, offeringIDs []string) bool {
	return CostOf(offeringIDs) <= balance
}
