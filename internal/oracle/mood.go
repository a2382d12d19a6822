package oracle

import "time"

// Mood scales persona base probabilities for one calendar day.
type Mood struct {
	Name        string  `json:"name"`
	Modifier    float64 `json:"modifier"`
	Description string  `json:"description"`
}

var moodTable = []Mood{
	{Name: "Contemplative", Modifier: 1.2, Description: "Deep in thought about existence"},
	{Name: "Playful", Modifier: 0.8, Description: "Finding joy in cosmic jokes"},
	{Name: "Mystical", Modifier: 1.5, Description: "Veil between worlds is thin"},
	{Name: "Practical", Modifier: 0.6, Description: "Focused on earthly matters"},
	{Name: "Prophetic", Modifier: 1.1, Description: "Visions of past and future flow freely"},
	{Name: "Chaotic", Modifier: 0.9, Description: "Reality bends in unexpected ways"},
}

const moodDateLayout = "Mon Jan 02 2006"

// MoodFor is pure: every request on the same local calendar day sees the
// same mood regardless of time of day.
func MoodFor(date time.Time) Mood {
	seed := hashString(date.Format(moodDateLayout))
	return moodTable[seed%len(moodTable)]
}

// hashString is the 32-bit polynomial rolling hash shared by MoodFor and
// response fingerprinting. Overflow wraps at 32 bits on purpose.
func hashString(value string) int {
	var hash int32
	for _, r := range value {
		hash = hash*31 + int32(r)
	}
	wide := int64(hash)
	if wide < 0 {
		wide = -wide
	}
	return int(wide)
}
