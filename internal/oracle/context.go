package oracle

import "strings"

// ContextPayload maps a category name to the items sampled for one attempt.
type ContextPayload map[string][]string

var scientificFacts = []string{
	"Octopuses have three hearts and blue blood",
	"A single teaspoon of neutron star matter would weigh 6 billion tons",
	"Trees communicate through underground fungal networks called mycorrhizae",
	"The human brain contains approximately 86 billion neurons",
	"Time moves slower in stronger gravitational fields",
	"Butterflies can see ultraviolet patterns on flowers invisible to humans",
	"The center of the Milky Way smells like raspberries and rum",
	"Bananas share 60% of their DNA with humans",
	"A group of ravens is called a conspiracy",
	"Lightning creates temperatures 5 times hotter than the sun's surface",
	"The human eye can distinguish 10 million different colors",
	"Honey never spoils - 3000-year-old honey is still edible",
	"A single cloud can weigh more than a million pounds",
	"The shortest war in history lasted 38-45 minutes",
	"Whales sing songs that can travel thousands of miles underwater",
}

var historicalWisdom = []string{
	"Marcus Aurelius wrote 'You have power over your mind - not outside events'",
	"Lao Tzu taught that the journey of a thousand miles begins with one step",
	"Rumi said 'Yesterday I was clever, so I wanted to change the world. Today I am wise, so I am changing myself'",
	"The Oracle at Delphi proclaimed 'Know thyself' as the highest wisdom",
	"Confucius believed that real knowledge is knowing the extent of one's ignorance",
	"Maya Angelou observed that 'There is no greater agony than bearing an untold story inside you'",
	"Einstein noted that 'Imagination is more important than knowledge'",
	"The Buddha taught that pain is inevitable, but suffering is optional",
	"Socrates claimed that 'The unexamined life is not worth living'",
	"Gandhi said 'Be the change you wish to see in the world'",
	"Virginia Woolf wrote 'For most of history, Anonymous was a woman'",
	"Nelson Mandela learned that 'There is no passion to be found playing small'",
	"Ancient Egyptian wisdom: 'The best and shortest road towards knowledge of truth is Nature'",
	"Cherokee proverb: 'When you were born, you cried and the world rejoiced. Live your life so that when you die, the world cries and you rejoice'",
	"African proverb: 'If you want to go fast, go alone. If you want to go far, go together'",
}

var mythologicalReferences = []string{
	"Pandora's box reminds us that hope always remains, even after all troubles escape",
	"The Phoenix rises from its own ashes, symbolizing renewal and rebirth",
	"Sisyphus teaches us to find meaning in the struggle itself",
	"The labyrinth of Crete holds both the monster and the path to freedom",
	"Persephone's journey between worlds speaks to the cycles of loss and return",
	"Atlas carries the weight of the heavens, showing strength in responsibility",
	"The Norse concept of Wyrd suggests that fate is woven from our choices",
	"Anansi the spider-trickster teaches that wisdom often comes through cunning and humor",
	"The Hindu concept of Maya reveals that reality is more mysterious than it appears",
	"Celtic druids believed that wisdom grows at the intersection of three realms",
	"Japanese folklore speaks of the kitsune, whose wisdom increases with each tail",
	"The Aboriginal Dreamtime suggests that all time exists simultaneously",
	"Norse Ragnarok promises that endings make way for new beginnings",
	"The Greek Muses remind us that inspiration comes from beyond ourselves",
	"Chinese dragons represent the harmony between opposing forces",
}

var modernInsights = []string{
	"Psychology reveals that we are the stories we tell ourselves",
	"Quantum mechanics suggests that observation changes reality",
	"Neuroscience shows that meditation physically reshapes the brain",
	"Sociology demonstrates that individual choices create collective patterns",
	"Environmental science teaches that everything is interconnected",
	"Anthropology reveals that culture shapes what seems 'natural'",
	"Linguistics shows that language influences thought",
	"Behavioral economics proves that humans are beautifully irrational",
	"Astronomy reminds us that we are made of star stuff",
	"Ecology teaches that diversity creates resilience",
	"Cognitive science reveals that memory is more creative than accurate",
	"Network theory shows that small changes can have massive effects",
	"Chaos theory proves that patterns emerge from apparent randomness",
	"Game theory demonstrates that cooperation often beats competition",
	"Systems thinking reveals that problems and solutions are connected",
}

var randomTrivia = []string{
	"Cleopatra lived closer in time to the moon landing than to the building of the Great Pyramid",
	"Oxford University is older than the Aztec Empire",
	"Mammoths were still alive when the Great Pyramid was built",
	"The shortest commercial flight in the world lasts 90 seconds",
	"Sharks are older than trees",
	"There are more possible games of chess than atoms in the observable universe",
	"A group of pandas is called an embarrassment",
	"The unicorn is Scotland's national animal",
	"Lobsters were once considered peasant food",
	"The Great Wall of China isn't visible from space with the naked eye",
	"Bubble wrap was originally invented as wallpaper",
	"The longest recorded flight of a chicken is 13 seconds",
	"A jiffy is an actual unit of time - 1/100th of a second",
	"The dot over a lowercase 'i' or 'j' is called a tittle",
	"Bananas are berries, but strawberries aren't",
}

var loveContext = []string{
	"The neurochemistry of love involves dopamine, oxytocin, and serotonin",
	"Ancient Greeks identified six types of love, from eros to agape",
	"Prairie voles mate for life and comfort each other in distress",
}

var futureContext = []string{
	"Futurists predict that change will accelerate exponentially",
	"The ancient I Ching was designed to divine future possibilities",
	"Quantum mechanics suggests multiple futures exist simultaneously until observed",
}

var careerContext = []string{
	"Studies show that mastery grows from deliberate practice, not raw talent",
	"Medieval guilds treated every craft as a lifelong apprenticeship",
	"The Japanese concept of ikigai sits where passion, skill and need overlap",
}

var expressionContext = []string{
	"The cave painters of Lascaux worked by firelight thirty thousand years ago",
	"Improvising musicians show quieted self-censorship regions in brain scans",
	"Every spoken language began as someone's untested experiment",
}

// Rendering and fingerprint serialization walk categories in this order so
// the output is deterministic for a given payload.
var contextCategoryOrder = []string{
	"scientific", "historical", "mythological", "modern", "trivia",
	"spiritual", "love", "future", "career", "expression",
}

// GenerateContext draws a fresh random sample per call: one item per base
// category plus one item per matched bonus category.
func GenerateContext(rng Rand, themes []string) ContextPayload {
	payload := ContextPayload{
		"scientific":   {pickOne(rng, scientificFacts)},
		"historical":   {pickOne(rng, historicalWisdom)},
		"mythological": {pickOne(rng, mythologicalReferences)},
		"modern":       {pickOne(rng, modernInsights)},
		"trivia":       {pickOne(rng, randomTrivia)},
	}

	if hasTheme(themes, "spiritual") {
		payload["spiritual"] = []string{pickOne(rng, spiritualPool())}
	}
	if hasTheme(themes, "love") {
		payload["love"] = []string{pickOne(rng, loveContext)}
	}
	if hasTheme(themes, "future") {
		payload["future"] = []string{pickOne(rng, futureContext)}
	}
	if hasTheme(themes, "career") {
		payload["career"] = []string{pickOne(rng, careerContext)}
	}
	if hasTheme(themes, "existential") {
		payload["expression"] = []string{pickOne(rng, expressionContext)}
	}

	return payload
}

// The spiritual pool is assembled by keyword-filtering the mythological and
// historical lists rather than keeping a separate table.
func spiritualPool() []string {
	var pool []string
	for _, ref := range mythologicalReferences {
		if strings.Contains(ref, "wisdom") || strings.Contains(ref, "realm") {
			pool = append(pool, ref)
		}
	}
	for _, wisdom := range historicalWisdom {
		if strings.Contains(wisdom, "soul") || strings.Contains(wisdom, "spirit") {
			pool = append(pool, wisdom)
		}
	}
	if len(pool) == 0 {
		pool = mythologicalReferences
	}
	return pool
}

func hasTheme(themes []string, name string) bool {
	for _, theme := range themes {
		if theme == name {
			return true
		}
	}
	return false
}

// FormatForPrompt renders populated categories as "category: item; item"
// lines. Deterministic for a given payload.
func FormatForPrompt(payload ContextPayload) string {
	lines := make([]string, 0, len(payload))
	for _, category := range contextCategoryOrder {
		items := payload[category]
		if len(items) == 0 {
			continue
		}
		lines = append(lines, category+": "+strings.Join(items, "; "))
	}
	return strings.Join(lines, "\n")
}

var metaphors = map[string][]string{
	"nature": {
		"like a river finding its way to the sea",
		"as a seed that contains the entire forest",
		"like the moon that waxes and wanes in perfect cycles",
		"as mountains that stand firm while clouds pass",
		"like the tide that retreats only to return stronger",
	},
	"technology": {
		"like a network where each connection strengthens the whole",
		"as code that executes in perfect logic",
		"like a signal that travels instantly across vast distances",
		"as data that becomes wisdom through processing",
		"like a backup that preserves what matters most",
	},
	"cosmic": {
		"like stars that shine brightest in the deepest darkness",
		"as galaxies that spiral in eternal dance",
		"like light that travels for eons to reach waiting eyes",
		"as black holes that bend space and time around their mystery",
		"like the cosmic background radiation that whispers the universe's origin story",
	},
}

func RandomMetaphor(rng Rand, domain string) string {
	pool, ok := metaphors[domain]
	if !ok {
		pool = metaphors["nature"]
	}
	return pickOne(rng, pool)
}
