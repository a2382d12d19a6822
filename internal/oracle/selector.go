package oracle

// jitterBand is the total width of the uniform noise added to each persona's
// mood-scaled probability; half of it on either side of zero.
const (
	jitterBand    = 0.15
	probabilityFloor = 0.01
)

// WeightedPick draws one id from parallel id/weight slices by cumulative
// threshold. Slice order is the walk order, so callers control tie texture.
// Returns false when weights are empty, sum to zero, or rounding leaves the
// draw past the final cumulative value.
func WeightedPick(rng Rand, ids []string, weights []float64) (string, bool) {
	if len(ids) == 0 || len(ids) != len(weights) {
		return "", false
	}

	total := 0.0
	for _, weight := range weights {
		if weight < 0 {
			return "", false
		}
		total += weight
	}
	if total <= 0 {
		return "", false
	}

	draw := rng.Float64() * total
	accumulator := 0.0
	for idx, weight := range weights {
		accumulator += weight
		if draw <= accumulator {
			return ids[idx], true
		}
	}
	return "", false
}

// SelectPersona applies the daily mood modifier and per-call jitter to every
// base probability, renormalizes, then draws. The jitter keeps a single
// high-probability persona from dominating a whole mood day.
func SelectPersona(rng Rand, mood Mood) Persona {
	adjusted := make([]float64, len(personaTable))
	total := 0.0
	for idx, persona := range personaTable {
		value := persona.Probability*mood.Modifier + (rng.Float64()-0.5)*jitterBand
		if value < probabilityFloor {
			value = probabilityFloor
		}
		adjusted[idx] = value
		total += value
	}

	for idx := range adjusted {
		adjusted[idx] /= total
	}

	draw := rng.Float64()
	accumulator := 0.0
	for idx, weight := range adjusted {
		accumulator += weight
		if draw <= accumulator {
			return personaTable[idx]
		}
	}

	// Floating-point edge: the cumulative sum can land a hair under 1.
	return personaTable[rng.Intn(len(personaTable))]
}

func SelectResponseType(rng Rand) ResponseType {
	ids := make([]string, len(responseTypeTable))
	weights := make([]float64, len(responseTypeTable))
	for idx, rt := range responseTypeTable {
		ids[idx] = rt.ID
		weights[idx] = rt.Weight
	}

	if id, ok := WeightedPick(rng, ids, weights); ok {
		if rt, found := responseTypeByID(id); found {
			return rt
		}
	}

	fallback, _ := responseTypeByID(defaultResponseTypeID)
	return fallback
}

// RarePersona picks uniformly from the rare subset.
func RarePersona(rng Rand) (Persona, bool) {
	if len(rarePersonaIDs) == 0 {
		return Persona{}, false
	}
	id := rarePersonaIDs[rng.Intn(len(rarePersonaIDs))]
	return personaByID(id)
}
