package api

import (
	"fmt"
	"strconv"
	"strings"
)

var validRatings = []string{"makes_sense", "beautifully_nonsensical", "unhelpful"}

func validateQuestion(value string, maxLen int) (string, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return "", fmt.Errorf("question is required")
	}
	if len([]rune(clean)) > maxLen {
		return "", fmt.Errorf("question too long, keep it under %d characters", maxLen)
	}
	return clean, nil
}

func validateRating(value string) (string, error) {
	clean := strings.TrimSpace(value)
	for _, rating := range validRatings {
		if clean == rating {
			return clean, nil
		}
	}
	return "", fmt.Errorf("invalid rating, must be one of: %s", strings.Join(validRatings, ", "))
}

func validateOfferingIDs(offerings []string) ([]string, error) {
	if len(offerings) == 0 {
		return nil, fmt.Errorf("no offerings specified")
	}
	clean := make([]string, 0, len(offerings))
	for _, id := range offerings {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			return nil, fmt.Errorf("offering id is empty")
		}
		clean = append(clean, trimmed)
	}
	return clean, nil
}

func parsePaginationLimit(raw string, defaultValue, minValue, maxValue int) (int, error) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(clean)
	if err != nil {
		return 0, fmt.Errorf("limit must be a number")
	}
	if value < minValue || value > maxValue {
		return 0, fmt.Errorf("limit must be between %d and %d", minValue, maxValue)
	}
	return value, nil
}
