package ai

import (
	"context"
	"fmt"
	"strings"
)

// MockClient answers without a network call. Used in dev and in tests.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(_ context.Context, prompt string) (string, error) {
	question := extractQuestionLine(prompt)
	if question == "" {
		question = "your question"
	}
	return fmt.Sprintf(
		"The currents of %s move like seasons turning. What you seek is already seeking you; tend the small choices and the larger path reveals itself.",
		question,
	), nil
}

func extractQuestionLine(prompt string) string {
	for _, line := range strings.Split(prompt, "\n") {
		clean := strings.TrimSpace(line)
		if strings.HasPrefix(clean, "Question:") {
			return strings.TrimSpace(strings.TrimPrefix(clean, "Question:"))
		}
	}
	return ""
}
