// pkg/ai/mock_client.go

package ai

import (
	"context"
	"strings"
)

type mockClient struct{}

func NewMock() Client { return &mockClient{} }

func (m *mockClient) Name() string { return "mock" }

// Generate answers from the question line of the prompt without any network call.
func (m *mockClient) Generate(_ context.Context, prompt string) (string, error) {
	q := ""
	for _, line := range strings.Split(prompt, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "User's question:") {
			q = strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "User's question:")), `"`)
			break
		}
	}
	if q == "" {
		return "AgriMind assistant (mock): configure AI_PROVIDER for real answers.", nil
	}
	return "AgriMind assistant (mock): you asked \"" + q + "\". Configure AI_PROVIDER for real answers.", nil
}
