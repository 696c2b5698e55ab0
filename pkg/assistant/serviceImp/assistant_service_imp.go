package serviceImp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"agrimind/pkg/ai"
	"agrimind/pkg/assistant/service"
	"agrimind/pkg/metrics"
	snapshotSvc "agrimind/pkg/snapshot/service"
)

// PreviewLimit caps how much of the snapshot goes into the prompt, in characters.
const PreviewLimit = 500

type assistantService struct {
	llm       ai.Client
	snapshots snapshotSvc.SnapshotService
	metrics   *metrics.Metrics
	log       zerolog.Logger
}

func New(llm ai.Client, snapshots snapshotSvc.SnapshotService, m *metrics.Metrics, log zerolog.Logger) service.AssistantService {
	return &assistantService{
		llm:       llm,
		snapshots: snapshots,
		metrics:   m,
		log:       log.With().Str("component", "assistant").Str("provider", llm.Name()).Logger(),
	}
}

func (s *assistantService) Chat(ctx context.Context, userID, message string) (string, error) {
	snap, err := s.snapshots.Load(ctx, userID)
	if err != nil {
		// the snapshot only enriches the prompt
		s.log.Warn().Err(err).Str("user", userID).Msg("[assistant] snapshot unavailable")
		snap = nil
	}

	reply, err := s.llm.Generate(ctx, BuildPrompt(message, snap))
	if err != nil {
		s.metrics.IncAssistant("error")
		s.log.Error().Err(err).Str("user", userID).Msg("[assistant] provider failed")
		return "", fmt.Errorf("%s: %w", s.llm.Name(), err)
	}
	if strings.TrimSpace(reply) == "" {
		s.metrics.IncAssistant("empty")
		return "", service.ErrEmptyReply
	}
	s.metrics.IncAssistant("ok")
	return reply, nil
}

// BuildPrompt embeds at most PreviewLimit characters of the user's snapshot.
func BuildPrompt(message string, snapshot map[string]any) string {
	summary := "The user is interacting with the AgriMind application."
	if len(snapshot) > 0 {
		summary += fmt.Sprintf(" They have some data stored: %s...", preview(snapshot))
	} else {
		summary += " They currently have no specific data synced via UserLocalStorage."
	}

	return fmt.Sprintf(`You are an AI assistant for AgriMind, an agricultural management application.
User's context: %s
User's question: "%s"

Please provide a helpful and concise answer based on the user's question and their context.
If the question is about their specific data and the provided context is insufficient,
you can state that you need more specific information from their records or suggest
where they might find it in the application.
Keep your responses focused on agricultural advice or app usage.
`, summary, message)
}

func preview(snapshot map[string]any) string {
	b, err := json.Marshal(snapshot)
	if err != nil {
		return ""
	}
	r := []rune(string(b))
	if len(r) > PreviewLimit {
		r = r[:PreviewLimit]
	}
	return string(r)
}
