package service

import (
	"context"
	"errors"
)

// ErrEmptyReply means the provider answered without text.
var ErrEmptyReply = errors.New("empty reply from AI provider")

type AssistantService interface {
	Chat(ctx context.Context, userID, message string) (string, error)
}
