// pkg/ai/client.go

package ai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client sends one prompt to a text generation provider. An empty string with
// a nil error means the provider answered without content.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

var httpc = &http.Client{Timeout: 30 * time.Second}

// ProviderError carries a non-2xx provider response.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Body)
}

func checkStatus(provider string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return &ProviderError{Provider: provider, Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}
