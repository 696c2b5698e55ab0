// pkg/ai/gemini_client.go

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type gemini struct {
	endpoint string
	key      string
	model    string
}

// NewGemini calls the Generative Language REST API (models/{model}:generateContent).
func NewGemini(endpoint, key, model string) Client {
	if endpoint == "" {
		endpoint = "https://generativelanguage.googleapis.com"
	}
	return &gemini{endpoint: endpoint, key: key, model: model}
}

func (c *gemini) Name() string { return "gemini" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

func (c *gemini) Generate(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"contents": []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(c.endpoint, "/"), url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.key)

	resp, err := httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus("gemini", resp); err != nil {
		return "", err
	}

	var out struct {
		Candidates []struct {
			Content geminiContent `json:"content"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason"`
		} `json:"promptFeedback"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("gemini: decode: %w", err)
	}
	if out.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini: prompt blocked: %s", out.PromptFeedback.BlockReason)
	}
	if len(out.Candidates) == 0 {
		return "", nil
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
