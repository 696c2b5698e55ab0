package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGemini_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-1.5-flash-latest:generateContent", r.URL.Path)
		assert.Equal(t, "k1", r.Header.Get("x-goog-api-key"))
		var body struct {
			Contents []geminiContent `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body.Contents[0].Parts[0].Text)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Plant "},{"text":"in spring."}]}}]}`))
	}))
	defer srv.Close()

	reply, err := NewGemini(srv.URL, "k1", "gemini-1.5-flash-latest").Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Plant in spring.", reply)
}

func TestGemini_EmptyAndErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	reply, err := NewGemini(srv.URL, "k", "m").Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, reply)

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"API key not valid"}`, http.StatusForbidden)
	}))
	defer bad.Close()

	_, err = NewGemini(bad.URL, "k", "m").Generate(context.Background(), "x")
	require.Error(t, err)
	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusForbidden, pe.Status)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestOpenAI_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  Water at dawn. "}}]}`))
	}))
	defer srv.Close()

	reply, err := NewOpenAI(srv.URL+"/", "sk", "gpt-4o-mini").Generate(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "Water at dawn.", reply)
}

func TestMock_EchoesQuestion(t *testing.T) {
	reply, err := NewMock().Generate(context.Background(), "context\nUser's question: \"when to sow?\"\n")
	require.NoError(t, err)
	assert.Contains(t, reply, "when to sow?")
}
