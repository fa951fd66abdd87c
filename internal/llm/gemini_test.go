package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type geminiCall struct {
	path string
	body map[string]any
}

func newTestGemini(t *testing.T, status int, reply any) (*GeminiProvider, *geminiCall) {
	t.Helper()
	call := &geminiCall{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call.path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &call.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(server.Close)

	p, err := newGemini(context.Background(), GeminiConfig{APIKey: "test-key", Model: "gemini-flash"},
		genai.HTTPOptions{BaseURL: server.URL})
	require.NoError(t, err)
	return p, call
}

func geminiReply(text, finish string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": text}}},
			"finishReason": finish,
		}},
		"usageMetadata": map[string]any{
			"promptTokenCount":     30,
			"candidatesTokenCount": 6,
			"totalTokenCount":      36,
		},
	}
}

func TestGeminiProvider_PurposeModelOverride(t *testing.T) {
	p, call := newTestGemini(t, http.StatusOK, geminiReply(`{"score":70,"feedback":"ok"}`, "STOP"))
	assert.Equal(t, "gemini-2.5-flash", p.ModelID())

	resp, err := p.Generate(context.Background(), Request{
		Messages:  UserMessage("Evaluate this answer."),
		Schema:    evaluationSchema(),
		MaxTokens: 256,
		Model:     "gemini-lite",
	})
	require.NoError(t, err)
	assert.Contains(t, call.path, "models/gemini-2.5-flash-lite:generateContent")
	assert.JSONEq(t, `{"score":70,"feedback":"ok"}`, string(resp.Content))
	assert.Equal(t, 36, resp.Usage.TotalTokens)
	assert.Equal(t, "gemini-2.5-flash-lite", resp.Model)

	gen, _ := call.body["generationConfig"].(map[string]any)
	require.NotNil(t, gen, "generation config sent")
	assert.Equal(t, "application/json", gen["responseMimeType"])
	assert.Contains(t, gen, "responseJsonSchema")
}

func TestGeminiProvider_DefaultModel(t *testing.T) {
	p, call := newTestGemini(t, http.StatusOK, geminiReply(`plain words`, "STOP"))

	resp, err := p.Generate(context.Background(), Request{Messages: UserMessage("hi"), MaxTokens: 20})
	require.NoError(t, err)
	assert.Contains(t, call.path, "models/gemini-2.5-flash:generateContent")
	assert.Equal(t, "plain words", string(resp.Content))
}

func TestGeminiProvider_Truncated(t *testing.T) {
	p, _ := newTestGemini(t, http.StatusOK, geminiReply(`{"score":7`, "MAX_TOKENS"))

	_, err := p.Generate(context.Background(), Request{
		Messages:  UserMessage("Evaluate this answer."),
		Schema:    evaluationSchema(),
		MaxTokens: 3,
	})
	var maxTok *ErrMaxTokensExceeded
	require.ErrorAs(t, err, &maxTok)
}

func TestGeminiProvider_Errors(t *testing.T) {
	cases := []struct {
		status int
		check  func(t *testing.T, err error)
	}{
		{http.StatusTooManyRequests, func(t *testing.T, err error) {
			var rl *ErrRateLimit
			require.ErrorAs(t, err, &rl)
		}},
		{http.StatusServiceUnavailable, func(t *testing.T, err error) {
			var unavail *ErrProviderUnavailable
			require.ErrorAs(t, err, &unavail)
		}},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			p, _ := newTestGemini(t, tc.status, map[string]any{
				"error": map[string]any{"code": tc.status, "message": "try later", "status": "UNAVAILABLE"},
			})
			_, err := p.Generate(context.Background(), Request{Messages: UserMessage("hi"), MaxTokens: 20})
			tc.check(t, err)
		})
	}
}

func TestModelTable(t *testing.T) {
	assert.Equal(t, "gemini-2.5-pro", geminiModels.resolve("gemini-pro"))
	assert.Equal(t, "gemini-2.0-flash", geminiModels.resolve("gemini-2.0-flash"))
	assert.Equal(t, "claude-haiku-4-5-20251001", anthropicModels.pick(Request{Model: "claude-haiku"}, "x"))
	assert.Equal(t, "x", anthropicModels.pick(Request{}, "x"))

	var passthrough modelTable
	assert.Equal(t, "google/gemini-2.0-flash-exp", passthrough.pick(Request{Model: "google/gemini-2.0-flash-exp"}, "x"))
}
