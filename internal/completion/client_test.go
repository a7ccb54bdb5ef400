package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeyaochen/portfolio/internal/profile"
)

type wireRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content any    `json:"content"`
	} `json:"messages"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

func contentText(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case []any:
		var parts []string
		for _, p := range c {
			if m, ok := p.(map[string]any); ok {
				parts = append(parts, fmt.Sprint(m["text"]))
			}
		}
		return strings.Join(parts, "")
	}
	return ""
}

func testProfile(t *testing.T) *profile.Profile {
	t.Helper()
	p, err := profile.Default()
	require.NoError(t, err)
	return p
}

const okBody = `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-3.5-turbo",
"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Joe studies data science."}}]}`

func TestNew_DisabledWithoutKey(t *testing.T) {
	assert.Nil(t, New(Config{}, testProfile(t)))
}

func TestComplete_Success(t *testing.T) {
	var got wireRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), "path %s", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, okBody)
	}))
	defer srv.Close()

	p := testProfile(t)
	c := New(Config{APIKey: "test-key", BaseURL: srv.URL}, p)
	require.NotNil(t, c)

	history := []Message{
		{Role: "assistant", Content: "welcome"},
		{Role: "user", Content: "q1"},
		{Role: "assistant", Content: "a1"},
		{Role: "user", Content: "q2"},
		{Role: "assistant", Content: "a2"},
		{Role: "user", Content: "q3"},
		{Role: "assistant", Content: "a3"},
	}
	reply, err := c.Complete(context.Background(), history, "what does joe do?")
	require.NoError(t, err)
	assert.Equal(t, "Joe studies data science.", reply)

	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.InDelta(t, DefaultTemperature, got.Temperature, 1e-9)

	// system + last 5 turns + new user turn
	require.Len(t, got.Messages, 7)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, contentText(got.Messages[0].Content), p.Personal.Name)
	var window []string
	for _, m := range got.Messages[1:6] {
		window = append(window, contentText(m.Content))
	}
	assert.Equal(t, []string{"a1", "q2", "a2", "q3", "a3"}, window)
	assert.Equal(t, "assistant", got.Messages[1].Role)
	assert.Equal(t, "user", got.Messages[6].Role)
	assert.Equal(t, "what does joe do?", contentText(got.Messages[6].Content))
}

func TestComplete_FailuresAreErrorsWithoutRetry(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`},
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key","type":"invalid_request_error"}}`},
		{"malformed body", http.StatusOK, `not json`},
		{"no choices", http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			c := New(Config{APIKey: "k", BaseURL: srv.URL}, testProfile(t))
			_, err := c.Complete(context.Background(), nil, "hi")
			assert.Error(t, err)
			assert.Equal(t, int32(1), calls.Load(), "exactly one network call")
		})
	}
}

func TestBuildMessages_ShortHistory(t *testing.T) {
	msgs := BuildMessages("sys", []Message{{Role: "user", Content: "a"}}, "b")
	assert.Len(t, msgs, 3)
}

func TestComplete_ContextWindowBoundaries(t *testing.T) {
	turns := func(n int) []Message {
		out := make([]Message, n)
		for i := range out {
			role := "user"
			if i%2 == 0 {
				role = "assistant"
			}
			out[i] = Message{Role: role, Content: fmt.Sprintf("t%d", i)}
		}
		return out
	}

	tests := []struct {
		name    string
		history []Message
		want    []string
	}{
		{"empty", nil, nil},
		{"fewer than window", turns(3), []string{"t0", "t1", "t2"}},
		{"exactly window", turns(ContextTurns), []string{"t0", "t1", "t2", "t3", "t4"}},
		{"one over window", turns(ContextTurns + 1), []string{"t1", "t2", "t3", "t4", "t5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got wireRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, okBody)
			}))
			defer srv.Close()

			c := New(Config{APIKey: "k", BaseURL: srv.URL}, testProfile(t))
			_, err := c.Complete(context.Background(), tt.history, "next")
			require.NoError(t, err)

			require.Len(t, got.Messages, len(tt.want)+2)
			var window []string
			for _, m := range got.Messages[1 : len(got.Messages)-1] {
				window = append(window, contentText(m.Content))
			}
			assert.Equal(t, tt.want, window)
			assert.Equal(t, "next", contentText(got.Messages[len(got.Messages)-1].Content))
		})
	}
}

func TestSystemPrompt_IncludesProfile(t *testing.T) {
	p := testProfile(t)
	prompt := SystemPrompt(p)

	assert.Contains(t, prompt, p.Personal.Email)
	assert.Contains(t, prompt, p.Education.Current)
	assert.Contains(t, prompt, p.Projects[0].Name)
	assert.Contains(t, prompt, "Don't make up information")
}
