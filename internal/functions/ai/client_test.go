package ai

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSummarizeEmailRequestShape(t *testing.T) {
	var captured ChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ChatResponse{
			Choices: []struct {
				Message ChatMessage `json:"message"`
			}{
				{Message: ChatMessage{Role: "assistant", Content: "the summary"}},
			},
		})
	}))
	defer server.Close()

	c := NewClient()
	c.ConfigureWithBaseURL("custom", "test-key", "test-model", server.URL)

	date := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	summary, err := c.SummarizeEmail("subj", "a@x.com", date, "body text")
	if err != nil {
		t.Fatalf("SummarizeEmail returned error: %v", err)
	}
	if summary != "the summary" {
		t.Errorf("summary = %q", summary)
	}

	if captured.Model != "test-model" {
		t.Errorf("model = %q", captured.Model)
	}
	if captured.MaxTokens != 200 {
		t.Errorf("max_tokens = %d", captured.MaxTokens)
	}
	if captured.Temperature != 0.5 {
		t.Errorf("temperature = %v", captured.Temperature)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("messages = %d, want system + user", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" || captured.Messages[1].Role != "user" {
		t.Errorf("roles = %s, %s", captured.Messages[0].Role, captured.Messages[1].Role)
	}
	if !strings.Contains(captured.Messages[1].Content, "Subject: subj") {
		t.Errorf("user message missing subject: %q", captured.Messages[1].Content)
	}
}

func TestSummarizeEmailErrors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		c := NewClient()
		c.Configure("groq", "", "")
		_, err := c.SummarizeEmail("s", "f", time.Now(), "t")
		if !errors.Is(err, ErrNotConfigured) {
			t.Errorf("err = %v, want ErrNotConfigured", err)
		}
	})

	t.Run("api error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer server.Close()

		c := NewClient()
		c.ConfigureWithBaseURL("custom", "k", "m", server.URL)
		_, err := c.SummarizeEmail("s", "f", time.Now(), "t")
		if !errors.Is(err, ErrAPICallFailed) {
			t.Errorf("err = %v, want ErrAPICallFailed", err)
		}
	})

	t.Run("no choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		c := NewClient()
		c.ConfigureWithBaseURL("custom", "k", "m", server.URL)
		_, err := c.SummarizeEmail("s", "f", time.Now(), "t")
		if !errors.Is(err, ErrInvalidResponse) {
			t.Errorf("err = %v, want ErrInvalidResponse", err)
		}
	})
}

// Property: the prompt carries at most 2000 characters of body text and always
// ends with the ellipsis marker.
func TestProperty_PromptTruncation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	date := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	properties.Property("body_truncated_at_2000_chars", prop.ForAll(
		func(size int) bool {
			text := strings.Repeat("a", size)
			prompt := buildEmailPrompt("s", "f@x.com", date, text)

			if !strings.HasSuffix(prompt, "...") {
				return false
			}
			idx := strings.Index(prompt, "Content: ")
			if idx < 0 {
				return false
			}
			content := strings.TrimSuffix(prompt[idx+len("Content: "):], "...")
			if size <= 2000 {
				return content == text
			}
			return content == text[:2000]
		},
		gen.IntRange(0, 5000),
	))

	properties.TestingRun(t)
}

// Truncation counts characters, not bytes: a multi-byte body must be cut on a
// rune boundary and never yield invalid UTF-8.
func TestPromptTruncationMultibyteBody(t *testing.T) {
	date := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	text := strings.Repeat("héllo wörld ", 300) // 3600 chars, 2 multi-byte each

	prompt := buildEmailPrompt("s", "f@x.com", date, text)
	if !utf8.ValidString(prompt) {
		t.Fatal("prompt contains invalid UTF-8")
	}

	idx := strings.Index(prompt, "Content: ")
	if idx < 0 {
		t.Fatalf("prompt missing content section: %q", prompt)
	}
	content := strings.TrimSuffix(prompt[idx+len("Content: "):], "...")
	if got := utf8.RuneCountInString(content); got != 2000 {
		t.Errorf("content length = %d runes, want 2000", got)
	}
	if want := string([]rune(text)[:2000]); content != want {
		t.Error("content is not the first 2000 characters of the body")
	}
}

func TestDefaultBaseURLs(t *testing.T) {
	tests := []struct {
		provider string
		baseURL  string
	}{
		{"groq", "https://api.groq.com/openai/v1"},
		{"openai", "https://api.openai.com/v1"},
		{"unknown", "https://api.groq.com/openai/v1"},
	}
	for _, tt := range tests {
		c := NewClient()
		c.Configure(tt.provider, "k", "m")
		if c.baseURL != tt.baseURL {
			t.Errorf("%s: baseURL = %q, want %q", tt.provider, c.baseURL, tt.baseURL)
		}
	}
}
