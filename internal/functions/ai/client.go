package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNotConfigured indicates the AI client is not configured
	ErrNotConfigured = errors.New("AI client not configured")
	// ErrAPICallFailed indicates the AI API call failed
	ErrAPICallFailed = errors.New("AI API call failed")
	// ErrInvalidResponse indicates an invalid response from the AI API
	ErrInvalidResponse = errors.New("invalid AI API response")
)

// Provider represents an AI provider
type Provider string

const (
	// ProviderGroq represents the Groq OpenAI-compatible API
	ProviderGroq Provider = "groq"
	// ProviderOpenAI represents OpenAI API
	ProviderOpenAI Provider = "openai"
	// ProviderCustom represents a custom OpenAI-compatible endpoint
	ProviderCustom Provider = "custom"
)

// summarySystemPrompt is the fixed instruction sent with every summary request.
const summarySystemPrompt = "You are a helpful assistant that summarizes emails. " +
	"Provide a concise summary of the key points and any important action items. " +
	"Keep the summary under 200 words."

const (
	summaryMaxTokens    = 200
	summaryTemperature  = 0.5
	promptContentLength = 2000
)

// Client handles chat-completion API communication for email summarization
type Client struct {
	provider   Provider
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	configured bool
}

// NewClient creates a new AI Client instance
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configure configures the AI client with provider settings
func (c *Client) Configure(provider, apiKey, model string) {
	c.ConfigureWithBaseURL(provider, apiKey, model, "")
}

// ConfigureWithBaseURL configures the AI client with provider settings and custom base URL
func (c *Client) ConfigureWithBaseURL(provider, apiKey, model, baseURL string) {
	c.provider = Provider(strings.ToLower(provider))
	c.apiKey = apiKey
	c.model = model
	c.configured = apiKey != ""

	if baseURL != "" {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
		return
	}

	switch c.provider {
	case ProviderOpenAI:
		c.baseURL = "https://api.openai.com/v1"
		if c.model == "" {
			c.model = "gpt-3.5-turbo"
		}
	case ProviderGroq:
		c.baseURL = "https://api.groq.com/openai/v1"
		if c.model == "" {
			c.model = "mixtral-8x7b-32768"
		}
	default:
		c.provider = ProviderGroq
		c.baseURL = "https://api.groq.com/openai/v1"
	}
}

// IsConfigured returns whether the client is configured
func (c *Client) IsConfigured() bool {
	return c.configured && c.apiKey != ""
}

// ChatMessage represents a message in a chat conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a chat completion request
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

// ChatResponse represents a chat completion response
type ChatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// sendChatRequest sends a chat completion request to the AI API
func (c *Client) sendChatRequest(messages []ChatMessage, maxTokens int, temperature float64) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	request := ChatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPICallFailed, err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPICallFailed, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPICallFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPICallFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrAPICallFailed, resp.StatusCode, string(respBody))
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrAPICallFailed, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", ErrInvalidResponse
	}

	return chatResp.Choices[0].Message.Content, nil
}

// buildEmailPrompt shapes one email into the user-message text. Body content
// beyond 2000 characters is dropped; the visible text always ends with an
// ellipsis marking the truncation point.
func buildEmailPrompt(subject, from string, date time.Time, text string) string {
	// Truncate on rune boundaries so multi-byte content is never split
	if runes := []rune(text); len(runes) > promptContentLength {
		text = string(runes[:promptContentLength])
	}
	return fmt.Sprintf("Subject: %s\nFrom: %s\nDate: %s\nContent: %s...",
		subject, from, date.Format(time.RFC3339), text)
}

// SummarizeEmail requests a summary for a single email. The first completion's
// message content is returned verbatim.
func (c *Client) SummarizeEmail(subject, from string, date time.Time, text string) (string, error) {
	emailText := buildEmailPrompt(subject, from, date, text)

	messages := []ChatMessage{
		{
			Role:    "system",
			Content: summarySystemPrompt,
		},
		{
			Role:    "user",
			Content: "Please provide a brief summary of this email:\n" + emailText,
		},
	}

	return c.sendChatRequest(messages, summaryMaxTokens, summaryTemperature)
}
