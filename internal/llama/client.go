package llama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"apptravel/internal/utils"
)

// SimulationPrefix marks answers synthesized locally because no model server answered
const SimulationPrefix = "Simulation:"

const (
	simulatedEchoLen = 50
	rawPayloadLen    = 200
)

// Server kinds, told apart by their well-known ports
const (
	KindGPT4All = "gpt4all"
	KindOllama  = "ollama"
	KindGeneric = "generic"
)

// Options configures a Client
type Options struct {
	Timeout     time.Duration
	OllamaModel string
	Temperature float64
}

// Client sends prompts to the discovered model server
type Client struct {
	discovery  *Discoverer
	httpClient *http.Client
	opts       Options
}

// NewClient creates a model client backed by discovery
func NewClient(discovery *Discoverer, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.OllamaModel == "" {
		opts.OllamaModel = "llama2"
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	return &Client{
		discovery:  discovery,
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
	}
}

// Discovery exposes the underlying discoverer
func (c *Client) Discovery() *Discoverer {
	return c.discovery
}

// Available reports whether a model server is currently known, probing if allowed
func (c *Client) Available(ctx context.Context) (string, bool) {
	return c.discovery.Discover(ctx, false)
}

// IsSimulated reports whether text was produced by simulation mode
func IsSimulated(text string) bool {
	return strings.HasPrefix(text, SimulationPrefix)
}

// Simulate returns the deterministic stand-in answer for prompt
func Simulate(prompt string) string {
	runes := []rune(prompt)
	if len(runes) > simulatedEchoLen {
		runes = runes[:simulatedEchoLen]
	}
	return SimulationPrefix + " " + string(runes) + "..."
}

// Generate sends prompt to the model server and returns its text.
// It never fails: on any problem the discovery state is cleared and a
// simulated answer is returned.
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int) string {
	base, ok := c.discovery.Discover(ctx, false)
	if !ok {
		return Simulate(prompt)
	}

	text, err := c.generate(ctx, base, prompt, maxTokens)
	if err != nil {
		log.Printf("❌ Model server call failed (%s): %v", base, err)
		c.discovery.Invalidate()
		return Simulate(prompt)
	}
	return text
}

func (c *Client) generate(ctx context.Context, base, prompt string, maxTokens int) (string, error) {
	kind := KindOf(base)
	url, payload := c.buildRequest(kind, base, prompt, maxTokens)

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model server returned status %d: %s", resp.StatusCode, utils.TruncateString(string(body), rawPayloadLen))
	}

	return ExtractText(body)
}

// KindOf guesses the server flavour from its base URL
func KindOf(base string) string {
	switch {
	case strings.Contains(base, ":11434"):
		return KindOllama
	case strings.Contains(base, ":4891"):
		return KindGPT4All
	default:
		return KindGeneric
	}
}

func (c *Client) buildRequest(kind, base, prompt string, maxTokens int) (string, map[string]any) {
	switch kind {
	case KindOllama:
		return base + "/api/generate", map[string]any{
			"model":  c.opts.OllamaModel,
			"prompt": prompt,
			"stream": false,
			"options": map[string]any{
				"temperature": c.opts.Temperature,
				"num_predict": maxTokens,
			},
		}
	case KindGPT4All:
		return base + "/v1/completions", map[string]any{
			"prompt":      prompt,
			"max_tokens":  maxTokens,
			"temperature": c.opts.Temperature,
		}
	default:
		return base + "/generate", map[string]any{
			"prompt":      prompt,
			"max_tokens":  maxTokens,
			"temperature": c.opts.Temperature,
		}
	}
}

// ExtractText pulls the answer out of the response shapes local servers use:
// {"response": ...}, {"choices": [{"text"|"message": ...}]}, {"content": ...}
// or {"text": ...}. Anything else is returned as truncated raw JSON.
func ExtractText(body []byte) (string, error) {
	var payload struct {
		Response *string `json:"response"`
		Choices  []struct {
			Text    *string `json:"text"`
			Message *struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Content *string `json:"content"`
		Text    *string `json:"text"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		if json.Valid(body) {
			return truncateRaw(body), nil
		}
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	switch {
	case payload.Response != nil:
		return strings.TrimSpace(*payload.Response), nil
	case len(payload.Choices) > 0:
		choice := payload.Choices[0]
		if choice.Text != nil {
			return strings.TrimSpace(*choice.Text), nil
		}
		if choice.Message != nil {
			return strings.TrimSpace(choice.Message.Content), nil
		}
		return "", nil
	case payload.Content != nil:
		return strings.TrimSpace(*payload.Content), nil
	case payload.Text != nil:
		return strings.TrimSpace(*payload.Text), nil
	}

	return truncateRaw(body), nil
}

func truncateRaw(body []byte) string {
	runes := []rune(strings.TrimSpace(string(body)))
	if len(runes) > rawPayloadLen {
		runes = runes[:rawPayloadLen]
	}
	return string(runes)
}
