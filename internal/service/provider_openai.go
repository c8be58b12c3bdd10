package service

import (
	"encoding/json"
	"strings"
)

// StreamChunkParser is the interface for provider-specific chunk parsing
type StreamChunkParser interface {
	ParseChunk(data []byte) (*StreamChunk, error)
}

// OpenAIStreamChunkParser parses OpenAI-format streaming chunks. llama.cpp
// and vLLM put reasoning output in reasoning_content; it is kept apart from
// the answer text.
type OpenAIStreamChunkParser struct{}

// ParseChunk converts an OpenAI chunk to a generic StreamChunk
func (p *OpenAIStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	var rawChunk struct {
		Choices []struct {
			Delta struct {
				Role             string `json:"role,omitempty"`
				Content          string `json:"content,omitempty"`
				ReasoningContent string `json:"reasoning_content,omitempty"`
			} `json:"delta"`
			Text         string `json:"text,omitempty"`
			FinishReason string `json:"finish_reason,omitempty"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(data, &rawChunk); err != nil {
		return nil, err
	}

	chunk := &StreamChunk{}
	if len(rawChunk.Choices) > 0 {
		choice := rawChunk.Choices[0]
		chunk.Role = choice.Delta.Role
		chunk.Content = choice.Delta.Content
		if chunk.Content == "" {
			chunk.Content = choice.Text
		}
		chunk.ThinkingContent = choice.Delta.ReasoningContent
		chunk.Done = choice.FinishReason != ""
	}

	return chunk, nil
}

// IsOpenAIProvider checks if the base URL is official OpenAI API
func IsOpenAIProvider(baseURL string) bool {
	return strings.Contains(baseURL, "api.openai.com")
}

// IsOllamaProvider checks if the base URL points at Ollama's OpenAI-compatible API
func IsOllamaProvider(baseURL string) bool {
	return strings.Contains(baseURL, ":11434")
}
