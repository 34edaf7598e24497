// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package generate provides the text-generation backend of the inference
pipeline.

# Architecture

  - Client: the minimal contract the orchestrator needs (prompt in, text out).
  - GeminiClient: REST implementation against the Google Generative Language
    API's generateContent method.
  - CachedClient: optional Redis read-through layer for deterministic
    advisory prompts.
*/
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrEmptyResponse is returned when the model answers without any text,
// typically because a safety filter swallowed the candidate.
var ErrEmptyResponse = errors.New("generate: no response generated")

// Client generates free text from a prompt.
type Client interface {

	/*
		Generate produces a completion for the prompt.

		Parameters:
		  - context: context.Context (carries the per-stage deadline)
		  - prompt: string

		Returns:
		  - string: Generated text
		  - error: Transport failures, empty completions, or deadline expiry
	*/
	Generate(context context.Context, prompt string) (string, error)
}

// # Gemini REST Implementation

// GeminiClient calls the generateContent endpoint of the Generative
// Language API.
type GeminiClient struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

// NewGeminiClient constructs a client for the given API base URL and model.
func NewGeminiClient(baseURL, model, apiKey string) *GeminiClient {
	return &GeminiClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		client: &http.Client{
			// Transport ceiling only. Request deadlines come from the caller.
			Timeout: 60 * time.Second,
		},
	}
}

// Wire types for the generateContent request/response pair. Only the fields
// the service reads are declared.

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig generationConfig  `json:"generationConfig"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

/*
Generate calls the model and returns the concatenated candidate text.

Parameters:
  - context: context.Context
  - prompt: string

Returns:
  - string: Generated text
  - error: Transport failures or [ErrEmptyResponse]
*/
func (gemini *GeminiClient) Generate(context context.Context, prompt string) (string, error) {
	payload := generateRequest{
		Contents: []generateContent{
			{Parts: []generatePart{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     0.9,
			TopP:            1,
			TopK:            1,
			MaxOutputTokens: 2048,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("generate_marshal_failed: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", gemini.baseURL, gemini.model)
	request, err := http.NewRequestWithContext(context, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("generate_request_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("x-goog-api-key", gemini.apiKey)

	response, err := gemini.client.Do(request)
	if err != nil {
		return "", fmt.Errorf("generate_call_failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(response.Body, 256))
		return "", fmt.Errorf("generate_bad_status: %d: %s", response.StatusCode, string(snippet))
	}

	decoded := &generateResponse{}
	if err := json.NewDecoder(response.Body).Decode(decoded); err != nil {
		return "", fmt.Errorf("generate_bad_payload: %w", err)
	}

	text := collectText(decoded)
	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}

// collectText concatenates every text part of the first candidate.
func collectText(response *generateResponse) string {
	if len(response.Candidates) == 0 {
		return ""
	}

	var builder strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		builder.WriteString(part.Text)
	}

	return strings.TrimSpace(builder.String())
}
