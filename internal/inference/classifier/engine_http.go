// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// HTTPEngine talks to an external model server over HTTP.
//
// # Protocol
//
//   - GET  {base}/healthz : readiness probe, any 2xx means serving.
//   - POST {base}/predict : raw image bytes in, {"scores":[...]} out.
//
// # Initialization
//
// Readiness is established exactly once per process. Concurrent first
// callers share a single probe via [sync.Once]; the outcome (success or
// failure) is cached for the lifetime of the engine.
type HTTPEngine struct {
	baseURL string
	client  *http.Client

	initOnce sync.Once
	initErr  error
}

// NewHTTPEngine constructs an engine pointing at the model server's base URL.
func NewHTTPEngine(baseURL string) *HTTPEngine {
	return &HTTPEngine{
		baseURL: baseURL,
		client: &http.Client{
			// Transport-level ceiling. Per-request deadlines still come from
			// the caller's context.
			Timeout: 60 * time.Second,
		},
	}
}

// Ready probes the model server once and caches the outcome.
func (engine *HTTPEngine) Ready(context context.Context) error {
	engine.initOnce.Do(func() {
		engine.initErr = engine.probe(context)
	})
	return engine.initErr
}

// probe performs the one-time health check against the model server.
func (engine *HTTPEngine) probe(context context.Context) error {
	request, err := http.NewRequestWithContext(context, http.MethodGet, engine.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("classifier_engine_probe_request_failed: %w", err)
	}

	response, err := engine.client.Do(request)
	if err != nil {
		return fmt.Errorf("classifier_engine_unreachable: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("classifier_engine_not_serving: status %d", response.StatusCode)
	}

	return nil
}

/*
Classify posts the image to the model server and decodes the score vector.

Parameters:
  - context: context.Context
  - image: []byte

Returns:
  - *RawResult: Raw score vector
  - error: Transport failures or malformed model output
*/
func (engine *HTTPEngine) Classify(context context.Context, image []byte) (*RawResult, error) {
	request, err := http.NewRequestWithContext(context, http.MethodPost, engine.baseURL+"/predict", bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("classifier_engine_request_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/octet-stream")

	response, err := engine.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("classifier_engine_call_failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		// Drain a little of the body for the log line, never for the client.
		snippet, _ := io.ReadAll(io.LimitReader(response.Body, 256))
		return nil, fmt.Errorf("classifier_engine_bad_status: %d: %s", response.StatusCode, string(snippet))
	}

	raw := &RawResult{}
	if err := json.NewDecoder(response.Body).Decode(raw); err != nil {
		return nil, fmt.Errorf("classifier_engine_bad_payload: %w", err)
	}

	return raw, nil
}
