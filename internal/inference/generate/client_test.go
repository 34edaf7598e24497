// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package generate_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/skinsight/internal/inference/generate"
)

func newGeminiServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *generate.GeminiClient) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, generate.NewGeminiClient(server.URL, "gemini-2.0-flash-001", "test-key")
}

/*
TestGeminiClient_Generate covers the generateContent round trip.
*/
func TestGeminiClient_Generate(t *testing.T) {
	t.Run("returns_candidate_text", func(t *testing.T) {
		_, client := newGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.0-flash-001:generateContent"))
			assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Contains(t, payload, "contents")

			_, _ = w.Write([]byte(`{
				"candidates": [
					{"content": {"parts": [{"text": "Keep the area "}, {"text": "clean and dry."}]}}
				]
			}`))
		})

		text, err := client.Generate(context.Background(), "advice please")
		require.NoError(t, err)
		assert.Equal(t, "Keep the area clean and dry.", text)
	})

	t.Run("empty_candidates_is_ErrEmptyResponse", func(t *testing.T) {
		_, client := newGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates": []}`))
		})

		_, err := client.Generate(context.Background(), "advice please")
		assert.True(t, errors.Is(err, generate.ErrEmptyResponse))
	})

	t.Run("blank_text_is_ErrEmptyResponse", func(t *testing.T) {
		_, client := newGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "   "}]}}]}`))
		})

		_, err := client.Generate(context.Background(), "advice please")
		assert.True(t, errors.Is(err, generate.ErrEmptyResponse))
	})

	t.Run("api_error_status_is_an_error", func(t *testing.T) {
		_, client := newGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
		})

		_, err := client.Generate(context.Background(), "advice please")
		assert.Error(t, err)
	})

	t.Run("cancelled_context_propagates", func(t *testing.T) {
		_, client := newGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Generate(ctx, "advice please")
		assert.Error(t, err)
	})
}
