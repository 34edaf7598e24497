// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package history_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/skinsight/internal/chat/history"
	"github.com/taibuivan/skinsight/internal/platform/apperr"
	"github.com/taibuivan/skinsight/internal/platform/ctxutil"
	"github.com/taibuivan/skinsight/internal/platform/sec"
)

// allowResolver accepts every token subject.
type allowResolver struct{}

func (allowResolver) ResolveSubject(_ context.Context, _ string) error { return nil }

// staleResolver simulates an account deactivated or removed after its token
// was issued.
type staleResolver struct{}

func (staleResolver) ResolveSubject(_ context.Context, _ string) error {
	return apperr.Unauthorized("Account no longer active")
}

func authedRequest(t *testing.T, method, target, userID string) *http.Request {
	t.Helper()
	request := httptest.NewRequest(method, target, nil)
	claims := &sec.AuthClaims{UserID: userID, Username: "ana", Role: string(sec.RoleUser)}
	return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
}

/*
TestHandler_List covers the history readback endpoint.
*/
func TestHandler_List(t *testing.T) {
	repo := &fakeRepository{}
	seedRecords(repo, "u1", 3)
	handler := history.NewHandler(history.NewService(repo), allowResolver{}).Routes()

	t.Run("returns_paginated_window", func(t *testing.T) {
		request := authedRequest(t, http.MethodGet, "/chat-history?skip=0&limit=2", "u1")
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, request)
		require.Equal(t, http.StatusOK, recorder.Code)

		var envelope struct {
			Data []history.Record `json:"data"`
			Meta struct {
				Total int `json:"total"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.Len(t, envelope.Data, 2)
		assert.Equal(t, 3, envelope.Meta.Total)
	})

	t.Run("anonymous_request_returns_401", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/chat-history", nil)
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("invalid_window_params_fall_back_to_defaults", func(t *testing.T) {
		request := authedRequest(t, http.MethodGet, "/chat-history?skip=-5&limit=nope", "u1")
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

/*
TestHandler_Save covers direct history inserts.
*/
func TestHandler_Save(t *testing.T) {
	newHandler := func() (*fakeRepository, http.Handler) {
		repo := &fakeRepository{}
		return repo, history.NewHandler(history.NewService(repo), allowResolver{}).Routes()
	}

	jsonRequest := func(t *testing.T, body, userID string) *http.Request {
		t.Helper()
		request := authedRequest(t, http.MethodPost, "/chat-history", userID)
		request.Body = io.NopCloser(strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
		return request
	}

	t.Run("stores_caller_owned_exchange", func(t *testing.T) {
		repo, handler := newHandler()
		body := `{"message":"what is this rash","response":"see a doctor","image_path":"uploads/a.jpg"}`
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, jsonRequest(t, body, "u1"))
		require.Equal(t, http.StatusCreated, recorder.Code)

		var envelope struct {
			Data history.Record `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.Equal(t, "u1", envelope.Data.UserID)
		require.NotNil(t, envelope.Data.ImagePath)
		assert.Equal(t, "uploads/a.jpg", *envelope.Data.ImagePath)
		require.Len(t, repo.records, 1)
	})

	t.Run("image_path_is_optional", func(t *testing.T) {
		_, handler := newHandler()
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, jsonRequest(t, `{"message":"hi","response":"hello"}`, "u1"))
		assert.Equal(t, http.StatusCreated, recorder.Code)
	})

	t.Run("missing_response_returns_400", func(t *testing.T) {
		_, handler := newHandler()
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, jsonRequest(t, `{"message":"hi"}`, "u1"))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("anonymous_request_returns_401", func(t *testing.T) {
		_, handler := newHandler()
		request := httptest.NewRequest(http.MethodPost, "/chat-history", strings.NewReader(`{}`))
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

/*
TestHandler_Clear covers history deletion.
*/
func TestHandler_Clear(t *testing.T) {
	repo := &fakeRepository{}
	seedRecords(repo, "u1", 3)
	handler := history.NewHandler(history.NewService(repo), allowResolver{}).Routes()

	request := authedRequest(t, http.MethodDelete, "/chat-history", "u1")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, repo.records)
}

/*
TestHandler_StaleSubject verifies that records stay unreachable once the
owning account is deactivated or removed, even with a still-valid token.
*/
func TestHandler_StaleSubject(t *testing.T) {
	repo := &fakeRepository{}
	seedRecords(repo, "u1", 3)
	handler := history.NewHandler(history.NewService(repo), staleResolver{}).Routes()

	t.Run("list_returns_401", func(t *testing.T) {
		request := authedRequest(t, http.MethodGet, "/chat-history", "u1")
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("save_returns_401_without_write", func(t *testing.T) {
		request := authedRequest(t, http.MethodPost, "/chat-history", "u1")
		request.Body = io.NopCloser(strings.NewReader(`{"message":"hi","response":"hello"}`))
		request.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Len(t, repo.records, 3)
	})
}
