// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package inference_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/skinsight/internal/chat/history"
	"github.com/taibuivan/skinsight/internal/inference"
	"github.com/taibuivan/skinsight/internal/inference/classifier"
	"github.com/taibuivan/skinsight/internal/inference/generate"
	"github.com/taibuivan/skinsight/internal/platform/apperr"
)

// fakeEngine returns canned classifier scores.
type fakeEngine struct {
	scores      []float64
	readyErr    error
	classifyErr error
}

func (e *fakeEngine) Ready(_ context.Context) error { return e.readyErr }

func (e *fakeEngine) Classify(_ context.Context, _ []byte) (*classifier.RawResult, error) {
	if e.classifyErr != nil {
		return nil, e.classifyErr
	}
	return &classifier.RawResult{Scores: e.scores}, nil
}

// fakeGenerator echoes prompts or fails on demand.
type fakeGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

// fakeRecorder captures recorded exchanges.
type fakeRecorder struct {
	recorded []history.Record
	err      error
}

func (r *fakeRecorder) Record(_ context.Context, userID, message, response string) (*history.Record, error) {
	if r.err != nil {
		return nil, r.err
	}
	record := history.Record{ID: "rec", UserID: userID, Message: message, Response: response}
	r.recorded = append(r.recorded, record)
	return &record, nil
}

func imageUpload() classifier.Upload {
	return classifier.Upload{Data: []byte{0xFF, 0xD8}, ContentType: "image/jpeg"}
}

/*
TestService_Chat covers the free-form pipeline and its error taxonomy.
*/
func TestService_Chat(t *testing.T) {
	ctx := context.Background()

	t.Run("returns_response_and_records_exchange", func(t *testing.T) {
		generator := &fakeGenerator{response: "hello there"}
		recorder := &fakeRecorder{}
		service := inference.NewService(classifier.NewAdapter(nil), generator, recorder)

		response, err := service.Chat(ctx, "u1", "hi")
		require.NoError(t, err)
		assert.Equal(t, "hello there", response)

		require.Len(t, recorder.recorded, 1)
		assert.Equal(t, "u1", recorder.recorded[0].UserID)
		assert.Equal(t, "hi", recorder.recorded[0].Message)
		assert.Equal(t, "hello there", recorder.recorded[0].Response)
	})

	t.Run("generation_failure_is_upstream_500", func(t *testing.T) {
		generator := &fakeGenerator{err: errors.New("api exploded")}
		recorder := &fakeRecorder{}
		service := inference.NewService(classifier.NewAdapter(nil), generator, recorder)

		_, err := service.Chat(ctx, "u1", "hi")
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UPSTREAM_ERROR", ae.Code)
		assert.Empty(t, recorder.recorded)
	})

	t.Run("empty_completion_is_upstream_500", func(t *testing.T) {
		generator := &fakeGenerator{err: generate.ErrEmptyResponse}
		service := inference.NewService(classifier.NewAdapter(nil), generator, &fakeRecorder{})

		_, err := service.Chat(ctx, "u1", "hi")
		require.Error(t, err)
		assert.Equal(t, "UPSTREAM_ERROR", apperr.As(err).Code)
	})

	t.Run("deadline_is_timeout", func(t *testing.T) {
		generator := &fakeGenerator{err: context.DeadlineExceeded}
		service := inference.NewService(classifier.NewAdapter(nil), generator, &fakeRecorder{})

		_, err := service.Chat(ctx, "u1", "hi")
		require.Error(t, err)
		assert.Equal(t, "TIMEOUT", apperr.As(err).Code)
	})

	t.Run("aborted_caller_writes_no_history", func(t *testing.T) {
		generator := &fakeGenerator{response: "too late"}
		recorder := &fakeRecorder{}
		service := inference.NewService(classifier.NewAdapter(nil), generator, recorder)

		aborted, cancel := context.WithCancel(ctx)
		cancel()

		_, err := service.Chat(aborted, "u1", "hi")
		require.Error(t, err)
		assert.Empty(t, recorder.recorded)
	})

	t.Run("record_failure_is_internal", func(t *testing.T) {
		generator := &fakeGenerator{response: "fine"}
		recorder := &fakeRecorder{err: errors.New("db down")}
		service := inference.NewService(classifier.NewAdapter(nil), generator, recorder)

		_, err := service.Chat(ctx, "u1", "hi")
		require.Error(t, err)
		assert.Equal(t, 500, apperr.As(err).HTTPStatus)
	})
}

/*
TestService_Detect covers the image pipeline end to end with fakes.
*/
func TestService_Detect(t *testing.T) {
	ctx := context.Background()

	t.Run("classifies_maps_generates_and_records", func(t *testing.T) {
		// Class 7 wins: the prompt must name shingles.
		engine := &fakeEngine{scores: []float64{0, 0.1, 0, 0, 0, 0, 0, 0.9}}
		generator := &fakeGenerator{response: "keep the rash covered"}
		recorder := &fakeRecorder{}
		service := inference.NewService(classifier.NewAdapter(engine), generator, recorder)

		response, err := service.Detect(ctx, "u1", imageUpload())
		require.NoError(t, err)
		assert.Equal(t, "keep the rash covered", response)
		assert.Contains(t, generator.lastPrompt, "shingles")

		require.Len(t, recorder.recorded, 1)
		assert.Contains(t, recorder.recorded[0].Message, "shingles")
		assert.Equal(t, "keep the rash covered", recorder.recorded[0].Response)
	})

	t.Run("unknown_class_still_generates", func(t *testing.T) {
		// Index 9 is outside the condition table; the default prompt applies.
		engine := &fakeEngine{scores: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 1}}
		generator := &fakeGenerator{response: "see a doctor"}
		service := inference.NewService(classifier.NewAdapter(engine), generator, &fakeRecorder{})

		response, err := service.Detect(ctx, "u1", imageUpload())
		require.NoError(t, err)
		assert.Equal(t, "see a doctor", response)
		assert.Contains(t, generator.lastPrompt, "unrecognized")
	})

	t.Run("no_model_is_503", func(t *testing.T) {
		service := inference.NewService(classifier.NewAdapter(nil), &fakeGenerator{}, &fakeRecorder{})

		_, err := service.Detect(ctx, "u1", imageUpload())
		require.Error(t, err)
		assert.Equal(t, 503, apperr.As(err).HTTPStatus)
	})

	t.Run("bad_upload_is_400_and_skips_generation", func(t *testing.T) {
		generator := &fakeGenerator{}
		service := inference.NewService(classifier.NewAdapter(&fakeEngine{scores: []float64{1}}), generator, &fakeRecorder{})

		_, err := service.Detect(ctx, "u1", classifier.Upload{Data: []byte("x"), ContentType: "text/plain"})
		require.Error(t, err)
		assert.Equal(t, 400, apperr.As(err).HTTPStatus)
		assert.Empty(t, generator.lastPrompt)
	})

	t.Run("classifier_failure_is_upstream_500", func(t *testing.T) {
		engine := &fakeEngine{classifyErr: errors.New("tensor mismatch")}
		service := inference.NewService(classifier.NewAdapter(engine), &fakeGenerator{}, &fakeRecorder{})

		_, err := service.Detect(ctx, "u1", imageUpload())
		require.Error(t, err)
		assert.Equal(t, "UPSTREAM_ERROR", apperr.As(err).Code)
	})
}
