// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package classifier_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/skinsight/internal/inference/classifier"
	"github.com/taibuivan/skinsight/internal/platform/apperr"
)

/*
TestNormalize covers argmax reduction, including ties and degenerate vectors.
*/
func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		scores    []float64
		wantOK    bool
		wantClass int
		wantConf  float64
	}{
		{"clear_winner", []float64{0.1, 0.7, 0.2}, true, 1, 0.7},
		{"tie_resolves_to_lowest_index", []float64{0.4, 0.4, 0.2}, true, 0, 0.4},
		{"all_equal", []float64{0.25, 0.25, 0.25, 0.25}, true, 0, 0.25},
		{"single_element_is_class_zero", []float64{0.93}, true, 0, 0.93},
		{"last_index_wins", []float64{0.0, 0.1, 0.9}, true, 2, 0.9},
		{"empty_vector", []float64{}, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prediction, ok := classifier.Normalize(&classifier.RawResult{Scores: tt.scores})

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantClass, prediction.ClassID)
				assert.InDelta(t, tt.wantConf, prediction.Confidence, 1e-9)
			}
		})
	}

	t.Run("nil_result", func(t *testing.T) {
		_, ok := classifier.Normalize(nil)
		assert.False(t, ok)
	})
}

// stubEngine is a canned-response Engine for adapter tests.
type stubEngine struct {
	readyErr    error
	classifyErr error
	scores      []float64
	readyCalls  int
}

func (e *stubEngine) Ready(_ context.Context) error {
	e.readyCalls++
	return e.readyErr
}

func (e *stubEngine) Classify(_ context.Context, _ []byte) (*classifier.RawResult, error) {
	if e.classifyErr != nil {
		return nil, e.classifyErr
	}
	return &classifier.RawResult{Scores: e.scores}, nil
}

func validUpload() classifier.Upload {
	return classifier.Upload{Data: []byte{0xFF, 0xD8, 0xFF}, ContentType: "image/jpeg"}
}

/*
TestAdapter_Classify covers validation ordering and error taxonomy mapping.
*/
func TestAdapter_Classify(t *testing.T) {
	ctx := context.Background()

	t.Run("happy_path", func(t *testing.T) {
		adapter := classifier.NewAdapter(&stubEngine{scores: []float64{0.1, 0.8, 0.1}})

		prediction, err := adapter.Classify(ctx, validUpload())
		require.NoError(t, err)
		assert.Equal(t, 1, prediction.ClassID)
	})

	t.Run("empty_upload_is_400", func(t *testing.T) {
		adapter := classifier.NewAdapter(&stubEngine{scores: []float64{1}})

		_, err := adapter.Classify(ctx, classifier.Upload{ContentType: "image/png"})
		require.Error(t, err)
		assert.Equal(t, 400, apperr.As(err).HTTPStatus)
	})

	t.Run("non_image_content_type_is_400", func(t *testing.T) {
		adapter := classifier.NewAdapter(&stubEngine{scores: []float64{1}})

		_, err := adapter.Classify(ctx, classifier.Upload{Data: []byte("pdf"), ContentType: "application/pdf"})
		require.Error(t, err)
		assert.Equal(t, 400, apperr.As(err).HTTPStatus)
	})

	t.Run("oversized_upload_is_400", func(t *testing.T) {
		adapter := classifier.NewAdapter(&stubEngine{scores: []float64{1}})

		big := classifier.Upload{Data: make([]byte, 10<<20+1), ContentType: "image/jpeg"}
		_, err := adapter.Classify(ctx, big)
		require.Error(t, err)
		assert.Equal(t, 400, apperr.As(err).HTTPStatus)
	})

	t.Run("upload_at_limit_is_accepted", func(t *testing.T) {
		adapter := classifier.NewAdapter(&stubEngine{scores: []float64{1}})

		exact := classifier.Upload{Data: make([]byte, 10<<20), ContentType: "image/jpeg"}
		_, err := adapter.Classify(ctx, exact)
		assert.NoError(t, err)
	})

	t.Run("nil_engine_is_503", func(t *testing.T) {
		adapter := classifier.NewAdapter(nil)

		_, err := adapter.Classify(ctx, validUpload())
		require.Error(t, err)
		assert.Equal(t, 503, apperr.As(err).HTTPStatus)
		assert.False(t, adapter.Available())
	})

	t.Run("bad_upload_reported_before_missing_model", func(t *testing.T) {
		// A client mistake stays a 400 even when the model is absent.
		adapter := classifier.NewAdapter(nil)

		_, err := adapter.Classify(ctx, classifier.Upload{Data: []byte("x"), ContentType: "text/plain"})
		require.Error(t, err)
		assert.Equal(t, 400, apperr.As(err).HTTPStatus)
	})

	t.Run("failed_init_is_503", func(t *testing.T) {
		adapter := classifier.NewAdapter(&stubEngine{readyErr: errors.New("connection refused")})

		_, err := adapter.Classify(ctx, validUpload())
		require.Error(t, err)
		assert.Equal(t, 503, apperr.As(err).HTTPStatus)
	})

	t.Run("engine_failure_is_upstream_500", func(t *testing.T) {
		adapter := classifier.NewAdapter(&stubEngine{classifyErr: errors.New("model exploded")})

		_, err := adapter.Classify(ctx, validUpload())
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UPSTREAM_ERROR", ae.Code)
		assert.Equal(t, 500, ae.HTTPStatus)
	})

	t.Run("deadline_is_timeout", func(t *testing.T) {
		adapter := classifier.NewAdapter(&stubEngine{classifyErr: context.DeadlineExceeded})

		_, err := adapter.Classify(ctx, validUpload())
		require.Error(t, err)
		assert.Equal(t, "TIMEOUT", apperr.As(err).Code)
	})

	t.Run("empty_scores_is_upstream_500", func(t *testing.T) {
		adapter := classifier.NewAdapter(&stubEngine{scores: []float64{}})

		_, err := adapter.Classify(ctx, validUpload())
		require.Error(t, err)
		assert.Equal(t, "UPSTREAM_ERROR", apperr.As(err).Code)
	})
}
