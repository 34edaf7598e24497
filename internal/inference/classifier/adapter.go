// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package classifier

import (
	"context"
	"errors"
	"strings"

	"github.com/taibuivan/skinsight/internal/platform/apperr"
	"github.com/taibuivan/skinsight/internal/platform/constants"
)

// # Upload Validation & Orchestration

// Upload is a client-submitted image awaiting classification.
type Upload struct {
	Data        []byte
	ContentType string
}

// Adapter validates uploads and drives the engine to a normalized prediction.
//
// A nil engine models a deployment without a configured model server: the
// adapter stays constructible and every classification attempt reports the
// model as unavailable, matching a startup where the model never loaded.
type Adapter struct {
	engine Engine
}

// NewAdapter constructs an Adapter. Engine may be nil when no model server
// is configured.
func NewAdapter(engine Engine) *Adapter {
	return &Adapter{engine: engine}
}

// Available reports whether a model engine is configured at all.
func (adapter *Adapter) Available() bool {
	return adapter.engine != nil
}

/*
Classify validates the upload, ensures the engine is ready, and returns the
normalized prediction.

Description: Upload validation always runs first so that a malformed request
is reported as the client's fault (400) even when the model is down (503).

Parameters:
  - context: context.Context
  - upload: Upload

Returns:
  - Prediction: Argmax class with confidence
  - err: Validation (400), ServiceUnavailable (503), Timeout (504), or Upstream (500)
*/
func (adapter *Adapter) Classify(context context.Context, upload Upload) (Prediction, error) {
	if err := validateUpload(upload); err != nil {
		return Prediction{}, err
	}

	if adapter.engine == nil {
		return Prediction{}, apperr.ServiceUnavailable("Detection model is not available")
	}

	if err := adapter.engine.Ready(context); err != nil {
		return Prediction{}, apperr.ServiceUnavailable("Detection model failed to initialize")
	}

	raw, err := adapter.engine.Classify(context, upload.Data)
	if err != nil {
		if isDeadline(context, err) {
			return Prediction{}, apperr.Timeout("Classification")
		}
		return Prediction{}, apperr.Upstream("Classification", err)
	}

	prediction, ok := Normalize(raw)
	if !ok {
		return Prediction{}, apperr.Upstream("Classification", errors.New("classifier returned no scores"))
	}

	return prediction, nil
}

// validateUpload enforces the upload contract: present, an image, and within
// the size ceiling.
func validateUpload(upload Upload) error {
	if len(upload.Data) == 0 {
		return apperr.ValidationError("No file uploaded")
	}

	if upload.ContentType == "" {
		return apperr.ValidationError("File content type is missing")
	}

	if !strings.HasPrefix(upload.ContentType, "image/") {
		return apperr.ValidationError("Invalid file type: " + upload.ContentType + ". Only image files are allowed.")
	}

	if len(upload.Data) > constants.MaxUploadBytes {
		return apperr.ValidationError("File size exceeds the 10MB limit")
	}

	return nil
}

// isDeadline reports whether the failure was the context expiring rather
// than the engine misbehaving.
func isDeadline(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}
