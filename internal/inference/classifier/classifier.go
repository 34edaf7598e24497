// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package classifier wraps the external skin-condition model behind a small,
engine-agnostic API.

# Architecture

  - Engine: transport-level contract. An engine takes raw image bytes and
    returns the model's raw score output.
  - Adapter: validates uploads, guards one-time engine readiness, and
    normalizes raw scores into a single [Prediction].

The Adapter is the only type the rest of the application talks to. Engines
are infrastructure and can be swapped (HTTP model server, in-process runtime)
without touching callers.
*/
package classifier

import (
	"context"
)

// # Contracts & Types

// RawResult is the unnormalized output of a classification engine.
//
// Scores holds one probability per class index. A single-element slice is a
// valid degenerate output for binary heads.
type RawResult struct {
	Scores []float64 `json:"scores"`
}

// Prediction is the normalized result of classifying one image.
type Prediction struct {
	ClassID    int     `json:"class_id"`
	Confidence float64 `json:"confidence"`
}

// Engine runs the underlying model on raw image bytes.
type Engine interface {

	/*
		Classify runs inference on the image and returns raw class scores.

		Parameters:
		  - context: context.Context (carries the per-stage deadline)
		  - image: []byte (validated upload body)

		Returns:
		  - *RawResult: Raw score vector
		  - error: Transport or model failures
	*/
	Classify(context context.Context, image []byte) (*RawResult, error)

	/*
		Ready reports whether the engine can serve inference.

		The first call performs the engine's one-time initialization; later
		calls return the cached outcome without re-probing on success.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Initialization or connectivity failures
	*/
	Ready(context context.Context) error
}

// Normalize reduces a raw score vector to a single argmax prediction.
//
// Ties resolve to the lowest class index, and a single-element vector
// trivially yields class 0. Every raw result with at least one score
// normalizes successfully.
func Normalize(raw *RawResult) (Prediction, bool) {
	if raw == nil || len(raw.Scores) == 0 {
		return Prediction{}, false
	}

	best := 0
	for i, score := range raw.Scores {
		if score > raw.Scores[best] {
			best = i
		}
	}

	return Prediction{ClassID: best, Confidence: raw.Scores[best]}, true
}
