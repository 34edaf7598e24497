// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package inference orchestrates the two assistant pipelines of the Skinsight
API.

# Pipelines

  - Chat: free-form message straight to the generation model.
  - Detect: uploaded image through the classifier, class mapped to an
    advisory prompt, prompt through the generation model.

Both pipelines end by recording the exchange in the caller's history, unless
the caller has already disconnected.

# Timeouts

Each upstream stage gets its own deadline carved out of the request context.
No stage is ever retried; a failed call surfaces immediately with the
corresponding taxonomy error.
*/
package inference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taibuivan/skinsight/internal/chat/history"
	"github.com/taibuivan/skinsight/internal/inference/advisory"
	"github.com/taibuivan/skinsight/internal/inference/classifier"
	"github.com/taibuivan/skinsight/internal/inference/generate"
	"github.com/taibuivan/skinsight/internal/platform/apperr"
	"github.com/taibuivan/skinsight/internal/platform/constants"
)

// # Contracts & Types

// Recorder persists a completed exchange. Implemented by the history service.
type Recorder interface {
	Record(context context.Context, userID, message, response string) (*history.Record, error)
}

// Service orchestrates classification, prompt mapping, and generation.
type Service struct {
	adapter   *classifier.Adapter
	generator generate.Client
	recorder  Recorder
}

// NewService constructs a new [Service] with its pipeline dependencies.
func NewService(adapter *classifier.Adapter, generator generate.Client, recorder Recorder) *Service {
	return &Service{
		adapter:   adapter,
		generator: generator,
		recorder:  recorder,
	}
}

// # Chat Pipeline

/*
Chat sends the user's message to the generation model and records the
exchange.

Parameters:
  - context: context.Context
  - userID: string
  - message: string

Returns:
  - string: Generated response
  - err: Upstream (500) or Timeout failures
*/
func (service *Service) Chat(context context.Context, userID, message string) (string, error) {
	response, err := service.generateWithDeadline(context, message)
	if err != nil {
		return "", err
	}

	if err := service.recordExchange(context, userID, message, response); err != nil {
		return "", err
	}

	return response, nil
}

// # Detect Pipeline

/*
Detect classifies the uploaded image, maps the winning class to an advisory
prompt, generates the advice, and records the exchange.

Description: The pipeline is strictly sequential with no retries. The
history message names the detected condition rather than embedding image
bytes.

Parameters:
  - context: context.Context
  - userID: string
  - upload: classifier.Upload

Returns:
  - string: Generated advisory text
  - err: Validation (400), ServiceUnavailable (503), Upstream (500), or Timeout
*/
func (service *Service) Detect(context context.Context, userID string, upload classifier.Upload) (string, error) {
	classifyCtx, cancelClassify := withTimeout(context, constants.ClassifyTimeout)
	prediction, err := service.adapter.Classify(classifyCtx, upload)
	cancelClassify()
	if err != nil {
		return "", err
	}

	prompt := advisory.PromptFor(prediction.ClassID)

	response, err := service.generateWithDeadline(context, prompt)
	if err != nil {
		return "", err
	}

	message := fmt.Sprintf("[image detection] %s", advisory.ConditionFor(prediction.ClassID))
	if err := service.recordExchange(context, userID, message, response); err != nil {
		return "", err
	}

	return response, nil
}

// # Internals

// generateWithDeadline runs the generator under its stage deadline and maps
// failures onto the error taxonomy.
func (service *Service) generateWithDeadline(ctx context.Context, prompt string) (string, error) {
	generateCtx, cancel := withTimeout(ctx, constants.GenerateTimeout)
	defer cancel()

	response, err := service.generator.Generate(generateCtx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(generateCtx.Err(), context.DeadlineExceeded) {
			return "", apperr.Timeout("Generation")
		}
		return "", apperr.Upstream("Generation", err)
	}

	return response, nil
}

// recordExchange persists the exchange unless the caller has already gone
// away. Nothing is written for an aborted request: the user never saw the
// response, so it must not appear in their history.
func (service *Service) recordExchange(ctx context.Context, userID, message, response string) error {
	if ctx.Err() != nil {
		return apperr.Internal(ctx.Err())
	}

	if _, err := service.recorder.Record(ctx, userID, message, response); err != nil {
		return apperr.Internal(fmt.Errorf("inference_record_failed: %w", err))
	}

	return nil
}

// withTimeout carves a stage deadline out of the parent context.
func withTimeout(parent context.Context, stage time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, stage)
}
