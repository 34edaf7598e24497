// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// HTTP delivery layer for the chat and detection pipelines.
package inference

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/skinsight/internal/inference/classifier"
	"github.com/taibuivan/skinsight/internal/platform/apperr"
	"github.com/taibuivan/skinsight/internal/platform/constants"
	"github.com/taibuivan/skinsight/internal/platform/middleware"
	requestutil "github.com/taibuivan/skinsight/internal/platform/request"
	"github.com/taibuivan/skinsight/internal/platform/respond"
	"github.com/taibuivan/skinsight/internal/platform/validate"
)

// # Field Identifiers

const (
	fieldMessage  = "message"
	fieldResponse = "response"
	fieldFile     = "file"
)

// Handler implements the inference HTTP endpoints.
type Handler struct {
	inferenceService *Service
	resolver         middleware.SubjectResolver
}

// NewHandler constructs a new [Handler].
//
// The resolver re-checks the token subject against the credential store so
// a deactivated or deleted account cannot keep using the pipelines for the
// remaining lifetime of its token.
func NewHandler(service *Service, resolver middleware.SubjectResolver) *Handler {
	return &Handler{
		inferenceService: service,
		resolver:         resolver,
	}
}

// Register attaches the inference routes to the given router.
//
// # Endpoints
//   - POST /chat   : Free-form message to the assistant.
//   - POST /detect : Multipart image upload for skin-condition advice.
func (handler *Handler) Register(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireActiveUser(handler.resolver))
		r.Post("/chat", handler.chat)
		r.Post("/detect", handler.detect)
	})
}

// Routes returns a standalone [chi.Router] with the handler's routes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	handler.Register(router)
	return router
}

// # Request Payloads

type chatRequest struct {
	Message string `json:"message"`
}

/*
Chat sends a free-form message to the assistant.

POST /chat

Request:
  - Body: chatRequest (Message)

Response:
  - 200: {response}: Generated text
  - 400: ErrInvalidJSON: Missing or empty message
  - 401: ErrUnauthorized: Missing or invalid bearer token
  - 500: ErrUpstream: Generation backend failed
*/
func (handler *Handler) chat(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input chatRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(fieldMessage, input.Message)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	response, err := handler.inferenceService.Chat(request.Context(), userID, input.Message)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{fieldResponse: response})
}

/*
Detect analyzes an uploaded skin image and returns generated advice.

POST /detect

Request:
  - Multipart form with a "file" part (image/*, at most 10MB)

Response:
  - 200: {response}: Generated advisory text
  - 400: ErrValidation: Missing, non-image, or oversized upload
  - 401: ErrUnauthorized: Missing or invalid bearer token
  - 503: ErrServiceUnavailable: Detection model not available
  - 500: ErrUpstream: Classifier or generation backend failed
*/
func (handler *Handler) detect(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	upload, err := readUpload(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	response, err := handler.inferenceService.Detect(request.Context(), userID, upload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{fieldResponse: response})
}

// readUpload extracts the multipart image from the request.
//
// The body reader is capped slightly above the upload ceiling so an
// oversized file is detected by the adapter's own size check (a 400), not
// by the transport cutting the connection.
func readUpload(request *http.Request) (classifier.Upload, error) {
	request.Body = http.MaxBytesReader(nil, request.Body, constants.MaxUploadBytes+(1<<20))

	file, header, err := request.FormFile(fieldFile)
	if err != nil {
		return classifier.Upload{}, apperr.ValidationError("No file uploaded")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, constants.MaxUploadBytes+1))
	if err != nil {
		return classifier.Upload{}, apperr.ValidationError("Error reading uploaded file")
	}

	return classifier.Upload{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}
