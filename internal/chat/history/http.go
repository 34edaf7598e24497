// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// HTTP delivery layer for the caller's own conversation history.
package history

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/skinsight/internal/platform/middleware"
	requestutil "github.com/taibuivan/skinsight/internal/platform/request"
	"github.com/taibuivan/skinsight/internal/platform/respond"
	"github.com/taibuivan/skinsight/internal/platform/validate"
	"github.com/taibuivan/skinsight/pkg/pagination"
)

// Handler implements history-related HTTP endpoints.
type Handler struct {
	historyService *Service
	resolver       middleware.SubjectResolver
}

// NewHandler constructs a new [Handler].
//
// The resolver re-checks the token subject against the credential store on
// every request, so records of a deactivated account are unreachable even
// while its token is still formally valid.
func NewHandler(service *Service, resolver middleware.SubjectResolver) *Handler {
	return &Handler{
		historyService: service,
		resolver:       resolver,
	}
}

// Register attaches the history routes to the given router.
//
// # Endpoints
//   - GET    /chat-history : Lists the caller's history (skip/limit).
//   - POST   /chat-history : Stores an exchange supplied by the caller.
//   - DELETE /chat-history : Clears the caller's history.
func (handler *Handler) Register(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireActiveUser(handler.resolver))
		r.Get("/chat-history", handler.list)
		r.Post("/chat-history", handler.save)
		r.Delete("/chat-history", handler.clear)
	})
}

// Routes returns a standalone [chi.Router] with the handler's routes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	handler.Register(router)
	return router
}

/*
List returns a window of the authenticated user's history.

GET /chat-history?skip=0&limit=20

Description: Most recent exchanges first. Out-of-range windows return an
empty list, not an error.

Response:
  - 200: []Record: Window of history records
  - 401: ErrUnauthorized: Missing or invalid bearer token
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	window := pagination.FromSkipLimit(request)

	records, total, err := handler.historyService.ListForUser(request.Context(), userID, window.Skip, window.Limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := 1
	if window.Limit > 0 {
		page = window.Skip/window.Limit + 1
	}

	respond.Paginated(writer, records, pagination.NewMeta(page, window.Limit, total))
}

// # Request Payloads

type saveRequest struct {
	Message   string  `json:"message"`
	Response  string  `json:"response"`
	ImagePath *string `json:"image_path"`
}

/*
Save stores an exchange supplied directly by the caller.

POST /chat-history

Description: Lets a client persist an exchange it completed on its own,
optionally with a path to a stored image. The record is owned by the
authenticated user regardless of any ID in the payload.

Request:
  - Body: saveRequest (Message, Response, optional ImagePath)

Response:
  - 201: Record: Persisted entity
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 401: ErrUnauthorized: Missing or invalid bearer token
*/
func (handler *Handler) save(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input saveRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldMessage, input.Message).
		Required(FieldResponse, input.Response)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.historyService.Save(request.Context(), userID, input.Message, input.Response, input.ImagePath)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, record)
}

/*
Clear deletes the authenticated user's entire history.

DELETE /chat-history

Response:
  - 204: No Content: History removed
  - 401: ErrUnauthorized: Missing or invalid bearer token
*/
func (handler *Handler) clear(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.historyService.ClearForUser(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
