// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// HTTP delivery layer for administrative endpoints.
//
// All routes in this handler require an authenticated, still-active admin
// account. Role freshness is re-checked against the database on every
// request so a demoted admin loses access before their token expires.
package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/skinsight/internal/platform/apperr"
	"github.com/taibuivan/skinsight/internal/platform/middleware"
	requestutil "github.com/taibuivan/skinsight/internal/platform/request"
	"github.com/taibuivan/skinsight/internal/platform/respond"
	"github.com/taibuivan/skinsight/internal/platform/sec"
	"github.com/taibuivan/skinsight/internal/platform/validate"
	"github.com/taibuivan/skinsight/pkg/pagination"
	"github.com/taibuivan/skinsight/pkg/uuid"
)

// # Definitions & Constructors

const (
	paramUserID = "userID"
	fieldRole   = "role"
	fieldSearch = "search"
)

// Handler implements admin HTTP endpoints.
type Handler struct {
	adminService *Service
	resolver     middleware.SubjectResolver
}

// NewHandler constructs a new [Handler].
//
// The resolver is used by the route guard to confirm the calling admin is
// still an active account.
func NewHandler(service *Service, resolver middleware.SubjectResolver) *Handler {
	return &Handler{
		adminService: service,
		resolver:     resolver,
	}
}

// Register attaches the admin routes to the given router.
//
// # Endpoints
//   - GET    /admin/users          : Paginated account list.
//   - GET    /admin/users/{userID} : Single account.
//   - PUT    /admin/users/{userID} : Partial account update.
//   - DELETE /admin/users/{userID} : Account removal.
//   - GET    /admin/chat-history   : Cross-user history search.
func (handler *Handler) Register(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireActiveUser(handler.resolver))
		r.Use(middleware.RequireRole(sec.RoleAdmin))

		r.Get("/admin/users", handler.listUsers)
		r.Get("/admin/users/{userID}", handler.getUser)
		r.Put("/admin/users/{userID}", handler.updateUser)
		r.Delete("/admin/users/{userID}", handler.deleteUser)
		r.Get("/admin/chat-history", handler.searchHistory)
	})
}

// Routes returns a standalone [chi.Router] with the handler's routes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	handler.Register(router)
	return router
}

// # Request Payloads

type updateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

/*
ListUsers returns a paginated account list.

GET /admin/users?page=1&limit=20&search=ana

Description: A search term narrows the page to accounts whose username or
email contains it, case-insensitively.

Response:
  - 200: []User: Page of accounts with pagination metadata
  - 401: ErrUnauthorized: Missing token or stale account
  - 403: ErrForbidden: Caller is not an admin
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get(fieldSearch)

	users, total, err := handler.adminService.ListUsers(request.Context(), search, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GetUser returns a single account.

GET /admin/users/{userID}

Response:
  - 200: User: Account entity
  - 400: ErrValidation: Malformed ID
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, paramUserID)
	if !uuid.IsValid(id) {
		respond.Error(writer, request, apperr.ValidationError("Malformed user ID"))
		return
	}

	user, err := handler.adminService.GetUser(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateUser applies a partial update to an account.

PUT /admin/users/{userID}

Request:
  - Body: updateUserRequest (Username, Email, Role, IsActive; all optional)

Response:
  - 200: User: Updated account
  - 400: ErrValidation: Malformed ID, bad email, or unknown role
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, paramUserID)
	if !uuid.IsValid(id) {
		respond.Error(writer, request, apperr.ValidationError("Malformed user ID"))
		return
	}

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Username != nil {
		validator.MinLen("username", *input.Username, 3)
	}
	if input.Email != nil {
		validator.Email("email", *input.Email)
	}
	if input.Role != nil {
		validator.OneOf(fieldRole, *input.Role, string(sec.RoleUser), string(sec.RoleAdmin))
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.adminService.UpdateUser(request.Context(), id, UpdateUserInput{
		Username: input.Username,
		Email:    input.Email,
		Role:     input.Role,
		IsActive: input.IsActive,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DeleteUser permanently removes an account.

DELETE /admin/users/{userID}

Response:
  - 204: No Content: Account removed
  - 400: ErrValidation: Malformed ID or self-deletion attempt
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.ID(request, paramUserID)
	if !uuid.IsValid(id) {
		respond.Error(writer, request, apperr.ValidationError("Malformed user ID"))
		return
	}

	if err := handler.adminService.DeleteUser(request.Context(), callerID, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
SearchHistory returns a page of conversation records across all users.

GET /admin/chat-history?search=rash&page=1&limit=20

Description: Case-insensitive match against message, response, and username.
An empty search returns everything, newest first.

Response:
  - 200: []Record: Page of records with pagination metadata
  - 401: ErrUnauthorized: Missing token or stale account
  - 403: ErrForbidden: Caller is not an admin
*/
func (handler *Handler) searchHistory(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query().Get(fieldSearch)

	records, total, err := handler.adminService.SearchHistory(request.Context(), query, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, records, pagination.NewMeta(params.Page, params.Limit, total))
}
