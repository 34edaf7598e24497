// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package admin implements the administrative surface of the Skinsight API.

Administrators manage user accounts (listing, role and status changes,
deletion) and review conversation history across all users. Every operation
here sits behind the admin role gate at the HTTP layer.
*/
package admin

import (
	"context"

	"github.com/taibuivan/skinsight/internal/chat/history"
	"github.com/taibuivan/skinsight/internal/platform/apperr"
	"github.com/taibuivan/skinsight/internal/platform/sec"
	"github.com/taibuivan/skinsight/internal/users/auth"
)

// # Contracts & Types

// HistorySearcher searches conversation records across all users.
// Implemented by the history service.
type HistorySearcher interface {
	SearchAll(context context.Context, query string, limit, offset int) ([]*history.Record, int, error)
}

// Service implements administrative use cases over accounts and history.
type Service struct {
	userRepository auth.UserRepository
	historySearch  HistorySearcher
}

// NewService constructs a new [Service] with its dependencies.
func NewService(userRepo auth.UserRepository, historySearch HistorySearcher) *Service {
	return &Service{
		userRepository: userRepo,
		historySearch:  historySearch,
	}
}

// # Account Management

/*
ListUsers returns a page of accounts, newest first.

Description: A non-empty search term narrows the page to accounts whose
username or email contains it, case-insensitively.

Parameters:
  - context: context.Context
  - search: string
  - limit: int
  - offset: int

Returns:
  - []*auth.User: Page of accounts
  - int: Total matching account count
  - err: Storage failures
*/
func (service *Service) ListUsers(context context.Context, search string, limit, offset int) ([]*auth.User, int, error) {
	return service.userRepository.List(context, search, limit, offset)
}

/*
GetUser returns a single account by ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *auth.User: Hydrated entity
  - err: NotFound or storage failures
*/
func (service *Service) GetUser(context context.Context, id string) (*auth.User, error) {
	return service.userRepository.FindByID(context, id)
}

// UpdateUserInput carries the mutable account fields. Nil pointers leave the
// current value untouched.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Role     *string
	IsActive *bool
}

/*
UpdateUser applies a partial update to an account.

Description: Role changes are validated against the known role set. An
admin demoting or deactivating their own account is allowed; the change
takes effect on the next subject resolution.

Parameters:
  - context: context.Context
  - id: string
  - input: UpdateUserInput

Returns:
  - *auth.User: Updated entity
  - err: Validation, NotFound, or storage failures
*/
func (service *Service) UpdateUser(context context.Context, id string, input UpdateUserInput) (*auth.User, error) {
	user, err := service.userRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		user.Username = *input.Username
	}

	if input.Email != nil {
		user.Email = *input.Email
	}

	if input.Role != nil {
		role := sec.UserRole(*input.Role)
		if !role.IsValid() {
			return nil, apperr.ValidationError("Unknown role: " + *input.Role)
		}
		user.Role = role
	}

	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := service.userRepository.Update(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
DeleteUser permanently removes an account.

Description: Self-deletion is rejected so a deployment can never lose its
last administrator to a stray request.

Parameters:
  - context: context.Context
  - callerID: string (the authenticated admin)
  - id: string (the account to delete)

Returns:
  - err: Validation, NotFound, or storage failures
*/
func (service *Service) DeleteUser(context context.Context, callerID, id string) error {
	if callerID == id {
		return apperr.ValidationError("Administrators cannot delete their own account")
	}

	return service.userRepository.Delete(context, id)
}

// # History Review

/*
SearchHistory returns a page of conversation records across every user.

Parameters:
  - context: context.Context
  - query: string (empty matches all)
  - limit: int
  - offset: int

Returns:
  - []*history.Record: Page of records with usernames hydrated
  - int: Total match count
  - err: Storage failures
*/
func (service *Service) SearchHistory(context context.Context, query string, limit, offset int) ([]*history.Record, int, error) {
	return service.historySearch.SearchAll(context, query, limit, offset)
}
