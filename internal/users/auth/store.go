// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// The admin domain reuses this interface for its list and lifecycle
// operations so that both domains share a single storage implementation.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Uniqueness of email and username is enforced by database constraints,
		so concurrent registrations can never both succeed.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures (including unique-constraint conflicts)
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists changes to mutable account fields (username, email,
		role, isactive).

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		Delete permanently removes the account row.

		Chat history rows referencing the account are removed by the
		ON DELETE CASCADE constraint.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id string) error

	/*
		List returns a page of accounts ordered by creation time (newest first),
		plus the total count for pagination metadata. A non-empty search term
		filters by username or email substring, case-insensitively.

		Parameters:
		  - context: context.Context
		  - search: string
		  - limit: int
		  - offset: int

		Returns:
		  - []*User: Page of accounts
		  - int: Total matching account count
		  - error: Database retrieval failures
	*/
	List(context context.Context, search string, limit, offset int) ([]*User, int, error)
}
