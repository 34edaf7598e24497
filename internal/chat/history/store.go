// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package history

import "context"

// # Conversation Data Access

// Repository defines the data access contract for conversation records.
type Repository interface {

	/*
		Create persists a new conversation record.

		Parameters:
		  - context: context.Context
		  - record: *Record

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, record *Record) error

	/*
		ListByUser returns records belonging to userID, most recent first.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - limit: int
		  - offset: int

		Returns:
		  - []*Record: Window of records
		  - error: Database retrieval failures
	*/
	ListByUser(context context.Context, userID string, limit, offset int) ([]*Record, error)

	/*
		CountByUser returns the number of records belonging to userID.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - int: Record count
		  - error: Database retrieval failures
	*/
	CountByUser(context context.Context, userID string) (int, error)

	/*
		Search returns records across all users matching the query, most recent
		first, joined with the owner's username. An empty query matches all.

		Parameters:
		  - context: context.Context
		  - query: string
		  - limit: int
		  - offset: int

		Returns:
		  - []*Record: Page of records with Username hydrated
		  - int: Total match count
		  - error: Database retrieval failures
	*/
	Search(context context.Context, query string, limit, offset int) ([]*Record, int, error)

	/*
		DeleteByUser removes every record belonging to userID.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	DeleteByUser(context context.Context, userID string) error
}
