// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package history

import (
	"context"
	"fmt"

	"github.com/taibuivan/skinsight/pkg/uuid"
)

// # Service

// Service implements conversation-record use cases.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

/*
Record persists one completed exchange for a user.

Description: Called by the inference orchestrator after a response is
generated. The exchange is stored verbatim so history readbacks return
exactly what the user saw.

Parameters:
  - context: context.Context
  - userID: string
  - message: string
  - response: string

Returns:
  - *Record: Persisted entity
  - err: Storage failures
*/
func (service *Service) Record(context context.Context, userID, message, response string) (*Record, error) {
	return service.Save(context, userID, message, response, nil)
}

/*
Save persists an exchange supplied by the caller, optionally referencing a
stored image.

Description: Backs the direct history insert endpoint. The imagePath is kept
as opaque caller data; nothing in the service dereferences it.

Parameters:
  - context: context.Context
  - userID: string
  - message: string
  - response: string
  - imagePath: *string (nil for plain chat exchanges)

Returns:
  - *Record: Persisted entity
  - err: Storage failures
*/
func (service *Service) Save(context context.Context, userID, message, response string, imagePath *string) (*Record, error) {
	record := &Record{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   message,
		Response:  response,
		ImagePath: imagePath,
	}

	if err := service.repository.Create(context, record); err != nil {
		return nil, fmt.Errorf("history_service_record_failed: %w", err)
	}

	return record, nil
}

/*
ListForUser returns a most-recent-first window of the caller's history.

Description: Skip/limit navigation. Records of other users are never
reachable through this path; the repository query is scoped by userID.

Parameters:
  - context: context.Context
  - userID: string
  - skip: int
  - limit: int

Returns:
  - []*Record: Window of records (empty slice past the end)
  - int: Total record count for the user
  - err: Storage failures
*/
func (service *Service) ListForUser(context context.Context, userID string, skip, limit int) ([]*Record, int, error) {
	records, err := service.repository.ListByUser(context, userID, limit, skip)
	if err != nil {
		return nil, 0, err
	}

	total, err := service.repository.CountByUser(context, userID)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

/*
SearchAll returns a page of records across every user, for admin review.

Parameters:
  - context: context.Context
  - query: string (empty matches all)
  - limit: int
  - offset: int

Returns:
  - []*Record: Page of records with Username hydrated
  - int: Total match count
  - err: Storage failures
*/
func (service *Service) SearchAll(context context.Context, query string, limit, offset int) ([]*Record, int, error) {
	return service.repository.Search(context, query, limit, offset)
}

/*
ClearForUser deletes the caller's entire conversation history.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - err: Storage failures
*/
func (service *Service) ClearForUser(context context.Context, userID string) error {
	if err := service.repository.DeleteByUser(context, userID); err != nil {
		return fmt.Errorf("history_service_clear_failed: %w", err)
	}
	return nil
}
