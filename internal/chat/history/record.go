// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package history implements persistent conversation records.

Every successful chat or detection exchange is stored as a Record pairing the
user's input with the generated response. Users read back their own history;
administrators can search across all of it.
*/
package history

import "time"

// # Domain Entities

// Record represents one stored exchange: what the user sent and what the
// assistant answered.
type Record struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Message  string `json:"message"`
	Response string `json:"response"`
	// ImagePath points at the uploaded image behind a detection exchange.
	// Nil for plain chat exchanges.
	ImagePath *string `json:"image_path,omitempty"`
	// Username is only hydrated by admin queries that join the account table.
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

const (
	FieldMessage   = "message"
	FieldResponse  = "response"
	FieldImagePath = "image_path"
	FieldSkip      = "skip"
	FieldLimit     = "limit"
)
