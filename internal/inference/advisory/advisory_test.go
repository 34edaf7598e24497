// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package advisory_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/skinsight/internal/inference/advisory"
)

/*
TestConditionFor verifies known mappings and the total-function fallback.
*/
func TestConditionFor(t *testing.T) {
	tests := []struct {
		name    string
		classID int
		want    string
	}{
		{"first_class", 0, "cellulitis"},
		{"shingles", 7, "shingles"},
		{"unknown_high_index", 42, advisory.DefaultCondition},
		{"negative_index", -1, advisory.DefaultCondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, advisory.ConditionFor(tt.classID))
		})
	}
}

/*
TestPromptFor verifies that every class index yields a non-empty prompt
embedding the condition name.
*/
func TestPromptFor(t *testing.T) {
	for classID := -2; classID < 12; classID++ {
		prompt := advisory.PromptFor(classID)
		assert.NotEmpty(t, prompt)
		assert.True(t, strings.Contains(prompt, advisory.ConditionFor(classID)))
	}
}
