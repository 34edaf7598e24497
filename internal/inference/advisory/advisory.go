// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package advisory turns classifier predictions into generation prompts.

The mapping from class index to condition name is a total function: every
conceivable class ID produces a usable prompt, with unknown indices falling
back to a generic condition description. The pipeline never fails between
classification and generation because of an unmapped class.
*/
package advisory

import "fmt"

// promptTemplate frames the condition for the generation model. The response
// is advisory only and must read that way.
const promptTemplate = "Please give practical, non-diagnostic advice for someone whose skin photo " +
	"suggests %s. Mention common self-care steps and when to see a doctor."

// DefaultCondition is used for class indices outside the known table.
const DefaultCondition = "an unrecognized skin condition"

// conditions maps model class indices to human-readable condition names.
// The order follows the training dataset's label indices.
var conditions = map[int]string{
	0: "cellulitis",
	1: "impetigo",
	2: "athlete's foot",
	3: "nail fungus",
	4: "ringworm",
	5: "cutaneous larva migrans",
	6: "chickenpox",
	7: "shingles",
}

// ConditionFor returns the condition name for a class index.
// Unknown indices map to [DefaultCondition]; the function is total.
func ConditionFor(classID int) string {
	if name, ok := conditions[classID]; ok {
		return name
	}
	return DefaultCondition
}

// PromptFor builds the full generation prompt for a class index.
func PromptFor(classID int) string {
	return fmt.Sprintf(promptTemplate, ConditionFor(classID))
}
