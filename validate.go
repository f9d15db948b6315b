package studybuddy

import (
	"fmt"
	"strings"
)

// Validate re-checks the quiz invariants independently of Normalize, so a
// quiz assembled by other means (loaded from the store, built in a test) can
// be verified before a session starts. Unlike the normalizer it does not
// stop at the first problem: every violation is collected into a single
// SchemaError.
func Validate(q *Quiz) error {
	var violations []Violation

	add := func(index int, format string, args ...interface{}) {
		violations = append(violations, Violation{Index: index, Rule: fmt.Sprintf(format, args...)})
	}

	seen := make(map[string]int, len(q.Items))
	for i, item := range q.Items {
		if strings.TrimSpace(item.Question) == "" {
			add(i, "empty question")
		}
		if len(item.Options) != optionCount {
			add(i, "has %d options, want %d", len(item.Options), optionCount)
		}
		if item.AnswerIndex < 0 || item.AnswerIndex >= optionCount {
			add(i, "answer_index %d out of range 0-%d", item.AnswerIndex, optionCount-1)
		}
		if item.ID == "" {
			add(i, "empty id")
		} else if first, dup := seen[item.ID]; dup {
			add(i, "duplicate id %q (first used by item %d)", item.ID, first)
		} else {
			seen[item.ID] = i
		}
	}

	if len(violations) > 0 {
		return &SchemaError{Violations: violations}
	}
	return nil
}
