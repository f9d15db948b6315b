package studybuddy

import (
	"fmt"
	"strings"
)

// ParseError reports model output that is not JSON even after brace-span
// recovery. Snippet holds the first 500 characters of the offending text so
// the failure can be diagnosed against the original model response.
type ParseError struct {
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse quiz JSON from model output: %v (output: %s)", e.Err, e.Snippet)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Violation names one schema rule broken by one quiz item. Index is the
// 0-based item position, or -1 for quiz-level rules.
type Violation struct {
	Index int
	Rule  string
}

func (v Violation) String() string {
	if v.Index < 0 {
		return v.Rule
	}
	return fmt.Sprintf("item %d: %s", v.Index, v.Rule)
}

// SchemaError reports JSON that parsed but violates the quiz schema. The
// normalizer fails on the first violation it hits; the validator collects
// every violation into a single SchemaError.
type SchemaError struct {
	Violations []Violation
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "invalid quiz: " + strings.Join(parts, "; ")
}

func schemaErrorf(index int, format string, args ...interface{}) *SchemaError {
	return &SchemaError{Violations: []Violation{{Index: index, Rule: fmt.Sprintf(format, args...)}}}
}

// UserInputError reports a refused learner action, like submitting with no
// choice selected. It never corrupts session state and is safe to retry.
type UserInputError struct {
	Reason string
}

func (e *UserInputError) Error() string { return e.Reason }
