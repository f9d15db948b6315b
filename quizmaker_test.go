package studybuddy

import (
	"errors"
	"testing"
)

func TestBuildQuizPipeline(t *testing.T) {
	raw := "```json\n" + `{
		"quiz_name": "Go Basics",
		"questions": [
			{"question_text": "Which keyword declares a variable?",
			 "options": {"A": "var", "B": "let", "C": "def", "D": "dim"},
			 "correct_answer": "A"}
		]
	}` + "\n```"

	quiz, err := BuildQuiz(raw, "fallback", "easy")
	if err != nil {
		t.Fatalf("BuildQuiz failed: %v", err)
	}

	if quiz.Topic != "Go Basics" {
		t.Errorf("topic = %q", quiz.Topic)
	}
	item := quiz.Items[0]
	if item.ID != "q1" || item.AnswerIndex != 0 || item.Options[0] != "var" {
		t.Errorf("unexpected item: %+v", item)
	}
}

func TestBuildQuizValidatesAfterNormalize(t *testing.T) {
	// A present-but-empty question passes the normalizer's presence rule
	// and must be caught by the validation pass.
	raw := `{"items":[{"question":"  ","options":["a","b","c","d"],"answer_index":0}]}`

	_, err := BuildQuiz(raw, "t", "easy")
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("got %v, want SchemaError from validation pass", err)
	}
}

func TestBuildQuizDuplicateIDs(t *testing.T) {
	raw := `{"items":[
		{"id":"q1","question":"a?","options":["a","b","c","d"],"answer_index":0},
		{"id":"q1","question":"b?","options":["a","b","c","d"],"answer_index":1}
	]}`

	_, err := BuildQuiz(raw, "t", "easy")
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("got %v, want SchemaError for duplicate ids", err)
	}
}
