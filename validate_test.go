package studybuddy

import (
	"errors"
	"testing"
)

func validQuiz() *Quiz {
	return &Quiz{
		Topic: "t",
		Level: "easy",
		Items: []QuizItem{
			{ID: "q1", Question: "a?", Options: []string{"1", "2", "3", "4"}, AnswerIndex: 0},
			{ID: "q2", Question: "b?", Options: []string{"1", "2", "3", "4"}, AnswerIndex: 3},
		},
	}
}

func TestValidateAcceptsValidQuiz(t *testing.T) {
	if err := Validate(validQuiz()); err != nil {
		t.Errorf("valid quiz rejected: %v", err)
	}
}

func TestValidateAcceptsEmptyQuiz(t *testing.T) {
	if err := Validate(&Quiz{Topic: "t"}); err != nil {
		t.Errorf("degenerate empty quiz rejected: %v", err)
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	quiz := &Quiz{
		Items: []QuizItem{
			{ID: "q1", Question: "", Options: []string{"1", "2", "3"}, AnswerIndex: 0},
			{ID: "q2", Question: "b?", Options: []string{"1", "2", "3", "4"}, AnswerIndex: 5},
			{ID: "q1", Question: "c?", Options: []string{"1", "2", "3", "4"}, AnswerIndex: 1},
		},
	}

	err := Validate(quiz)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("got %v, want SchemaError", err)
	}

	// Item 0 breaks two rules, item 1 one, item 2 duplicates item 0's id:
	// all four must be reported in one pass.
	if len(schemaErr.Violations) != 4 {
		t.Fatalf("got %d violations, want 4: %v", len(schemaErr.Violations), schemaErr)
	}

	wantIndexes := []int{0, 0, 1, 2}
	for i, v := range schemaErr.Violations {
		if v.Index != wantIndexes[i] {
			t.Errorf("violation %d names item %d, want %d (%s)", i, v.Index, wantIndexes[i], v.Rule)
		}
	}
}

func TestValidateNegativeAnswerIndex(t *testing.T) {
	quiz := validQuiz()
	quiz.Items[0].AnswerIndex = -1

	var schemaErr *SchemaError
	if !errors.As(Validate(quiz), &schemaErr) {
		t.Fatal("negative answer index accepted")
	}
}

func TestValidateEmptyID(t *testing.T) {
	quiz := validQuiz()
	quiz.Items[1].ID = ""

	var schemaErr *SchemaError
	if !errors.As(Validate(quiz), &schemaErr) {
		t.Fatal("empty item id accepted")
	}
}
