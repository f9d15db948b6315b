package studybuddy

import (
	"errors"
	"testing"
)

func threeItemQuiz() *Quiz {
	return &Quiz{
		Topic: "t",
		Level: "easy",
		Items: []QuizItem{
			{ID: "q1", Question: "a?", Options: []string{"1", "2", "3", "4"}, AnswerIndex: 0, Explanation: "e1"},
			{ID: "q2", Question: "b?", Options: []string{"1", "2", "3", "4"}, AnswerIndex: 1},
			{ID: "q3", Question: "c?", Options: []string{"1", "2", "3", "4"}, AnswerIndex: 2},
		},
	}
}

func TestSessionFullProgression(t *testing.T) {
	var ledger ProgressLedger
	session := NewQuizSession(threeItemQuiz(), &ledger)

	answers := []int{0, 3, 2} // right, wrong, right
	for i, choice := range answers {
		if got := session.Phase(); got != PhaseUnanswered {
			t.Fatalf("item %d: phase = %v, want unanswered", i, got)
		}

		correct, err := session.Submit(choice)
		if err != nil {
			t.Fatalf("item %d: Submit failed: %v", i, err)
		}
		wantCorrect := i != 1
		if correct != wantCorrect {
			t.Errorf("item %d: correct = %v, want %v", i, correct, wantCorrect)
		}
		if got := session.Phase(); got != PhaseAnswered {
			t.Fatalf("item %d: phase after submit = %v", i, got)
		}

		item, err := session.Reveal()
		if err != nil {
			t.Fatalf("item %d: Reveal failed: %v", i, err)
		}
		if item.AnswerIndex != threeItemQuiz().Items[i].AnswerIndex {
			t.Errorf("item %d: revealed wrong item", i)
		}
		if got := session.Phase(); got != PhaseRevealed {
			t.Fatalf("item %d: phase after reveal = %v", i, got)
		}

		if err := session.Advance(); err != nil {
			t.Fatalf("item %d: Advance failed: %v", i, err)
		}
	}

	if got := session.Phase(); got != PhaseCompleted {
		t.Fatalf("phase after last advance = %v, want completed", got)
	}

	if _, err := session.Submit(0); !errors.Is(err, ErrQuizCompleted) {
		t.Errorf("Submit after completion = %v, want ErrQuizCompleted", err)
	}

	if ledger.TotalAttempts != 3 || ledger.TotalCorrect != 2 {
		t.Errorf("ledger = %d/%d, want 2 correct of 3", ledger.TotalCorrect, ledger.TotalAttempts)
	}
}

func TestSubmitWithoutChoiceRefused(t *testing.T) {
	var ledger ProgressLedger
	session := NewQuizSession(threeItemQuiz(), &ledger)

	for _, choice := range []int{-1, 4, 100} {
		_, err := session.Submit(choice)
		var inputErr *UserInputError
		if !errors.As(err, &inputErr) {
			t.Errorf("Submit(%d) = %v, want UserInputError", choice, err)
		}
	}

	if got := session.Phase(); got != PhaseUnanswered {
		t.Errorf("phase = %v, refused submit must not change state", got)
	}
	if ledger.TotalAttempts != 0 {
		t.Errorf("refused submit recorded progress: %d attempts", ledger.TotalAttempts)
	}
}

func TestSubmitIdempotentOnReRender(t *testing.T) {
	var ledger ProgressLedger
	session := NewQuizSession(threeItemQuiz(), &ledger)

	first, err := session.Submit(0)
	if err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}
	second, err := session.Submit(0)
	if err != nil {
		t.Fatalf("duplicate Submit failed: %v", err)
	}

	if first != second {
		t.Errorf("duplicate submit reported %v, first reported %v", second, first)
	}
	if ledger.TotalAttempts != 1 {
		t.Errorf("duplicate submit double-counted: %d attempts", ledger.TotalAttempts)
	}
	if got := session.Phase(); got != PhaseAnswered {
		t.Errorf("phase = %v, want answered", got)
	}
}

func TestGradingAtSubmitNotReveal(t *testing.T) {
	var ledger ProgressLedger
	session := NewQuizSession(threeItemQuiz(), &ledger)

	if _, err := session.Submit(0); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	// Skip the reveal entirely: progress must already be recorded.
	if ledger.TotalAttempts != 1 {
		t.Fatalf("progress not recorded at submit: %d attempts", ledger.TotalAttempts)
	}
	if err := session.Advance(); err != nil {
		t.Errorf("Advance without reveal failed: %v", err)
	}
}

func TestRevealBeforeAnswerRefused(t *testing.T) {
	session := NewQuizSession(threeItemQuiz(), &ProgressLedger{})

	_, err := session.Reveal()
	var inputErr *UserInputError
	if !errors.As(err, &inputErr) {
		t.Errorf("Reveal before answer = %v, want UserInputError", err)
	}
}

func TestAdvanceBeforeAnswerRefused(t *testing.T) {
	session := NewQuizSession(threeItemQuiz(), &ProgressLedger{})

	err := session.Advance()
	var inputErr *UserInputError
	if !errors.As(err, &inputErr) {
		t.Errorf("Advance before answer = %v, want UserInputError", err)
	}
	if session.Index() != 0 {
		t.Errorf("refused advance moved the cursor to %d", session.Index())
	}
}

func TestRevealIdempotent(t *testing.T) {
	session := NewQuizSession(threeItemQuiz(), &ProgressLedger{})

	if _, err := session.Submit(1); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := session.Reveal(); err != nil {
		t.Fatalf("Reveal failed: %v", err)
	}
	if _, err := session.Reveal(); err != nil {
		t.Errorf("repeated Reveal failed: %v", err)
	}
}

func TestEmptyQuizStartsCompleted(t *testing.T) {
	session := NewQuizSession(&Quiz{Topic: "t"}, &ProgressLedger{})

	if got := session.Phase(); got != PhaseCompleted {
		t.Errorf("empty quiz phase = %v, want completed", got)
	}
	if _, err := session.Current(); !errors.Is(err, ErrQuizCompleted) {
		t.Errorf("Current on empty quiz = %v, want ErrQuizCompleted", err)
	}
}

func TestRestartDiscardsSessionKeepsLedger(t *testing.T) {
	var ledger ProgressLedger
	session := NewQuizSession(threeItemQuiz(), &ledger)

	if _, err := session.Submit(0); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	session.Restart()

	if _, err := session.Submit(0); !errors.Is(err, ErrNoActiveQuiz) {
		t.Errorf("Submit after restart = %v, want ErrNoActiveQuiz", err)
	}
	if _, err := session.Current(); !errors.Is(err, ErrNoActiveQuiz) {
		t.Errorf("Current after restart = %v, want ErrNoActiveQuiz", err)
	}
	if ledger.TotalAttempts != 1 {
		t.Errorf("restart wiped the ledger: %d attempts", ledger.TotalAttempts)
	}
}

func TestSelectedClearedOnAdvance(t *testing.T) {
	session := NewQuizSession(threeItemQuiz(), &ProgressLedger{})

	if _, err := session.Submit(2); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if choice, ok := session.Selected(); !ok || choice != 2 {
		t.Fatalf("Selected = %d/%v, want 2/true", choice, ok)
	}
	if err := session.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if _, ok := session.Selected(); ok {
		t.Error("selection not cleared by advance")
	}
	if session.Index() != 1 {
		t.Errorf("index = %d, want 1", session.Index())
	}
}
