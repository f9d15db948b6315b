package studybuddy

import (
	"errors"
	"time"
)

var (
	// ErrNoActiveQuiz is returned after Restart, before a new quiz is supplied.
	ErrNoActiveQuiz = errors.New("no active quiz")
	// ErrQuizCompleted is returned for actions on a finished quiz.
	ErrQuizCompleted = errors.New("quiz already completed")
)

const noChoice = -1

// QuizSession drives a learner through one quiz, item by item. Each item
// moves Unanswered -> Answered -> Revealed before Advance steps to the next
// one; grading and progress recording happen at Submit, so a learner who
// skips the reveal still gets their outcome recorded.
//
// A session is owned by exactly one learning session and processes each
// action synchronously; the surrounding UI may re-invoke actions on
// re-render, so every mutating action is idempotent or refused.
type QuizSession struct {
	quiz   *Quiz
	ledger *ProgressLedger
	index  int
	choice int
	phase  Phase
	now    func() time.Time
}

// NewQuizSession starts a session over a validated quiz, feeding outcomes
// into ledger. A quiz with no items starts already completed; callers should
// warn and not present it.
func NewQuizSession(quiz *Quiz, ledger *ProgressLedger) *QuizSession {
	s := &QuizSession{
		quiz:   quiz,
		ledger: ledger,
		choice: noChoice,
		phase:  PhaseUnanswered,
		now:    time.Now,
	}
	if len(quiz.Items) == 0 {
		s.phase = PhaseCompleted
	}
	return s
}

// Phase returns the current progression phase.
func (s *QuizSession) Phase() Phase { return s.phase }

// Index returns the 0-based position of the current item.
func (s *QuizSession) Index() int { return s.index }

// Len returns the number of items in the active quiz.
func (s *QuizSession) Len() int {
	if s.quiz == nil {
		return 0
	}
	return len(s.quiz.Items)
}

// Ledger exposes the progress ledger for display.
func (s *QuizSession) Ledger() *ProgressLedger { return s.ledger }

// Selected returns the submitted choice for the current item, if any.
func (s *QuizSession) Selected() (int, bool) {
	if s.choice == noChoice {
		return 0, false
	}
	return s.choice, true
}

// Current returns the item the learner is on.
func (s *QuizSession) Current() (*QuizItem, error) {
	if s.quiz == nil {
		return nil, ErrNoActiveQuiz
	}
	if s.phase == PhaseCompleted {
		return nil, ErrQuizCompleted
	}
	return &s.quiz.Items[s.index], nil
}

// Submit grades a choice against the current item and records the outcome.
// A choice outside 0-3 (including the UI's "nothing selected" sentinel) is
// refused with a UserInputError and leaves the state untouched. Submitting
// again for an already answered item is the re-render case: it reports the
// recorded outcome without recording anything new.
func (s *QuizSession) Submit(choice int) (bool, error) {
	if s.quiz == nil {
		return false, ErrNoActiveQuiz
	}
	if s.phase == PhaseCompleted {
		return false, ErrQuizCompleted
	}
	if choice < 0 || choice >= optionCount {
		return false, &UserInputError{Reason: "select one of the four options first"}
	}

	item := &s.quiz.Items[s.index]
	if s.phase != PhaseUnanswered {
		return s.choice == item.AnswerIndex, nil
	}

	correct := choice == item.AnswerIndex
	s.ledger.Record(item.ID, correct, s.quiz.Level, s.now())
	s.choice = choice
	s.phase = PhaseAnswered
	return correct, nil
}

// Reveal exposes the correct answer and explanation for display. It has no
// grading side effects and may be called repeatedly while answered.
func (s *QuizSession) Reveal() (*QuizItem, error) {
	if s.quiz == nil {
		return nil, ErrNoActiveQuiz
	}
	switch s.phase {
	case PhaseAnswered, PhaseRevealed:
		s.phase = PhaseRevealed
		return &s.quiz.Items[s.index], nil
	case PhaseCompleted:
		return nil, ErrQuizCompleted
	default:
		return nil, &UserInputError{Reason: "submit an answer first"}
	}
}

// Advance clears the selection and moves to the next item, or completes the
// quiz when none remain. Valid once the current item has been answered;
// revealing first is optional.
func (s *QuizSession) Advance() error {
	if s.quiz == nil {
		return ErrNoActiveQuiz
	}
	switch s.phase {
	case PhaseCompleted:
		return ErrQuizCompleted
	case PhaseUnanswered:
		return &UserInputError{Reason: "answer the current question first"}
	}

	s.index++
	s.choice = noChoice
	if s.index >= len(s.quiz.Items) {
		s.phase = PhaseCompleted
	} else {
		s.phase = PhaseUnanswered
	}
	return nil
}

// Restart abandons the session from any phase. The ledger survives; a new
// quiz must be supplied (via NewQuizSession) before resuming.
func (s *QuizSession) Restart() {
	s.quiz = nil
	s.index = 0
	s.choice = noChoice
	s.phase = PhaseCompleted
}
