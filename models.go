package studybuddy

import "time"

// QuizItem represents a single multiple choice question: exactly four
// options, one correct 0-based answer index.
type QuizItem struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation"`
	Tags        []string `json:"tags"`
}

// Quiz represents a topic-tagged, leveled collection of quiz items.
type Quiz struct {
	Topic string     `json:"topic"`
	Level string     `json:"level"`
	Items []QuizItem `json:"items"`
}

// ProgressEntry records the first graded outcome for a quiz item.
type ProgressEntry struct {
	ItemID    string    `json:"item_id"`
	Correct   bool      `json:"correct"`
	Level     string    `json:"level"`
	Timestamp time.Time `json:"timestamp"`
}

// ProgressLedger accumulates attempt history across quizzes. Entries are
// append-only and deduplicated by item id; the zero value is ready to use.
type ProgressLedger struct {
	TotalAttempts int             `json:"total_attempts"`
	TotalCorrect  int             `json:"total_correct"`
	History       []ProgressEntry `json:"history"`
}

// Phase represents where the learner is on the current quiz item.
type Phase string

const (
	PhaseUnanswered Phase = "unanswered"
	PhaseAnswered   Phase = "answered"
	PhaseRevealed   Phase = "revealed"
	PhaseCompleted  Phase = "completed"
)

// ContentRef points at an opaque piece of reference material (an uploaded
// document, a pasted excerpt) handed to the model alongside a prompt.
type ContentRef struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// QuizRequest represents a request to generate a quiz.
type QuizRequest struct {
	Topic        string       `json:"topic"`
	NumItems     int          `json:"num_items"`
	Level        string       `json:"level"`
	Refs         []ContentRef `json:"refs,omitempty"`
	SystemRole   string       `json:"system_role,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
}
