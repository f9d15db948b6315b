package studybuddy

import (
	"reflect"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(":memory:")
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return store
}

func TestStoreQuizRoundTrip(t *testing.T) {
	store := openTestStore(t)

	quiz := &Quiz{
		Topic: "Cell Biology",
		Level: "medium",
		Items: []QuizItem{
			{
				ID:          "q1",
				Question:    "What is the powerhouse of the cell?",
				Options:     []string{"Nucleus", "Mitochondria", "Ribosome", "Golgi"},
				AnswerIndex: 1,
				Explanation: "Mitochondria produce ATP.",
				Tags:        []string{"organelles"},
			},
			{
				ID:          "q2",
				Question:    "Where is DNA stored?",
				Options:     []string{"Nucleus", "Cytoplasm", "Membrane", "Vacuole"},
				AnswerIndex: 0,
			},
		},
	}

	id, err := store.SaveQuiz(quiz)
	if err != nil {
		t.Fatalf("SaveQuiz failed: %v", err)
	}
	if id == "" {
		t.Fatal("SaveQuiz returned empty id")
	}

	loaded, err := store.LoadQuiz(id)
	if err != nil {
		t.Fatalf("LoadQuiz failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, quiz) {
		t.Errorf("round trip changed quiz:\ngot  %+v\nwant %+v", loaded, quiz)
	}
}

func TestStoreLoadQuizMissing(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.LoadQuiz("no-such-id"); err == nil {
		t.Error("loading a missing quiz succeeded")
	}
}

func TestStoreListQuizzes(t *testing.T) {
	store := openTestStore(t)

	for _, topic := range []string{"First", "Second"} {
		quiz := &Quiz{Topic: topic, Level: "easy", Items: []QuizItem{
			{ID: "q1", Question: "?", Options: []string{"a", "b", "c", "d"}, AnswerIndex: 0},
		}}
		if _, err := store.SaveQuiz(quiz); err != nil {
			t.Fatalf("SaveQuiz failed: %v", err)
		}
	}

	quizzes, err := store.ListQuizzes(0)
	if err != nil {
		t.Fatalf("ListQuizzes failed: %v", err)
	}
	if len(quizzes) != 2 {
		t.Fatalf("got %d quizzes, want 2", len(quizzes))
	}
	for _, q := range quizzes {
		if q.NumItems != 1 {
			t.Errorf("quiz %s item count = %d, want 1", q.ID, q.NumItems)
		}
	}

	limited, err := store.ListQuizzes(1)
	if err != nil {
		t.Fatalf("ListQuizzes(1) failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit ignored: got %d quizzes", len(limited))
	}
}

func TestStoreProgressDedup(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	entry := ProgressEntry{ItemID: "q1", Correct: true, Level: "easy", Timestamp: now}
	if err := store.SaveProgress(entry); err != nil {
		t.Fatalf("SaveProgress failed: %v", err)
	}
	// Replaying the same item id must be ignored, mirroring the ledger.
	entry.Correct = false
	if err := store.SaveProgress(entry); err != nil {
		t.Fatalf("replayed SaveProgress failed: %v", err)
	}
	if err := store.SaveProgress(ProgressEntry{ItemID: "q2", Correct: false, Level: "hard", Timestamp: now.Add(time.Second)}); err != nil {
		t.Fatalf("SaveProgress failed: %v", err)
	}

	ledger, err := store.LoadLedger()
	if err != nil {
		t.Fatalf("LoadLedger failed: %v", err)
	}

	if ledger.TotalAttempts != 2 {
		t.Errorf("TotalAttempts = %d, want 2", ledger.TotalAttempts)
	}
	if ledger.TotalCorrect != 1 {
		t.Errorf("TotalCorrect = %d, want 1 (first write wins)", ledger.TotalCorrect)
	}
	if len(ledger.History) != 2 || ledger.History[0].ItemID != "q1" || ledger.History[1].ItemID != "q2" {
		t.Errorf("history order wrong: %+v", ledger.History)
	}
}
