package studybuddy

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store persists generated quizzes and the progress ledger in sqlite, so a
// learner can revisit a quiz and keep their history between runs. Live
// session state (cursor, phase) is deliberately not persisted.
type Store struct {
	db *sql.DB
}

// StoredQuiz is the listing row for a persisted quiz.
type StoredQuiz struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Level     string    `json:"level"`
	NumItems  int       `json:"num_items"`
	CreatedAt time.Time `json:"created_at"`
}

// OpenStore opens the sqlite database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Init creates the tables if they don't exist.
func (s *Store) Init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS quizzes (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			level TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS quiz_items (
			quiz_id TEXT NOT NULL,
			item_num INTEGER NOT NULL,
			item_id TEXT NOT NULL,
			question TEXT NOT NULL,
			options TEXT NOT NULL,
			answer_index INTEGER NOT NULL,
			explanation TEXT,
			tags TEXT,
			PRIMARY KEY (quiz_id, item_num),
			FOREIGN KEY (quiz_id) REFERENCES quizzes(id)
		)`,
		`CREATE TABLE IF NOT EXISTS progress (
			item_id TEXT PRIMARY KEY,
			correct INTEGER NOT NULL,
			level TEXT NOT NULL,
			recorded_at DATETIME NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute %s: %w", query, err)
		}
	}
	return nil
}

// SaveQuiz stores a quiz and its items and returns the new quiz id.
func (s *Store) SaveQuiz(q *Quiz) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO quizzes (id, topic, level, created_at) VALUES (?, ?, ?, ?)",
		id, q.Topic, q.Level, time.Now(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save quiz: %w", err)
	}

	for num, item := range q.Items {
		optionsJSON, err := encodeStrings(item.Options)
		if err != nil {
			return "", fmt.Errorf("failed to encode options for item %s: %w", item.ID, err)
		}
		tagsJSON, err := encodeStrings(item.Tags)
		if err != nil {
			return "", fmt.Errorf("failed to encode tags for item %s: %w", item.ID, err)
		}

		_, err = tx.Exec(
			"INSERT INTO quiz_items (quiz_id, item_num, item_id, question, options, answer_index, explanation, tags) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			id, num, item.ID, item.Question, optionsJSON, item.AnswerIndex, item.Explanation, tagsJSON,
		)
		if err != nil {
			return "", fmt.Errorf("failed to save item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit quiz: %w", err)
	}
	return id, nil
}

// LoadQuiz retrieves a stored quiz with its items in order.
func (s *Store) LoadQuiz(id string) (*Quiz, error) {
	var quiz Quiz
	err := s.db.QueryRow(
		"SELECT topic, level FROM quizzes WHERE id = ?", id,
	).Scan(&quiz.Topic, &quiz.Level)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("quiz not found: %s", id)
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}

	rows, err := s.db.Query(
		"SELECT item_id, question, options, answer_index, explanation, tags FROM quiz_items WHERE quiz_id = ? ORDER BY item_num",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item              QuizItem
			optionsJSON, tags string
		)
		err := rows.Scan(&item.ID, &item.Question, &optionsJSON, &item.AnswerIndex, &item.Explanation, &tags)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz item: %w", err)
		}
		if item.Options, err = decodeStrings(optionsJSON); err != nil {
			return nil, fmt.Errorf("failed to decode options for item %s: %w", item.ID, err)
		}
		if item.Tags, err = decodeStrings(tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags for item %s: %w", item.ID, err)
		}
		quiz.Items = append(quiz.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quiz items: %w", err)
	}

	return &quiz, nil
}

// ListQuizzes retrieves stored quizzes newest first, optionally limited.
func (s *Store) ListQuizzes(limit int) ([]StoredQuiz, error) {
	query := `SELECT q.id, q.topic, q.level, q.created_at, COUNT(i.item_id)
		FROM quizzes q LEFT JOIN quiz_items i ON i.quiz_id = q.id
		GROUP BY q.id ORDER BY q.created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []StoredQuiz
	for rows.Next() {
		var q StoredQuiz
		if err := rows.Scan(&q.ID, &q.Topic, &q.Level, &q.CreatedAt, &q.NumItems); err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quizzes: %w", err)
	}

	return quizzes, nil
}

// SaveProgress persists one ledger entry. INSERT OR IGNORE mirrors the
// ledger's first-write-wins rule, so replaying history is harmless.
func (s *Store) SaveProgress(entry ProgressEntry) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO progress (item_id, correct, level, recorded_at) VALUES (?, ?, ?, ?)",
		entry.ItemID, entry.Correct, entry.Level, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// LoadLedger rebuilds the progress ledger from stored entries in
// chronological order.
func (s *Store) LoadLedger() (*ProgressLedger, error) {
	rows, err := s.db.Query(
		"SELECT item_id, correct, level, recorded_at FROM progress ORDER BY recorded_at, item_id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	defer rows.Close()

	ledger := &ProgressLedger{}
	for rows.Next() {
		var e ProgressEntry
		if err := rows.Scan(&e.ItemID, &e.Correct, &e.Level, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan progress entry: %w", err)
		}
		ledger.Record(e.ItemID, e.Correct, e.Level, e.Timestamp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating progress: %w", err)
	}

	return ledger, nil
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeStrings(data string) ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}
