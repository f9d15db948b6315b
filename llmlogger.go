package studybuddy

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SessionLogger writes a transcript of every model interaction in one
// learning session to its own file under log/, so a bad quiz or answer can
// be traced back to the exact prompt and response that produced it.
type SessionLogger struct {
	file      *os.File
	mu        sync.Mutex
	sessionID string
}

// NewSessionLogger creates a transcript logger for a learning session.
func NewSessionLogger(sessionID, topic, level string) (*SessionLogger, error) {
	if err := os.MkdirAll("log", 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := filepath.Join("log", fmt.Sprintf("%s.log", sessionID))
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := &SessionLogger{
		file:      file,
		sessionID: sessionID,
	}

	logger.Logf("=== Learning Session Log ===\n")
	logger.Logf("Session ID: %s\n", sessionID)
	logger.Logf("Topic: %s\n", topic)
	logger.Logf("Level: %s\n", level)
	logger.Logf("Started: %s\n", time.Now().Format(time.RFC3339))
	logger.Logf("============================\n\n")

	return logger, nil
}

// Logf writes a formatted log entry with timestamp
func (sl *SessionLogger) Logf(format string, args ...interface{}) {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	message := fmt.Sprintf(format, args...)

	fmt.Fprintf(sl.file, "[%s] %s", timestamp, message)
	sl.file.Sync()
}

// LogLLMRequest logs an outgoing model prompt
func (sl *SessionLogger) LogLLMRequest(module, prompt string) {
	sl.Logf("=== LLM REQUEST (%s) ===\n", module)
	sl.Logf("Prompt:\n%s\n", prompt)
	sl.Logf("=====================\n\n")
}

// LogLLMResponse logs the raw model response before normalization
func (sl *SessionLogger) LogLLMResponse(module, response string) {
	sl.Logf("=== LLM RESPONSE (%s) ===\n", module)
	sl.Logf("Response:\n%s\n", response)
	sl.Logf("======================\n\n")
}

// LogQuizResult logs the outcome of a quiz normalization
func (sl *SessionLogger) LogQuizResult(topic string, numItems int, err error) {
	if err != nil {
		sl.Logf("Quiz %q: FAILED - %v\n", topic, err)
		return
	}
	sl.Logf("Quiz %q: %d items accepted\n", topic, numItems)
}

// Close closes the log file
func (sl *SessionLogger) Close() error {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.file != nil {
		fmt.Fprintf(sl.file, "=== Learning Session Complete ===\n")
		fmt.Fprintf(sl.file, "Completed: %s\n", time.Now().Format(time.RFC3339))
		return sl.file.Close()
	}
	return nil
}
