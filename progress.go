package studybuddy

import "time"

// DefaultSummaryLen is how many recent outcomes the progress display shows.
const DefaultSummaryLen = 5

// Record appends one graded outcome to the ledger. The first recorded
// outcome for an item id is authoritative: recording the same id again is a
// no-op, so a re-rendered or retried submission cannot double-count.
func (l *ProgressLedger) Record(itemID string, correct bool, level string, now time.Time) {
	for _, e := range l.History {
		if e.ItemID == itemID {
			return
		}
	}

	l.TotalAttempts++
	if correct {
		l.TotalCorrect++
	}
	l.History = append(l.History, ProgressEntry{
		ItemID:    itemID,
		Correct:   correct,
		Level:     level,
		Timestamp: now,
	})
}

// Accuracy returns the percentage of recorded attempts that were correct,
// or 0 when nothing has been recorded yet.
func (l *ProgressLedger) Accuracy() float64 {
	if l.TotalAttempts == 0 {
		return 0
	}
	return float64(l.TotalCorrect) / float64(l.TotalAttempts) * 100
}

// AttemptSummary is one line of the recent-progress display.
type AttemptSummary struct {
	Correct bool
	Level   string
}

// RecentSummary returns the last n outcomes in chronological order, fewer if
// the history is shorter.
func (l *ProgressLedger) RecentSummary(n int) []AttemptSummary {
	if n > len(l.History) {
		n = len(l.History)
	}
	if n <= 0 {
		return nil
	}

	summary := make([]AttemptSummary, 0, n)
	for _, e := range l.History[len(l.History)-n:] {
		summary = append(summary, AttemptSummary{Correct: e.Correct, Level: e.Level})
	}
	return summary
}

// MissedItemIDs returns the ids of items answered incorrectly, in the order
// they were attempted. Review mode treats these as the learner's weak areas.
func (l *ProgressLedger) MissedItemIDs() []string {
	var ids []string
	for _, e := range l.History {
		if !e.Correct {
			ids = append(ids, e.ItemID)
		}
	}
	return ids
}
