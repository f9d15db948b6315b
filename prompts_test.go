package studybuddy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPrompts(t *testing.T) {
	content := `[SYSTEM_ROLE]
You are StudyBuddy, a patient tutor.

[QUIZ_INSTRUCTION_JSON]
Emit a JSON object with "items".
One question per item.

[REVIEW_TIPS]
Focus on the why.
`
	path := filepath.Join(t.TempDir(), "prompts.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	sections := LoadPrompts(path)

	if got := sections.Get(SectionSystemRole); got != "You are StudyBuddy, a patient tutor." {
		t.Errorf("SYSTEM_ROLE = %q", got)
	}
	want := "Emit a JSON object with \"items\".\nOne question per item."
	if got := sections.Get(SectionQuizInstruction); got != want {
		t.Errorf("QUIZ_INSTRUCTION_JSON = %q, want %q", got, want)
	}
	if got := sections.Get(SectionReviewTips); got != "Focus on the why." {
		t.Errorf("REVIEW_TIPS = %q", got)
	}
	if got := sections.Get(SectionRephrase); got != "" {
		t.Errorf("absent section = %q, want empty", got)
	}
}

func TestLoadPromptsMissingFile(t *testing.T) {
	sections := LoadPrompts(filepath.Join(t.TempDir(), "nope.txt"))

	for _, name := range []string{SectionSystemRole, SectionQuizInstruction, SectionRephrase, SectionReviewTips} {
		if got := sections.Get(name); got != "" {
			t.Errorf("section %s = %q, want empty for missing file", name, got)
		}
	}
}
