package studybuddy

import (
	"bufio"
	"os"
	"strings"
)

// Prompt file section names.
const (
	SectionSystemRole      = "SYSTEM_ROLE"
	SectionQuizInstruction = "QUIZ_INSTRUCTION_JSON"
	SectionRephrase        = "REPHRASE_INSTRUCTION"
	SectionReviewTips      = "REVIEW_TIPS"
)

// PromptSections holds the prompt template file split by [SECTION] headers.
type PromptSections map[string]string

// Get returns the named section, or "" when it is absent.
func (p PromptSections) Get(name string) string { return p[name] }

// LoadPrompts reads a prompt template file where lines of the form
// [SECTION_NAME] open a new section and everything until the next header
// belongs to it. A missing file yields empty sections rather than an error,
// so the app degrades to unprompted model calls.
func LoadPrompts(path string) PromptSections {
	sections := PromptSections{
		SectionSystemRole:      "",
		SectionQuizInstruction: "",
		SectionRephrase:        "",
		SectionReviewTips:      "",
	}

	f, err := os.Open(path)
	if err != nil {
		return sections
	}
	defer f.Close()

	var (
		current string
		buf     []string
	)
	flush := func() {
		if current != "" {
			sections[current] = strings.TrimSpace(strings.Join(buf, "\n"))
		}
		buf = buf[:0]
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			flush()
			current = strings.Trim(trimmed, "[]")
			continue
		}
		buf = append(buf, line)
	}
	flush()

	return sections
}
