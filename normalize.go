package studybuddy

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	optionCount     = 4
	maxTopicLen     = 100
	parseSnippetLen = 500
	defaultTopic    = "General Quiz"
)

var optionLetters = []string{"A", "B", "C", "D"}

// Normalize converts raw model output into a canonical Quiz. The model is
// asked for plain JSON but routinely wraps it in markdown fences, buries it
// in prose, nests the question text, keys options by letter, or encodes the
// answer as "A".."D". Each known variant is rewritten by a fixed rule; any
// shape outside them fails with a ParseError or SchemaError carrying enough
// context to diagnose the original output.
//
// fallbackTopic and fallbackLevel fill in the topic and level when the model
// omits them.
func Normalize(rawText, fallbackTopic, fallbackLevel string) (*Quiz, error) {
	text := stripFence(rawText)

	var root interface{}
	if err := json.Unmarshal([]byte(text), &root); err != nil {
		// Single recovery attempt: the span from the first "{" to the
		// last "}" is often the quiz, with prose around it.
		span, ok := braceSpan(text)
		if !ok {
			return nil, &ParseError{Snippet: snippet(text), Err: err}
		}
		if err2 := json.Unmarshal([]byte(span), &root); err2 != nil {
			return nil, &ParseError{Snippet: snippet(text), Err: err}
		}
	}

	obj, ok := root.(map[string]interface{})
	if !ok {
		return nil, schemaErrorf(-1, "top-level JSON value is not an object")
	}

	// Top-level key aliasing, applied once.
	if v, ok := obj["questions"]; ok {
		obj["items"] = v
		delete(obj, "questions")
	}
	if v, ok := obj["quiz_name"]; ok {
		obj["topic"] = v
		delete(obj, "quiz_name")
	}

	topic, _ := obj["topic"].(string)
	if topic == "" {
		topic = strings.TrimSpace(fallbackTopic)
		if len(topic) > maxTopicLen {
			topic = topic[:maxTopicLen]
		}
		if topic == "" {
			topic = defaultTopic
		}
	}

	level, _ := obj["level"].(string)
	if level == "" {
		level = fallbackLevel
	}

	rawItems, ok := obj["items"].([]interface{})
	if !ok {
		return nil, schemaErrorf(-1, "missing or non-array %q", "items")
	}

	// An empty quiz is a valid degenerate result; the caller decides
	// whether to surface a warning.
	items := make([]QuizItem, 0, len(rawItems))
	for i, ri := range rawItems {
		item, err := normalizeItem(ri, i)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return &Quiz{Topic: topic, Level: level, Items: items}, nil
}

// normalizeItem applies the per-item rewrite rules in their fixed order.
// i is the 0-based position; default ids are 1-based ("q1" for the first item).
func normalizeItem(raw interface{}, i int) (QuizItem, error) {
	fields, ok := raw.(map[string]interface{})
	if !ok {
		return QuizItem{}, schemaErrorf(i, "item is not an object")
	}

	// question_text -> question
	if v, ok := fields["question_text"]; ok {
		fields["question"] = v
		delete(fields, "question_text")
	}
	question, ok := fields["question"].(string)
	if !ok {
		return QuizItem{}, schemaErrorf(i, "missing %q", "question")
	}

	// Letter-keyed options -> positional slice, missing letters become "".
	if keyed, ok := fields["options"].(map[string]interface{}); ok {
		seq := make([]interface{}, 0, optionCount)
		for _, letter := range optionLetters {
			v, ok := keyed[letter]
			if !ok {
				v = ""
			}
			seq = append(seq, v)
		}
		fields["options"] = seq
	}

	rawOptions, ok := fields["options"].([]interface{})
	if !ok || len(rawOptions) != optionCount {
		return QuizItem{}, schemaErrorf(i, "expected exactly %d options", optionCount)
	}
	options := make([]string, optionCount)
	for j, opt := range rawOptions {
		s, ok := opt.(string)
		if !ok {
			return QuizItem{}, schemaErrorf(i, "option %s is not a string", optionLetters[j])
		}
		options[j] = s
	}

	// correct_answer letter -> answer_index. The letter wins over any
	// answer_index the model also emitted.
	if v, ok := fields["correct_answer"]; ok {
		letter, _ := v.(string)
		letter = strings.ToUpper(strings.TrimSpace(letter))
		pos := strings.Index(strings.Join(optionLetters, ""), letter)
		if len(letter) != 1 || pos < 0 {
			return QuizItem{}, schemaErrorf(i, "invalid correct_answer %v", v)
		}
		fields["answer_index"] = pos
		delete(fields, "correct_answer")
	}

	answerIndex, ok := intField(fields["answer_index"])
	if !ok || answerIndex < 0 || answerIndex >= optionCount {
		return QuizItem{}, schemaErrorf(i, "missing or out-of-range answer_index (want 0-%d)", optionCount-1)
	}

	// question_number -> id, else positional default.
	if v, ok := fields["question_number"]; ok {
		fields["id"] = "q" + numberString(v)
		delete(fields, "question_number")
	}
	id, _ := fields["id"].(string)
	if id == "" {
		id = "q" + strconv.Itoa(i+1)
	}

	explanation, _ := fields["explanation"].(string)

	var tags []string
	if rawTags, ok := fields["tags"].([]interface{}); ok {
		for _, t := range rawTags {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
	}

	return QuizItem{
		ID:          id,
		Question:    question,
		Options:     options,
		AnswerIndex: answerIndex,
		Explanation: explanation,
		Tags:        tags,
	}, nil
}

// stripFence removes a leading ```json (or bare ```) fence and a trailing
// ``` fence, which the model emits despite instructions not to.
func stripFence(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "```json") {
		t = strings.TrimSpace(strings.TrimPrefix(t, "```json"))
	} else if strings.HasPrefix(t, "```") {
		t = strings.TrimSpace(strings.TrimPrefix(t, "```"))
	}
	if strings.HasSuffix(t, "```") {
		t = strings.TrimSpace(strings.TrimSuffix(t, "```"))
	}
	return t
}

// braceSpan returns the substring from the first "{" to the last "}".
func braceSpan(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

func snippet(s string) string {
	if len(s) > parseSnippetLen {
		return s[:parseSnippetLen]
	}
	return s
}

// intField reads a JSON number as an int, rejecting fractional values.
func intField(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// numberString renders a question_number for use in an id, whether the model
// sent it as a number or a string.
func numberString(v interface{}) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		if n == float64(int(n)) {
			return strconv.Itoa(int(n))
		}
		return fmt.Sprintf("%v", n)
	default:
		return fmt.Sprintf("%v", n)
	}
}
