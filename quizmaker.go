package studybuddy

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// CompletionFunc invokes the generative model with a prompt and optional
// reference material and returns its raw text reply. The quiz pipeline only
// needs this function; it does not care how the call is transported.
type CompletionFunc func(ctx context.Context, prompt string, refs []ContentRef) (string, error)

// BuildQuiz runs raw model text through normalization and validation and
// returns the canonical quiz. This is the whole pipeline after the model
// call; tests and callers with their own transport use it directly.
func BuildQuiz(rawText, fallbackTopic, fallbackLevel string) (*Quiz, error) {
	quiz, err := Normalize(rawText, fallbackTopic, fallbackLevel)
	if err != nil {
		return nil, err
	}
	if err := Validate(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// QuizMaker generates quizzes from study material using the OpenAI chat API.
type QuizMaker struct {
	client *openai.Client
	model  string
	logger *SessionLogger
}

// NewQuizMaker creates a new quiz maker with an OpenAI client.
func NewQuizMaker(apiKey, model string) *QuizMaker {
	return &QuizMaker{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// SetLogger attaches a session transcript logger.
func (qm *QuizMaker) SetLogger(logger *SessionLogger) {
	qm.logger = logger
}

// GenerateQuiz asks the model for a quiz and pipes the reply through
// normalization and validation. Parse and schema failures come back as
// typed errors; the caller decides whether to request a regeneration.
func (qm *QuizMaker) GenerateQuiz(ctx context.Context, req QuizRequest) (*Quiz, error) {
	prompt := qm.buildPrompt(req)

	if qm.logger != nil {
		qm.logger.LogLLMRequest("QuizMaker", prompt)
	}

	raw, err := qm.Complete(ctx, prompt, req.Refs)
	if err != nil {
		return nil, fmt.Errorf("failed to generate quiz: %w", err)
	}

	if qm.logger != nil {
		qm.logger.LogLLMResponse("QuizMaker", raw)
	}

	quiz, err := BuildQuiz(raw, req.Topic, req.Level)
	if qm.logger != nil {
		n := 0
		if quiz != nil {
			n = len(quiz.Items)
		}
		qm.logger.LogQuizResult(req.Topic, n, err)
	}
	if err != nil {
		return nil, err
	}

	VerboseLog("Generated quiz %q with %d items", quiz.Topic, len(quiz.Items))
	return quiz, nil
}

// Complete is the CompletionFunc backing this maker: one chat completion
// constrained to a JSON object response, with reference material appended to
// the user prompt.
func (qm *QuizMaker) Complete(ctx context.Context, prompt string, refs []ContentRef) (string, error) {
	userContent := prompt
	if len(refs) > 0 {
		var sb strings.Builder
		sb.WriteString(prompt)
		for _, ref := range refs {
			sb.WriteString(fmt.Sprintf("\n\nReference material (%s):\n%s", ref.Name, ref.Text))
		}
		userContent = sb.String()
	}

	resp, err := qm.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       qm.model,
			Temperature: 0.7,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are an expert quiz author. Generate high-quality multiple choice questions with exactly 4 options each. Respond with a single JSON object only.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: userContent,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from model %s", qm.model)
	}

	return resp.Choices[0].Message.Content, nil
}

func (qm *QuizMaker) buildPrompt(req QuizRequest) string {
	var sb strings.Builder

	if req.SystemRole != "" {
		sb.WriteString(req.SystemRole)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Learning topic:\n---\n")
	if strings.TrimSpace(req.Topic) != "" {
		sb.WriteString(strings.TrimSpace(req.Topic))
	} else {
		sb.WriteString("(see attached reference material)")
	}
	sb.WriteString("\n---\n\n")

	if req.Instructions != "" {
		sb.WriteString("Quiz instructions:\n")
		sb.WriteString(req.Instructions)
		sb.WriteString("\n\n")
	}

	sb.WriteString(fmt.Sprintf("Number of questions: %d\n", req.NumItems))
	sb.WriteString(fmt.Sprintf("Level: %s\n\n", req.Level))

	sb.WriteString("Output ONLY valid JSON matching this schema, with no extra prose and no markdown fences:\n")
	sb.WriteString(`{"topic": string, "level": string, "items": [{"id": string, "question": string, "options": [string, string, string, string], "answer_index": 0-3, "explanation": string, "tags": [string]}]}`)
	sb.WriteString("\n")

	return sb.String()
}
