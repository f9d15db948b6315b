package studybuddy

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Chat roles as stored in the conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// maxChatWindow is how many trailing turns are sent with each call; older
// turns are dropped to keep the prompt bounded.
const maxChatWindow = 12

// ChatTurn is one message in the tutor conversation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatTutor answers study questions conversationally, grounded in the
// learner's reference material, and writes review cards over missed items.
type ChatTutor struct {
	client *openai.Client
	model  string
	logger *SessionLogger
}

// NewChatTutor creates a new chat tutor with an OpenAI client.
func NewChatTutor(apiKey, model string) *ChatTutor {
	return &ChatTutor{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// SetLogger attaches a session transcript logger.
func (ct *ChatTutor) SetLogger(logger *SessionLogger) {
	ct.logger = logger
}

// Respond continues the conversation with the model, sending the last
// turns of history plus any reference material. The history itself is a
// simple append-only list owned by the caller.
func (ct *ChatTutor) Respond(ctx context.Context, turns []ChatTurn, refs []ContentRef, systemRole string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, maxChatWindow+2)

	if systemRole != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemRole,
		})
	}

	if len(refs) > 0 {
		var sb strings.Builder
		sb.WriteString("Reference material for this session:\n")
		for _, ref := range refs {
			sb.WriteString(fmt.Sprintf("\n--- %s ---\n%s\n", ref.Name, ref.Text))
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: sb.String(),
		})
	}

	window := turns
	if len(window) > maxChatWindow {
		window = window[len(window)-maxChatWindow:]
	}
	for _, turn := range window {
		role := openai.ChatMessageRoleAssistant
		prefix := "StudyBuddy AI: "
		if turn.Role == RoleUser {
			role = openai.ChatMessageRoleUser
			prefix = "Student: "
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: prefix + turn.Content,
		})
	}

	if ct.logger != nil && len(window) > 0 {
		ct.logger.LogLLMRequest("ChatTutor", window[len(window)-1].Content)
	}

	resp, err := ct.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       ct.model,
			Temperature: 0.6,
			Messages:    messages,
		},
	)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from model %s", ct.model)
	}

	reply := resp.Choices[0].Message.Content
	if ct.logger != nil {
		ct.logger.LogLLMResponse("ChatTutor", reply)
	}
	return reply, nil
}

// ReviewCard asks the model to summarize the material behind the items the
// learner got wrong. missedIDs come from ProgressLedger.MissedItemIDs.
func (ct *ChatTutor) ReviewCard(ctx context.Context, missedIDs []string, topicText string, refs []ContentRef, systemRole, reviewTips string) (string, error) {
	if len(missedIDs) == 0 {
		return "", &UserInputError{Reason: "no incorrect answers to review yet"}
	}

	var sb strings.Builder
	if systemRole != "" {
		sb.WriteString(systemRole)
		sb.WriteString("\n\n")
	}
	if reviewTips != "" {
		sb.WriteString(reviewTips)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Summarize the material behind these question ids, treating them as the learner's weak areas:\n")
	sb.WriteString(strings.Join(missedIDs, ", "))
	sb.WriteString("\n\nUse the attached reference material where available.")
	if topicText != "" {
		if len(topicText) > 3000 {
			topicText = topicText[:3000]
		}
		sb.WriteString("\n\nTopic summary:\n")
		sb.WriteString(topicText)
	}

	prompt := sb.String()
	if ct.logger != nil {
		ct.logger.LogLLMRequest("ReviewCard", prompt)
	}

	userContent := prompt
	if len(refs) > 0 {
		var rb strings.Builder
		rb.WriteString(prompt)
		for _, ref := range refs {
			rb.WriteString(fmt.Sprintf("\n\nReference material (%s):\n%s", ref.Name, ref.Text))
		}
		userContent = rb.String()
	}

	resp, err := ct.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       ct.model,
			Temperature: 0.5,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: userContent,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("review generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from model %s", ct.model)
	}

	card := resp.Choices[0].Message.Content
	if ct.logger != nil {
		ct.logger.LogLLMResponse("ReviewCard", card)
	}
	return card, nil
}
