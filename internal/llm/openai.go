// Package llm talks to the OpenAI chat completion API, offering the action
// tool schema so the model can either answer in free text or select one
// structured action.
package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bellavida/clinic-concierge/internal/intent"
	"github.com/bellavida/clinic-concierge/internal/session"
	"github.com/bellavida/clinic-concierge/pkg/logging"
)

// Result is the model's output: either free text or one selected action
// (tool name plus raw JSON arguments), never both.
type Result struct {
	Text     string
	ToolName string
	ToolArgs string
}

// IsAction reports whether the model selected a structured action.
func (r Result) IsAction() bool { return r.ToolName != "" }

// Classifier turns a conversation history into a reply or an action pick.
type Classifier interface {
	Classify(ctx context.Context, turns []session.Turn, userText string) (Result, error)
}

type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClassifier implements Classifier on the OpenAI chat API.
type OpenAIClassifier struct {
	client chatClient
	model  string
	logger *logging.Logger
}

// NewOpenAIClassifier wraps an OpenAI-compatible chat client.
func NewOpenAIClassifier(client chatClient, model string, logger *logging.Logger) *OpenAIClassifier {
	if client == nil {
		panic("llm: chat client cannot be nil")
	}
	if model == "" {
		model = "gpt-4.1-mini"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &OpenAIClassifier{
		client: client,
		model:  model,
		logger: logger,
	}
}

var _ Classifier = (*OpenAIClassifier)(nil)

// Classify sends the full history with the action tool schema. userText is
// the current combined inbound message; it only gates whether the
// get_current_date tool is offered, the history already contains it.
func (c *OpenAIClassifier) Classify(ctx context.Context, turns []session.Turn, userText string) (Result, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toChatMessages(turns),
		Tools:    intent.Tools(intent.HasSchedulingIntent(userText)),
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("llm: completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, errors.New("llm: completion returned no choices")
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) > 0 {
		call := msg.ToolCalls[0]
		if len(msg.ToolCalls) > 1 {
			c.logger.Warn("model selected multiple tools, using the first",
				"count", len(msg.ToolCalls), "tool", call.Function.Name)
		}
		return Result{
			ToolName: call.Function.Name,
			ToolArgs: call.Function.Arguments,
		}, nil
	}
	return Result{Text: msg.Content}, nil
}

func toChatMessages(turns []session.Turn) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	return messages
}
