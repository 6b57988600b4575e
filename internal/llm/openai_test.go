package llm

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellavida/clinic-concierge/internal/intent"
	"github.com/bellavida/clinic-concierge/internal/session"
	"github.com/bellavida/clinic-concierge/pkg/logging"
)

type stubChatClient struct {
	response openai.ChatCompletionResponse
	err      error
	lastReq  openai.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.lastReq = req
	return s.response, s.err
}

var history = []session.Turn{
	{Role: session.RoleSystem, Content: "reglas"},
	{Role: session.RoleUser, Content: "hola"},
}

func TestClassifyPlainText(t *testing.T) {
	stub := &stubChatClient{
		response: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "¡Hola! ¿En qué puedo ayudarte?"}},
			},
		},
	}
	c := NewOpenAIClassifier(stub, "gpt-4.1-mini", logging.Default())

	res, err := c.Classify(context.Background(), history, "hola")
	require.NoError(t, err)
	assert.False(t, res.IsAction())
	assert.Equal(t, "¡Hola! ¿En qué puedo ayudarte?", res.Text)
}

func TestClassifyToolCall(t *testing.T) {
	stub := &stubChatClient{
		response: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{
					ToolCalls: []openai.ToolCall{{
						Type: openai.ToolTypeFunction,
						Function: openai.FunctionCall{
							Name:      intent.NamePurchase,
							Arguments: `{"product_id":"CREMA-ANTIENVE-001"}`,
						},
					}},
				}},
			},
		},
	}
	c := NewOpenAIClassifier(stub, "gpt-4.1-mini", logging.Default())

	res, err := c.Classify(context.Background(), history, "quiero comprar la crema")
	require.NoError(t, err)
	require.True(t, res.IsAction())
	assert.Equal(t, intent.NamePurchase, res.ToolName)
	assert.Contains(t, res.ToolArgs, "CREMA-ANTIENVE-001")
}

func TestClassifySendsFullHistory(t *testing.T) {
	stub := &stubChatClient{
		response: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "ok"}},
			},
		},
	}
	c := NewOpenAIClassifier(stub, "gpt-4.1-mini", logging.Default())

	_, err := c.Classify(context.Background(), history, "hola")
	require.NoError(t, err)

	require.Len(t, stub.lastReq.Messages, 2)
	assert.Equal(t, session.RoleSystem, stub.lastReq.Messages[0].Role)
	assert.Len(t, stub.lastReq.Tools, 5, "base tool surface without scheduling intent")
}

func TestClassifySchedulingIntentAddsCurrentDateTool(t *testing.T) {
	stub := &stubChatClient{
		response: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "ok"}},
			},
		},
	}
	c := NewOpenAIClassifier(stub, "gpt-4.1-mini", logging.Default())

	_, err := c.Classify(context.Background(), history, "quiero agendar cita para botox")
	require.NoError(t, err)
	assert.Len(t, stub.lastReq.Tools, 6)
}

func TestClassifyErrors(t *testing.T) {
	stub := &stubChatClient{err: errors.New("rate limited")}
	c := NewOpenAIClassifier(stub, "gpt-4.1-mini", logging.Default())
	_, err := c.Classify(context.Background(), history, "hola")
	require.Error(t, err)

	stub = &stubChatClient{} // zero response: no choices
	c = NewOpenAIClassifier(stub, "gpt-4.1-mini", logging.Default())
	_, err = c.Classify(context.Background(), history, "hola")
	require.Error(t, err)
}
