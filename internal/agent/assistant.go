package agent

import (
	"context"
	"fmt"
	"log/slog"
)

// Assistant holds a conversation with the model and auto-invokes the
// registered tools. It is not safe for concurrent use; the REPL drives it
// one turn at a time.
type Assistant struct {
	provider      ChatProvider
	dispatcher    ToolDispatcher
	model         string
	system        string
	maxIterations int
	logger        *slog.Logger
	history       []Message
}

// NewAssistant creates an assistant. maxIterations bounds the number of
// completion rounds per turn; values below 1 fall back to 1.
func NewAssistant(provider ChatProvider, dispatcher ToolDispatcher, model, system string, maxIterations int, logger *slog.Logger) *Assistant {
	if maxIterations < 1 {
		maxIterations = 1
	}
	return &Assistant{
		provider:      provider,
		dispatcher:    dispatcher,
		model:         model,
		system:        system,
		maxIterations: maxIterations,
		logger:        logger,
	}
}

// Chat processes one user turn: it appends the input to the history, lets
// the model call tools until it answers in plain text, and returns that
// answer. Tool handler failures are fed back to the model as ERROR tool
// results rather than aborting the turn.
func (a *Assistant) Chat(ctx context.Context, userInput string) (string, error) {
	a.history = append(a.history, Message{Role: "user", Content: userInput})

	tools := a.dispatcher.Definitions()

	for i := 0; i < a.maxIterations; i++ {
		resp, err := a.provider.CreateCompletion(ctx, a.model, a.system, a.history, tools)
		if err != nil {
			return "", fmt.Errorf("chat completion failed: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			a.history = append(a.history, *resp)
			return resp.Content, nil
		}

		a.history = append(a.history, *resp)

		for _, call := range resp.ToolCalls {
			a.logger.Debug("dispatching tool call", "tool", call.Name)
			out, err := a.dispatcher.Dispatch(ctx, call)
			if err != nil {
				a.logger.Warn("tool call failed", "tool", call.Name, "error", err)
				out = "ERROR: " + err.Error()
			}
			a.history = append(a.history, Message{
				Role:       "tool",
				Content:    out,
				ToolCallID: call.ID,
			})
		}
	}

	return "", fmt.Errorf("tool loop exceeded maximum iterations (%d)", a.maxIterations)
}

// Reset discards the conversation history. The system instruction is kept.
func (a *Assistant) Reset() {
	a.history = nil
}
