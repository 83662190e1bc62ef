// Package agent runs the conversational loop: it sends chat history and
// tool definitions to an LLM provider and dispatches the tool calls the
// model requests until it produces a plain answer.
package agent

import "context"

// ToolDefinition is a provider-agnostic description of a callable tool.
// Parameters is a JSON-schema object; the assistant's tools declare every
// parameter as a string.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is a single tool invocation requested by the model. Arguments
// is the raw JSON object the model produced.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Message is a provider-agnostic chat message.
type Message struct {
	Role       string // "user", "assistant", "tool"
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string // set when Role == "tool"
}

// ChatProvider abstracts a chat-completion backend with tool support.
type ChatProvider interface {
	// CreateCompletion sends the conversation and returns the assistant's
	// next message. system may be empty to omit the system instruction.
	CreateCompletion(ctx context.Context, model, system string, messages []Message, tools []ToolDefinition) (*Message, error)
}

// ToolDispatcher is the surface the assistant needs from the tool layer.
type ToolDispatcher interface {
	Definitions() []ToolDefinition
	Dispatch(ctx context.Context, call ToolCall) (string, error)
}
