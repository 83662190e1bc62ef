package agent

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// scriptedProvider returns its responses in order, recording what it was
// sent.
type scriptedProvider struct {
	responses []*Message
	calls     int
	seen      [][]Message
}

func (p *scriptedProvider) CreateCompletion(_ context.Context, _, _ string, messages []Message, _ []ToolDefinition) (*Message, error) {
	p.seen = append(p.seen, append([]Message(nil), messages...))
	if p.calls >= len(p.responses) {
		return nil, fmt.Errorf("no scripted response for call %d", p.calls)
	}
	resp := p.responses[p.calls]
	p.calls++
	return resp, nil
}

// fakeDispatcher resolves every tool call with a fixed output or error.
type fakeDispatcher struct {
	output string
	err    error
	calls  []ToolCall
}

func (d *fakeDispatcher) Definitions() []ToolDefinition {
	return []ToolDefinition{{Name: "lookup", Description: "test tool"}}
}

func (d *fakeDispatcher) Dispatch(_ context.Context, call ToolCall) (string, error) {
	d.calls = append(d.calls, call)
	return d.output, d.err
}

func TestAssistant_PlainAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []*Message{
		{Role: "assistant", Content: "hello"},
	}}
	assistant := NewAssistant(provider, &fakeDispatcher{}, "test-model", "be helpful", 5, newTestLogger())

	out, err := assistant.Chat(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if out != "hello" {
		t.Errorf("Chat() = %q, want hello", out)
	}
}

func TestAssistant_ToolLoopFeedsResultsBack(t *testing.T) {
	provider := &scriptedProvider{responses: []*Message{
		{Role: "assistant", ToolCalls: []ToolCall{{ID: "c1", Name: "lookup", Arguments: `{"x":"1"}`}}},
		{Role: "assistant", Content: "found it"},
	}}
	dispatcher := &fakeDispatcher{output: "result data"}
	assistant := NewAssistant(provider, dispatcher, "test-model", "", 5, newTestLogger())

	out, err := assistant.Chat(context.Background(), "find x")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if out != "found it" {
		t.Errorf("Chat() = %q", out)
	}

	if len(dispatcher.calls) != 1 || dispatcher.calls[0].Name != "lookup" {
		t.Fatalf("expected one lookup call, got %v", dispatcher.calls)
	}

	// The second completion must include the tool result correlated to
	// the call.
	second := provider.seen[1]
	last := second[len(second)-1]
	if last.Role != "tool" || last.Content != "result data" || last.ToolCallID != "c1" {
		t.Errorf("tool result not fed back correctly: %+v", last)
	}
}

func TestAssistant_ToolErrorBecomesErrorResult(t *testing.T) {
	provider := &scriptedProvider{responses: []*Message{
		{Role: "assistant", ToolCalls: []ToolCall{{ID: "c1", Name: "lookup"}}},
		{Role: "assistant", Content: "sorry"},
	}}
	dispatcher := &fakeDispatcher{err: fmt.Errorf("unknown tool \"lookup\"")}
	assistant := NewAssistant(provider, dispatcher, "test-model", "", 5, newTestLogger())

	if _, err := assistant.Chat(context.Background(), "find x"); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	second := provider.seen[1]
	last := second[len(second)-1]
	if !strings.HasPrefix(last.Content, "ERROR: ") {
		t.Errorf("expected ERROR tool result, got %q", last.Content)
	}
}

func TestAssistant_IterationCap(t *testing.T) {
	// The model keeps asking for tools forever.
	looping := &Message{Role: "assistant", ToolCalls: []ToolCall{{ID: "c", Name: "lookup"}}}
	provider := &scriptedProvider{responses: []*Message{looping, looping, looping}}
	assistant := NewAssistant(provider, &fakeDispatcher{output: "x"}, "test-model", "", 3, newTestLogger())

	_, err := assistant.Chat(context.Background(), "go")
	if err == nil {
		t.Fatal("expected iteration cap error")
	}
	if !strings.Contains(err.Error(), "maximum iterations") {
		t.Errorf("unexpected error %v", err)
	}
	if provider.calls != 3 {
		t.Errorf("expected 3 completions, got %d", provider.calls)
	}
}

func TestAssistant_HistoryAccumulatesAndResets(t *testing.T) {
	provider := &scriptedProvider{responses: []*Message{
		{Role: "assistant", Content: "first"},
		{Role: "assistant", Content: "second"},
		{Role: "assistant", Content: "fresh"},
	}}
	assistant := NewAssistant(provider, &fakeDispatcher{}, "test-model", "", 5, newTestLogger())

	ctx := context.Background()
	if _, err := assistant.Chat(ctx, "one"); err != nil {
		t.Fatal(err)
	}
	if _, err := assistant.Chat(ctx, "two"); err != nil {
		t.Fatal(err)
	}
	// Second turn carries the first exchange.
	if got := len(provider.seen[1]); got != 3 {
		t.Errorf("expected 3 messages in second turn, got %d", got)
	}

	assistant.Reset()
	if _, err := assistant.Chat(ctx, "three"); err != nil {
		t.Fatal(err)
	}
	if got := len(provider.seen[2]); got != 1 {
		t.Errorf("expected 1 message after reset, got %d", got)
	}
}
