// Package tools exposes the façade operations as named, described,
// string-parameterized functions for the LLM's function-calling
// mechanism, and renders results into the text blocks the conversation
// channel consumes.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/drewelewis/ai-prod-support-assistant/internal/agent"
)

var invocationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "assistant_tool_invocations_total",
		Help: "Total number of tool invocations dispatched to handlers",
	},
	[]string{"tool", "status"},
)

// Args holds a tool call's parameters, all string-typed. An empty string
// means the parameter is absent.
type Args map[string]string

// String returns the value of key, or "" when absent.
func (a Args) String(key string) string {
	return a[key]
}

// Int parses the value of key as an integer, returning def when absent.
func (a Args) Int(key string, def int) (int, error) {
	v := a[key]
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, v)
	}
	return n, nil
}

// Handler executes a tool call. The returned string is shown to the
// model verbatim; backend failures are rendered into it, never raised.
// A non-nil error marks the invocation failed for logging and metrics
// without changing what the model sees.
type Handler func(ctx context.Context, args Args) (string, error)

// Tool pairs a stable name/description with a JSON-schema parameter
// object (string-typed properties) and a handler.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Handler     Handler
}

// Registry holds the registered tools and implements agent.ToolDispatcher.
type Registry struct {
	logger *slog.Logger
	order  []string
	byName map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger: logger,
		byName: make(map[string]Tool),
	}
}

// Register adds tools to the registry. Later registrations with the same
// name replace earlier ones.
func (r *Registry) Register(tools ...Tool) {
	for _, t := range tools {
		if _, exists := r.byName[t.Name]; !exists {
			r.order = append(r.order, t.Name)
		}
		r.byName[t.Name] = t
	}
}

// Definitions returns the tool definitions in registration order.
func (r *Registry) Definitions() []agent.ToolDefinition {
	defs := make([]agent.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.byName[name]
		defs = append(defs, agent.ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	return defs
}

// Dispatch parses a tool call's arguments and runs its handler. Argument
// parse failures come back as human-readable strings so the model can
// correct itself; only an unknown tool name is an error.
func (r *Registry) Dispatch(ctx context.Context, call agent.ToolCall) (string, error) {
	tool, ok := r.byName[call.Name]
	if !ok {
		invocationsTotal.WithLabelValues(call.Name, "error").Inc()
		return "", fmt.Errorf("unknown tool %q", call.Name)
	}

	args, err := parseArgs(call.Arguments)
	if err != nil {
		r.logger.Warn("failed to parse tool arguments", "tool", call.Name, "error", err)
		invocationsTotal.WithLabelValues(call.Name, "error").Inc()
		return fmt.Sprintf("Error: could not parse arguments for %s: %v", call.Name, err), nil
	}

	r.logger.Info("invoking tool", "tool", call.Name)
	out, herr := tool.Handler(ctx, args)
	status := "ok"
	if herr != nil {
		status = "error"
		r.logger.Warn("tool invocation failed", "tool", call.Name, "error", herr)
	}
	invocationsTotal.WithLabelValues(call.Name, status).Inc()
	return out, nil
}

// parseArgs decodes the model-supplied JSON argument object into string
// values. Models occasionally send numbers or booleans despite the
// string-typed schema; those are stringified rather than rejected.
func parseArgs(raw string) (Args, error) {
	if raw == "" {
		return Args{}, nil
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, err
	}
	args := make(Args, len(decoded))
	for k, v := range decoded {
		switch t := v.(type) {
		case nil:
			args[k] = ""
		case string:
			args[k] = t
		case float64:
			args[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			args[k] = strconv.FormatBool(t)
		default:
			b, err := json.Marshal(t)
			if err != nil {
				return nil, fmt.Errorf("unsupported value for %s", k)
			}
			args[k] = string(b)
		}
	}
	return args, nil
}

// stringParams builds a JSON-schema object for string-typed parameters.
func stringParams(props map[string]string, required ...string) map[string]any {
	properties := make(map[string]any, len(props))
	for name, desc := range props {
		properties[name] = map[string]any{
			"type":        "string",
			"description": desc,
		}
	}
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
