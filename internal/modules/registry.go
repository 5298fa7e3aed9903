package modules

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"canvasmcp/server/internal/metrics"
	"canvasmcp/server/internal/observability"
)

// =============================================================================
// Registry
// =============================================================================

// registry holds all registered modules; toolIndex maps flat tool names to
// their owning module. Tool names are global across modules, so every
// procedure is callable directly by name.
var (
	registry  = make(map[string]Module)
	toolIndex = make(map[string]toolEntry)
)

type toolEntry struct {
	module Module
	tool   Tool
}

// RegisterModule adds a module and indexes its tools.
// Duplicate tool names are a wiring bug and panic at startup.
func RegisterModule(m Module) {
	registry[m.Name()] = m
	for _, t := range m.Tools() {
		if existing, dup := toolIndex[t.Name]; dup {
			panic(fmt.Sprintf("duplicate tool %q registered by %s and %s",
				t.Name, existing.module.Name(), m.Name()))
		}
		toolIndex[t.Name] = toolEntry{module: m, tool: t}
	}
}

// ListModules returns all registered module names, sorted.
func ListModules() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllTools returns every registered tool sorted by name.
func AllTools() []Tool {
	tools := make([]Tool, 0, len(toolIndex))
	for _, e := range toolIndex {
		tools = append(tools, e.tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// FindTool looks up a tool definition by name.
func FindTool(name string) (Tool, bool) {
	e, ok := toolIndex[name]
	return e.tool, ok
}

// =============================================================================
// Tool Execution
// =============================================================================

// toolTimeout is the maximum duration for a single tool execution.
const toolTimeout = 30 * time.Second

// errResult wraps a failure message in the protocol's result envelope.
// Every failure reaching the caller starts with the "Error:" prefix.
func errResult(msg string) *ToolCallResult {
	if !strings.HasPrefix(msg, "Error:") {
		msg = "Error: " + msg
	}
	return &ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: msg}},
		IsError: true,
	}
}

// textResult wraps successful output in the result envelope.
func textResult(text string) *ToolCallResult {
	return &ToolCallResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}

// Run validates params against the tool's declared schema and executes it.
// Validation failures never reach the handler; handler failures are caught
// here exactly once and re-signaled as a single descriptive error result.
func Run(ctx context.Context, toolName string, params map[string]any) *ToolCallResult {
	start := time.Now()

	entry, ok := toolIndex[toolName]
	if !ok {
		return errResult(fmt.Sprintf("unknown tool: %s. Available tools: %v", toolName, toolNames()))
	}

	validated, err := ValidateParams(entry.tool.InputSchema, params)
	if err != nil {
		metrics.ToolExecutions.WithLabelValues(toolName, "invalid_params").Inc()
		return errResult(err.Error())
	}

	// Bound wall-clock time so a hung upstream cannot wedge the agent.
	ctx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	text, err := entry.module.ExecuteTool(ctx, toolName, validated)
	durationMs := time.Since(start).Milliseconds()
	requestID := RequestIDFromContext(ctx)

	if err != nil {
		msg := err.Error()
		if ctx.Err() == context.DeadlineExceeded {
			msg = fmt.Sprintf("request timed out after %s: the Canvas API did not respond in time", toolTimeout)
		}
		observability.LogToolCall(requestID, toolName, durationMs, "error", msg)
		metrics.ToolExecutions.WithLabelValues(toolName, "error").Inc()
		metrics.ToolDuration.WithLabelValues(toolName).Observe(time.Since(start).Seconds())
		return errResult(msg)
	}

	observability.LogToolCall(requestID, toolName, durationMs, "success", "")
	metrics.ToolExecutions.WithLabelValues(toolName, "success").Inc()
	metrics.ToolDuration.WithLabelValues(toolName).Observe(time.Since(start).Seconds())
	return textResult(text)
}

func toolNames() []string {
	names := make([]string, 0, len(toolIndex))
	for name := range toolIndex {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// Request ID plumbing
// =============================================================================

type contextKey string

const requestIDKey contextKey = "requestID"

// WithRequestID attaches a request tracing ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request tracing ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
