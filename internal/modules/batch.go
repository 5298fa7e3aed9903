package modules

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// =============================================================================
// Batch Execution (DAG-based parallel execution)
// =============================================================================

// maxBatchCommands bounds a single batch call.
const maxBatchCommands = 10

// BatchCommand represents a single command in batch execution
type BatchCommand struct {
	ID     string         `json:"id"`               // Task identifier (required)
	Tool   string         `json:"tool"`             // Tool name (required)
	Params map[string]any `json:"params,omitempty"` // Tool parameters
	After  []string       `json:"after,omitempty"`  // Dependency task IDs
	Output bool           `json:"output,omitempty"` // Include result in response
}

// BatchResponse represents the batch execution response
type BatchResponse struct {
	Results map[string]string `json:"results,omitempty"` // ID -> result (for output:true tasks)
	Errors  map[string]string `json:"errors,omitempty"`  // ID -> error message
}

// taskState holds execution state for a task. records carries the structured
// records the task's handler published, for downstream references.
type taskState struct {
	cmd     BatchCommand
	result  string
	records []map[string]any
	err     error
	done    chan struct{}
	skipped bool
}

// BatchTool returns the batch meta-tool definition.
func BatchTool() Tool {
	desc := `Execute multiple tools in batch (JSONL format, with dependency and parallel execution support).

[Fields]
- id (required): Task identifier
- tool (required): Tool name
- params: Parameters
- after: Dependency task ID array (waits for these to complete before executing)
- output: If true, includes result in response

[Variable References] ${id.results[index].field} pulls a field from the
records returned by a task listed in after. Fields must be scalar values;
a reference that cannot be resolved fails the referencing task.

[Example: Chained Processing]
{"id":"courses","tool":"list_courses","params":{}}
{"id":"a1","tool":"list_assignments","params":{"course_id":"${courses.results[0].id}"},"after":["courses"],"output":true}

[Limits]
- Maximum 10 commands per batch

[Execution Rules]
- No after -> parallel execution via goroutines
- With after -> executes after dependent tasks complete
- Circular dependency -> error
- Dependent task failure -> dependents are skipped`

	return Tool{
		Name:        "batch",
		Description: desc,
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"commands": {
					Type:        "string",
					Description: "Commands in JSONL format",
				},
			},
			Required: []string{"commands"},
		},
		Annotations: AnnotateCreate,
	}
}

// Batch executes multiple tools from JSONL input with DAG-based parallel execution.
func Batch(ctx context.Context, commands string) *ToolCallResult {
	// Parse commands
	lines := strings.Split(strings.TrimSpace(commands), "\n")
	tasks := make(map[string]*taskState)
	order := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var cmd BatchCommand
		if err := json.Unmarshal([]byte(line), &cmd); err != nil {
			return errResult(fmt.Sprintf("JSON parse error: %v", err))
		}
		if cmd.ID == "" {
			return errResult("id field is required for all commands")
		}
		if cmd.Tool == "" {
			return errResult(fmt.Sprintf("tool field is required for task %s", cmd.ID))
		}
		if _, exists := tasks[cmd.ID]; exists {
			return errResult(fmt.Sprintf("duplicate id: %s", cmd.ID))
		}

		tasks[cmd.ID] = &taskState{
			cmd:  cmd,
			done: make(chan struct{}),
		}
		order = append(order, cmd.ID)
	}

	if len(order) == 0 {
		return errResult("no commands provided")
	}
	if len(order) > maxBatchCommands {
		return errResult(fmt.Sprintf("too many commands: %d (maximum %d)", len(order), maxBatchCommands))
	}

	// Validate dependencies exist
	for _, state := range tasks {
		for _, dep := range state.cmd.After {
			if _, exists := tasks[dep]; !exists {
				return errResult(fmt.Sprintf("unknown dependency %s for task %s", dep, state.cmd.ID))
			}
		}
	}

	// Detect circular dependencies
	if cycle := detectCycle(tasks); cycle != "" {
		return errResult(fmt.Sprintf("circular dependency detected: %s", cycle))
	}

	// Execute tasks with goroutines
	var wg sync.WaitGroup
	for _, id := range order {
		wg.Add(1)
		go func(taskID string) {
			defer wg.Done()
			executeTask(ctx, taskID, tasks)
		}(id)
	}

	wg.Wait()

	// Build response
	response := BatchResponse{
		Results: make(map[string]string),
		Errors:  make(map[string]string),
	}
	for _, id := range order {
		state := tasks[id]
		switch {
		case state.err != nil:
			response.Errors[id] = state.err.Error()
		case state.skipped:
			response.Errors[id] = "skipped due to dependency failure"
		case state.cmd.Output:
			response.Results[id] = state.result
		}
	}
	if len(response.Errors) == 0 {
		response.Errors = nil
	}
	if len(response.Results) == 0 {
		response.Results = nil
	}

	text, err := ToJSON(response)
	if err != nil {
		return errResult(err.Error())
	}
	return textResult(text)
}

// detectCycle detects circular dependencies using DFS
func detectCycle(tasks map[string]*taskState) string {
	visited := make(map[string]int) // 0: unvisited, 1: visiting, 2: visited
	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		if visited[id] == 2 {
			return false
		}
		if visited[id] == 1 {
			// Found cycle
			cyclePath = append(cyclePath, id)
			return true
		}

		visited[id] = 1
		cyclePath = append(cyclePath, id)

		for _, dep := range tasks[id].cmd.After {
			if dfs(dep) {
				return true
			}
		}

		cyclePath = cyclePath[:len(cyclePath)-1]
		visited[id] = 2
		return false
	}

	for id := range tasks {
		cyclePath = nil
		if dfs(id) {
			return strings.Join(cyclePath, " -> ")
		}
	}
	return ""
}

// executeTask executes a single task after waiting for dependencies
func executeTask(ctx context.Context, taskID string, tasks map[string]*taskState) {
	state := tasks[taskID]
	defer close(state.done)

	// Wait for dependencies. References are restricted to tasks listed in
	// after, so every referenceable task is complete before resolution.
	deps := make(map[string]*taskState, len(state.cmd.After))
	for _, depID := range state.cmd.After {
		depState := tasks[depID]
		<-depState.done

		if depState.err != nil || depState.skipped {
			state.skipped = true
			return
		}
		deps[depID] = depState
	}

	resolvedParams, err := resolveVariables(state.cmd.Params, deps)
	if err != nil {
		state.err = err
		return
	}

	runCtx, sink := withRecordSink(ctx)
	result := Run(runCtx, state.cmd.Tool, resolvedParams)
	if result.IsError {
		state.err = fmt.Errorf("%s", result.Content[0].Text)
		return
	}

	state.result = result.Content[0].Text
	state.records = sink.take()
}

// resolveVariables replaces ${id.results[N].field} references with values
// from the records published by dependency tasks.
func resolveVariables(params map[string]any, deps map[string]*taskState) (map[string]any, error) {
	if params == nil {
		return nil, nil
	}

	resolved := make(map[string]any)
	for key, value := range params {
		v, err := resolveValue(value, deps)
		if err != nil {
			return nil, err
		}
		resolved[key] = v
	}
	return resolved, nil
}

// resolveValue recursively resolves variable references in a value
func resolveValue(value any, deps map[string]*taskState) (any, error) {
	switch v := value.(type) {
	case string:
		return resolveStringVariables(v, deps)
	case map[string]any:
		resolved := make(map[string]any)
		for k, val := range v {
			r, err := resolveValue(val, deps)
			if err != nil {
				return nil, err
			}
			resolved[k] = r
		}
		return resolved, nil
	case []any:
		resolved := make([]any, len(v))
		for i, val := range v {
			r, err := resolveValue(val, deps)
			if err != nil {
				return nil, err
			}
			resolved[i] = r
		}
		return resolved, nil
	default:
		return value, nil
	}
}

// Variable reference pattern: ${taskId.results[index].field}
var varRefPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\.results\[(\d+)\]\.([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// resolveStringVariables resolves variable references in a string against
// the records of dependency tasks. A reference that cannot be resolved is
// an error, never a literal passed upstream.
func resolveStringVariables(s string, deps map[string]*taskState) (string, error) {
	var resolveErr error
	out := varRefPattern.ReplaceAllStringFunc(s, func(match string) string {
		if resolveErr != nil {
			return match
		}
		parts := varRefPattern.FindStringSubmatch(match)
		taskID := parts[1]
		index := 0
		fmt.Sscanf(parts[2], "%d", &index)
		field := parts[3]

		dep, ok := deps[taskID]
		if !ok {
			resolveErr = fmt.Errorf("unresolved reference %s: task %q is not listed in after", match, taskID)
			return match
		}
		if dep.records == nil {
			resolveErr = fmt.Errorf("unresolved reference %s: task %q returned no referenceable records", match, taskID)
			return match
		}
		if index >= len(dep.records) {
			resolveErr = fmt.Errorf("unresolved reference %s: task %q returned %d record(s)", match, taskID, len(dep.records))
			return match
		}
		val, ok := dep.records[index][field]
		if !ok || val == nil {
			resolveErr = fmt.Errorf("unresolved reference %s: record has no %q field", match, field)
			return match
		}
		switch v := val.(type) {
		case string:
			return v
		case float64, bool:
			return FormatValue(v)
		default:
			resolveErr = fmt.Errorf("unresolved reference %s: field %q is not a scalar value", match, field)
			return match
		}
	})
	if resolveErr != nil {
		return "", resolveErr
	}
	return out, nil
}
