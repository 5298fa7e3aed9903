// Package usagelog exposes the local tool-usage log as a tool of its own.
// Registered only when USAGE_DB_PATH is configured.
package usagelog

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"canvasmcp/server/internal/db"
	"canvasmcp/server/internal/modules"
)

// defaultLimit bounds the rows returned when the caller supplies none.
const defaultLimit = 20

// Module implements the modules.Module interface for the usage log.
type Module struct {
	store *db.Store
}

// New creates the usage log module.
func New(store *db.Store) *Module {
	return &Module{store: store}
}

func (m *Module) Name() string { return "usagelog" }

func (m *Module) Description() string {
	return "Local usage log - inspect recently recorded tool invocations"
}

func (m *Module) Tools() []modules.Tool {
	return []modules.Tool{
		{
			Name:        "recent_tool_usage",
			Description: "Show the most recent tool invocations recorded in the local usage log, newest first.",
			Annotations: modules.AnnotateReadOnly,
			InputSchema: modules.InputSchema{
				Type: "object",
				Properties: map[string]modules.Property{
					"limit": {
						Type:        "integer",
						Description: "Maximum number of rows to return",
						Default:     float64(defaultLimit),
					},
				},
			},
		},
	}
}

func (m *Module) ExecuteTool(ctx context.Context, name string, params map[string]any) (string, error) {
	if name != "recent_tool_usage" {
		return "", fmt.Errorf("unknown tool: %s", name)
	}

	limit := modules.IntParam(params, "limit", defaultLimit)
	rows, err := m.store.RecentUsage(limit)
	if err != nil {
		return "", errors.Wrap(err, "failed to read usage log")
	}
	if len(rows) == 0 {
		return "No usage recorded.", nil
	}
	return modules.RawJSON(rows)
}
