package discussions

import (
	"fmt"
	"strings"

	"canvasmcp/server/internal/modules"
)

// formatEntry renders one discussion entry with its author line.
func formatEntry(rec map[string]any) string {
	var lines []string
	lines = append(lines, modules.FieldLines(rec, []string{"id", "created_at"}))

	author := modules.FormatValue(rec["user_name"])
	if author == "" {
		if u, ok := rec["user"].(map[string]any); ok {
			author = modules.FormatValue(u["display_name"])
		}
	}
	if author != "" {
		lines = append(lines, fmt.Sprintf("author: %s", author))
	}
	if msg := modules.FormatValue(rec["message"]); msg != "" {
		lines = append(lines, fmt.Sprintf("message: %s", msg))
	}
	return strings.Join(lines, "\n")
}
