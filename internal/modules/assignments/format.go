package assignments

import (
	"fmt"
	"strings"

	"canvasmcp/server/internal/modules"
)

var assignmentFields = []string{"id", "name", "due_at", "points_possible", "submission_types", "published", "html_url"}

// formatRubric renders a rubric with its criteria and rating scale.
func formatRubric(rec map[string]any) string {
	var b strings.Builder
	b.WriteString(modules.FieldLines(rec, []string{"id", "title", "points_possible"}))

	criteria, ok := rec["data"].([]any)
	if !ok {
		return b.String()
	}
	b.WriteString("\n\nCriteria:\n")
	writeCriteria(&b, criteria)
	return strings.TrimRight(b.String(), "\n")
}

// formatAssignmentRubric renders a rubric embedded in an assignment record.
func formatAssignmentRubric(settings map[string]any, criteria []any) string {
	var b strings.Builder
	if settings != nil {
		b.WriteString(modules.FieldLines(settings, []string{"id", "title", "points_possible"}))
		b.WriteString("\n\n")
	}
	b.WriteString("Criteria:\n")
	writeCriteria(&b, criteria)
	return strings.TrimRight(b.String(), "\n")
}

func writeCriteria(b *strings.Builder, criteria []any) {
	for _, c := range criteria {
		cm, ok := c.(map[string]any)
		if !ok {
			continue
		}
		desc := modules.FormatValue(cm["description"])
		points := modules.FormatValue(cm["points"])
		fmt.Fprintf(b, "- %s (%s points)\n", desc, points)
		if long := modules.FormatValue(cm["long_description"]); long != "" {
			fmt.Fprintf(b, "  %s\n", long)
		}
		ratings, ok := cm["ratings"].([]any)
		if !ok {
			continue
		}
		for _, r := range ratings {
			rm, ok := r.(map[string]any)
			if !ok {
				continue
			}
			fmt.Fprintf(b, "  %s: %s\n", modules.FormatValue(rm["points"]), modules.FormatValue(rm["description"]))
		}
	}
}
