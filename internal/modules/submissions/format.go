package submissions

import (
	"fmt"
	"strings"

	"canvasmcp/server/internal/modules"
)

var submissionFields = []string{"id", "assignment_id", "user_id", "submitted_at", "workflow_state", "score", "grade", "late", "missing"}

// formatSubmission renders one submission with its user and comments.
func formatSubmission(rec map[string]any) string {
	var lines []string
	lines = append(lines, modules.FieldLines(rec, submissionFields))

	if u, ok := rec["user"].(map[string]any); ok {
		if name := modules.FormatValue(u["name"]); name != "" {
			lines = append(lines, fmt.Sprintf("user: %s", name))
		}
	}
	if body := modules.FormatValue(rec["body"]); body != "" {
		lines = append(lines, fmt.Sprintf("body: %s", body))
	}

	comments, ok := rec["submission_comments"].([]any)
	if ok && len(comments) > 0 {
		lines = append(lines, "comments:")
		for _, c := range comments {
			cm, ok := c.(map[string]any)
			if !ok {
				continue
			}
			author := modules.FormatValue(cm["author_name"])
			text := modules.FormatValue(cm["comment"])
			lines = append(lines, fmt.Sprintf("  %s: %s", author, text))
		}
	}
	return strings.Join(lines, "\n")
}

// formatGradeSummary renders one line per student enrollment with the
// current score and grade, followed by a class average.
func formatGradeSummary(records []map[string]any) string {
	if len(records) == 0 {
		return "No grades found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Grade summary (Total: %d)\n\n", len(records))

	var sum float64
	scored := 0
	for _, rec := range records {
		name := "unknown"
		if u, ok := rec["user"].(map[string]any); ok {
			if n := modules.FormatValue(u["name"]); n != "" {
				name = n
			}
		}
		score, grade := "-", "-"
		if g, ok := rec["grades"].(map[string]any); ok {
			if s, ok := g["current_score"].(float64); ok {
				score = modules.FormatValue(s)
				sum += s
				scored++
			}
			if v := modules.FormatValue(g["current_grade"]); v != "" {
				grade = v
			}
		}
		fmt.Fprintf(&b, "%s: score %s, grade %s\n", name, score, grade)
	}

	if scored > 0 {
		fmt.Fprintf(&b, "\nClass average: %.1f (%d of %d scored)", sum/float64(scored), scored, len(records))
	}
	return strings.TrimRight(b.String(), "\n")
}
