package courses

import (
	"fmt"
	"strings"

	"canvasmcp/server/internal/modules"
)

var courseFields = []string{"id", "name", "course_code", "workflow_state", "start_at", "end_at", "total_students"}

var sectionFields = []string{"id", "name", "sis_section_id", "start_at", "end_at", "total_students"}

var studentFields = []string{"id", "name", "sortable_name", "email", "login_id"}

// formatEnrollment flattens the nested user record into the enrollment lines.
func formatEnrollment(rec map[string]any) string {
	var lines []string
	lines = append(lines, modules.FieldLines(rec, []string{"id", "type", "enrollment_state", "course_section_id"}))
	if u, ok := rec["user"].(map[string]any); ok {
		if name, ok := u["name"].(string); ok {
			lines = append(lines, fmt.Sprintf("user: %s", name))
		}
		if id, ok := u["id"]; ok {
			lines = append(lines, fmt.Sprintf("user_id: %s", modules.FormatValue(id)))
		}
	}
	if g, ok := rec["grades"].(map[string]any); ok {
		if score := modules.FormatValue(g["current_score"]); score != "" {
			lines = append(lines, fmt.Sprintf("current_score: %s", score))
		}
		if grade := modules.FormatValue(g["current_grade"]); grade != "" {
			lines = append(lines, fmt.Sprintf("current_grade: %s", grade))
		}
	}
	return strings.Join(lines, "\n")
}
