// Package assignments exposes assignment, assignment-group, and rubric tools.
package assignments

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-faster/errors"

	"canvasmcp/server/internal/modules"
	"canvasmcp/server/pkg/canvasapi"
)

// Module implements the modules.Module interface for Canvas assignments.
type Module struct {
	api      *canvasapi.Client
	handlers map[string]func(context.Context, map[string]any) (string, error)
}

// New creates the assignments module.
func New(api *canvasapi.Client) *Module {
	m := &Module{api: api}
	m.handlers = map[string]func(context.Context, map[string]any) (string, error){
		"list_assignments":       m.listAssignments,
		"get_assignment":         m.getAssignment,
		"create_assignment":      m.createAssignment,
		"update_assignment":      m.updateAssignment,
		"list_assignment_groups": m.listAssignmentGroups,
		"list_rubrics":           m.listRubrics,
		"get_rubric":             m.getRubric,
		"get_assignment_rubric":  m.getAssignmentRubric,
	}
	return m
}

func (m *Module) Name() string { return "assignments" }

func (m *Module) Description() string {
	return "Canvas assignments - list, create, and update assignments, assignment groups, and rubrics"
}

func (m *Module) Tools() []modules.Tool { return toolDefinitions }

func (m *Module) ExecuteTool(ctx context.Context, name string, params map[string]any) (string, error) {
	handler, ok := m.handlers[name]
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", name)
	}
	return handler(ctx, params)
}

// =============================================================================
// Handlers
// =============================================================================

func (m *Module) listAssignments(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	q := url.Values{}
	if bucket := modules.StringParam(params, "bucket", ""); bucket != "" {
		q.Set("bucket", bucket)
	}
	records, err := m.api.FetchAll(ctx, "/courses/"+courseID+"/assignments", q)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch assignments")
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatList("Assignments", records, assignmentFields), nil
}

func (m *Module) getAssignment(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)
	assignmentID := params["assignment_id"].(string)

	raw, err := m.api.Get(ctx, "/courses/"+courseID+"/assignments/"+assignmentID, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch assignment")
	}
	rec, err := canvasapi.DecodeObject(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch assignment")
	}
	modules.PublishRecord(ctx, rec)
	return modules.FormatRecord(rec), nil
}

func (m *Module) createAssignment(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	assignment := map[string]any{
		"name": params["name"].(string),
	}
	if v, ok := params["description"].(string); ok && v != "" {
		assignment["description"] = v
	}
	if v, ok := params["due_at"].(string); ok && v != "" {
		assignment["due_at"] = v
	}
	if v, ok := params["points_possible"].(float64); ok {
		assignment["points_possible"] = v
	}
	if v, ok := params["published"].(bool); ok {
		assignment["published"] = v
	}
	if v, ok := params["submission_types"].([]any); ok {
		assignment["submission_types"] = modules.ToStringSlice(v)
	}

	raw, err := m.api.Post(ctx, "/courses/"+courseID+"/assignments", map[string]any{"assignment": assignment}, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create assignment")
	}
	rec, err := canvasapi.DecodeObject(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to create assignment")
	}
	modules.PublishRecord(ctx, rec)
	return fmt.Sprintf("Assignment created.\n\n%s", modules.FieldLines(rec, assignmentFields)), nil
}

func (m *Module) updateAssignment(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)
	assignmentID := params["assignment_id"].(string)

	assignment := map[string]any{}
	for _, key := range []string{"name", "description", "due_at"} {
		if v, ok := params[key].(string); ok && v != "" {
			assignment[key] = v
		}
	}
	if v, ok := params["points_possible"].(float64); ok {
		assignment["points_possible"] = v
	}
	if v, ok := params["published"].(bool); ok {
		assignment["published"] = v
	}
	if len(assignment) == 0 {
		return "", fmt.Errorf("no fields to update")
	}

	raw, err := m.api.Put(ctx, "/courses/"+courseID+"/assignments/"+assignmentID, map[string]any{"assignment": assignment}, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to update assignment")
	}
	rec, err := canvasapi.DecodeObject(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to update assignment")
	}
	modules.PublishRecord(ctx, rec)
	return fmt.Sprintf("Assignment updated.\n\n%s", modules.FieldLines(rec, assignmentFields)), nil
}

func (m *Module) listAssignmentGroups(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	records, err := m.api.FetchAll(ctx, "/courses/"+courseID+"/assignment_groups", nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch assignment groups")
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatList("Assignment groups", records, []string{"id", "name", "position", "group_weight"}), nil
}

func (m *Module) listRubrics(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	records, err := m.api.FetchAll(ctx, "/courses/"+courseID+"/rubrics", nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch rubrics")
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatList("Rubrics", records, []string{"id", "title", "points_possible", "criteria_count"}), nil
}

func (m *Module) getRubric(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)
	rubricID := params["rubric_id"].(string)

	q := url.Values{}
	q.Add("include[]", "assessments")
	raw, err := m.api.Get(ctx, "/courses/"+courseID+"/rubrics/"+rubricID, q)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch rubric")
	}
	rec, err := canvasapi.DecodeObject(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch rubric")
	}
	modules.PublishRecord(ctx, rec)
	return formatRubric(rec), nil
}

// getAssignmentRubric reads the rubric attached to an assignment. An
// assignment without a rubric is a logical precondition failure, reported
// before any dependent call.
func (m *Module) getAssignmentRubric(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)
	assignmentID := params["assignment_id"].(string)

	raw, err := m.api.Get(ctx, "/courses/"+courseID+"/assignments/"+assignmentID, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch assignment")
	}
	rec, err := canvasapi.DecodeObject(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch assignment")
	}

	criteria, ok := rec["rubric"].([]any)
	if !ok || len(criteria) == 0 {
		return "", fmt.Errorf("no rubric attached to assignment %s", assignmentID)
	}

	settings, _ := rec["rubric_settings"].(map[string]any)
	return formatAssignmentRubric(settings, criteria), nil
}
