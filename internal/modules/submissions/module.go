// Package submissions exposes submission and grading tools. Every read tool
// carries an anonymize toggle (default on) so learner identities never leave
// the process unless explicitly requested.
package submissions

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-faster/errors"

	"canvasmcp/server/internal/anonymizer"
	"canvasmcp/server/internal/modules"
	"canvasmcp/server/pkg/canvasapi"
)

// Module implements the modules.Module interface for Canvas submissions.
type Module struct {
	api      *canvasapi.Client
	anon     *anonymizer.Anonymizer
	handlers map[string]func(context.Context, map[string]any) (string, error)
}

// New creates the submissions module.
func New(api *canvasapi.Client, anon *anonymizer.Anonymizer) *Module {
	m := &Module{api: api, anon: anon}
	m.handlers = map[string]func(context.Context, map[string]any) (string, error){
		"list_submissions":        m.listSubmissions,
		"get_submission":          m.getSubmission,
		"list_all_submissions":    m.listAllSubmissions,
		"list_gradeable_students": m.listGradeableStudents,
		"grade_submission":        m.gradeSubmission,
		"summarize_grades":        m.summarizeGrades,
	}
	return m
}

func (m *Module) Name() string { return "submissions" }

func (m *Module) Description() string {
	return "Canvas submissions - list and grade submissions, summarize course grades"
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

func (m *Module) listSubmissions(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)
	assignmentID := params["assignment_id"].(string)

	q := url.Values{}
	q.Add("include[]", "submission_comments")
	q.Add("include[]", "user")
	records, err := m.api.FetchAll(ctx, "/courses/"+courseID+"/assignments/"+assignmentID+"/submissions", q)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch submissions")
	}

	if modules.BoolParam(params, "anonymize", true) {
		records = m.anon.TransformSubmissions(records)
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatListWith("Submissions", records, formatSubmission), nil
}

func (m *Module) getSubmission(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)
	assignmentID := params["assignment_id"].(string)
	userID := params["user_id"].(string)

	q := url.Values{}
	q.Add("include[]", "submission_comments")
	q.Add("include[]", "user")
	raw, err := m.api.Get(ctx, "/courses/"+courseID+"/assignments/"+assignmentID+"/submissions/"+userID, q)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch submission")
	}
	rec, err := canvasapi.DecodeObject(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch submission")
	}

	if modules.BoolParam(params, "anonymize", true) {
		rec = m.anon.TransformSubmission(rec)
	}
	modules.PublishRecord(ctx, rec)
	return formatSubmission(rec), nil
}

// listAllSubmissions fetches submissions across every assignment of a course.
func (m *Module) listAllSubmissions(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	q := url.Values{}
	q.Add("student_ids[]", "all")
	q.Add("include[]", "user")
	if state := modules.StringParam(params, "workflow_state", ""); state != "" {
		q.Set("workflow_state", state)
	}
	records, err := m.api.FetchAll(ctx, "/courses/"+courseID+"/students/submissions", q)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch submissions")
	}

	if modules.BoolParam(params, "anonymize", true) {
		records = m.anon.TransformSubmissions(records)
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatListWith("Submissions", records, formatSubmission), nil
}

func (m *Module) listGradeableStudents(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)
	assignmentID := params["assignment_id"].(string)

	records, err := m.api.FetchAll(ctx, "/courses/"+courseID+"/assignments/"+assignmentID+"/gradeable_students", nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch gradeable students")
	}

	if modules.BoolParam(params, "anonymize", true) {
		records = m.anon.TransformUsers(records)
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatList("Gradeable students", records, []string{"id", "display_name", "html_url"}), nil
}

// gradeSubmission performs exactly one upstream write: the grade PUT, with an
// optional text comment carried in the same request.
func (m *Module) gradeSubmission(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)
	assignmentID := params["assignment_id"].(string)
	userID := params["user_id"].(string)
	grade := params["grade"].(string)

	body := map[string]any{
		"submission": map[string]any{"posted_grade": grade},
	}
	if comment := modules.StringParam(params, "comment", ""); comment != "" {
		body["comment"] = map[string]any{"text_comment": comment}
	}

	raw, err := m.api.Put(ctx, "/courses/"+courseID+"/assignments/"+assignmentID+"/submissions/"+userID, body, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to grade submission")
	}
	rec, err := canvasapi.DecodeObject(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to grade submission")
	}
	modules.PublishRecord(ctx, rec)
	return fmt.Sprintf("Submission graded.\n\nscore: %s\ngrade: %s\nworkflow_state: %s",
		modules.FormatValue(rec["score"]),
		modules.FormatValue(rec["grade"]),
		modules.FormatValue(rec["workflow_state"])), nil
}

// summarizeGrades aggregates student enrollments with their current grades
// into a per-student summary.
func (m *Module) summarizeGrades(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	q := url.Values{}
	q.Add("type[]", "StudentEnrollment")
	q.Add("state[]", "active")
	records, err := m.api.FetchAll(ctx, "/courses/"+courseID+"/enrollments", q)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch enrollments")
	}

	anonymize := modules.BoolParam(params, "anonymize", true)
	if anonymize {
		out := make([]map[string]any, len(records))
		for i, rec := range records {
			copied := make(map[string]any, len(rec))
			for k, v := range rec {
				copied[k] = v
			}
			if u, ok := copied["user"].(map[string]any); ok {
				copied["user"] = m.anon.TransformUser(u)
			}
			out[i] = copied
		}
		records = out
	}
	modules.PublishRecords(ctx, records)
	return formatGradeSummary(records), nil
}
