// Package quizzes exposes quiz tools.
package quizzes

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"canvasmcp/server/internal/anonymizer"
	"canvasmcp/server/internal/modules"
	"canvasmcp/server/pkg/canvasapi"
)

// Module implements the modules.Module interface for Canvas quizzes.
type Module struct {
	api      *canvasapi.Client
	anon     *anonymizer.Anonymizer
	handlers map[string]func(context.Context, map[string]any) (string, error)
}

// New creates the quizzes module.
func New(api *canvasapi.Client, anon *anonymizer.Anonymizer) *Module {
	m := &Module{api: api, anon: anon}
	m.handlers = map[string]func(context.Context, map[string]any) (string, error){
		"list_quizzes":          m.listQuizzes,
		"get_quiz":              m.getQuiz,
		"list_quiz_submissions": m.listQuizSubmissions,
	}
	return m
}

func (m *Module) Name() string { return "quizzes" }

func (m *Module) Description() string {
	return "Canvas quizzes - list quizzes and quiz submissions"
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

var quizFields = []string{"id", "title", "quiz_type", "due_at", "points_possible", "question_count", "published", "time_limit"}

func (m *Module) listQuizzes(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	records, err := m.api.FetchAll(ctx, "/courses/"+courseID+"/quizzes", nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch quizzes")
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatList("Quizzes", records, quizFields), nil
}

func (m *Module) getQuiz(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)
	quizID := params["quiz_id"].(string)

	raw, err := m.api.Get(ctx, "/courses/"+courseID+"/quizzes/"+quizID, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch quiz")
	}
	rec, err := canvasapi.DecodeObject(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch quiz")
	}

	modules.PublishRecord(ctx, rec)
	out := modules.FieldLines(rec, quizFields)
	if desc, _ := rec["description"].(string); desc != "" {
		out += "\n\n" + desc
	}
	return out, nil
}

// listQuizSubmissions walks the object-wrapped quiz submissions collection.
// Records reference their submitter as a bare user_id rather than a nested
// user object, so anonymization replaces that id with the pseudonym the
// full user record would receive.
func (m *Module) listQuizSubmissions(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)
	quizID := params["quiz_id"].(string)

	records, err := m.api.FetchAllWrapped(ctx, "/courses/"+courseID+"/quizzes/"+quizID+"/submissions", "quiz_submissions", nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch quiz submissions")
	}

	if modules.BoolParam(params, "anonymize", true) {
		records = m.anon.TransformUserRefs(records)
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatList("Quiz submissions", records,
		[]string{"id", "quiz_id", "user_id", "attempt", "score", "kept_score", "workflow_state", "finished_at"}), nil
}
