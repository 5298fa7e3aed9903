// Package courses exposes course, section, and enrollment tools.
package courses

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-faster/errors"

	"canvasmcp/server/internal/anonymizer"
	"canvasmcp/server/internal/modules"
	"canvasmcp/server/pkg/canvasapi"
)

// Module implements the modules.Module interface for Canvas courses.
type Module struct {
	api      *canvasapi.Client
	anon     *anonymizer.Anonymizer
	handlers map[string]func(context.Context, map[string]any) (string, error)
}

// New creates the courses module.
func New(api *canvasapi.Client, anon *anonymizer.Anonymizer) *Module {
	m := &Module{api: api, anon: anon}
	m.handlers = map[string]func(context.Context, map[string]any) (string, error){
		"list_courses":        m.listCourses,
		"get_course":          m.getCourse,
		"get_course_syllabus": m.getCourseSyllabus,
		"list_sections":       m.listSections,
		"list_enrollments":    m.listEnrollments,
		"list_students":       m.listStudents,
	}
	return m
}

func (m *Module) Name() string { return "courses" }

func (m *Module) Description() string {
	return "Canvas courses - list courses, sections, enrollments, and syllabi"
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

func (m *Module) listCourses(ctx context.Context, params map[string]any) (string, error) {
	q := url.Values{}
	if state := modules.StringParam(params, "enrollment_state", ""); state != "" {
		q.Set("enrollment_state", state)
	}
	q.Add("include[]", "total_students")
	q.Add("include[]", "term")

	records, err := m.api.FetchAll(ctx, "/courses", q)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch courses")
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatList("Courses", records, courseFields), nil
}

func (m *Module) getCourse(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	q := url.Values{}
	q.Add("include[]", "term")
	q.Add("include[]", "total_students")
	raw, err := m.api.Get(ctx, "/courses/"+courseID, q)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch course")
	}
	rec, err := canvasapi.DecodeObject(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch course")
	}
	modules.PublishRecord(ctx, rec)
	return modules.FormatRecord(rec), nil
}

func (m *Module) getCourseSyllabus(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	q := url.Values{}
	q.Add("include[]", "syllabus_body")
	raw, err := m.api.Get(ctx, "/courses/"+courseID, q)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch course syllabus")
	}
	rec, err := canvasapi.DecodeObject(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch course syllabus")
	}

	body, _ := rec["syllabus_body"].(string)
	if body == "" {
		return fmt.Sprintf("No syllabus found for course %s.", courseID), nil
	}
	name, _ := rec["name"].(string)
	return fmt.Sprintf("Syllabus for %s\n\n%s", name, body), nil
}

func (m *Module) listSections(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	q := url.Values{}
	q.Add("include[]", "total_students")
	records, err := m.api.FetchAll(ctx, "/courses/"+courseID+"/sections", q)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch sections")
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatList("Sections", records, sectionFields), nil
}

func (m *Module) listEnrollments(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	q := url.Values{}
	if typ := modules.StringParam(params, "enrollment_type", ""); typ != "" {
		q.Add("type[]", typ)
	}
	records, err := m.api.FetchAll(ctx, "/courses/"+courseID+"/enrollments", q)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch enrollments")
	}

	if modules.BoolParam(params, "anonymize", true) {
		records = anonymizeEnrollments(m.anon, records)
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatListWith("Enrollments", records, formatEnrollment), nil
}

func (m *Module) listStudents(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	q := url.Values{}
	q.Add("enrollment_type[]", "student")
	q.Add("include[]", "email")
	records, err := m.api.FetchAll(ctx, "/courses/"+courseID+"/users", q)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch students")
	}

	if modules.BoolParam(params, "anonymize", true) {
		records = m.anon.TransformUsers(records)
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatList("Students", records, studentFields), nil
}

// anonymizeEnrollments transforms the nested user record of each enrollment.
func anonymizeEnrollments(anon *anonymizer.Anonymizer, records []map[string]any) []map[string]any {
	out := make([]map[string]any, len(records))
	for i, rec := range records {
		copied := make(map[string]any, len(rec))
		for k, v := range rec {
			copied[k] = v
		}
		if u, ok := copied["user"].(map[string]any); ok {
			copied["user"] = anon.TransformUser(u)
		}
		out[i] = copied
	}
	return out
}
