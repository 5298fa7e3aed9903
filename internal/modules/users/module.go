// Package users exposes tools about the authenticated user.
package users

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-faster/errors"

	"canvasmcp/server/internal/modules"
	"canvasmcp/server/pkg/canvasapi"
)

// Module implements the modules.Module interface for the current user.
type Module struct {
	api      *canvasapi.Client
	handlers map[string]func(context.Context, map[string]any) (string, error)
}

// New creates the users module.
func New(api *canvasapi.Client) *Module {
	m := &Module{api: api}
	m.handlers = map[string]func(context.Context, map[string]any) (string, error){
		"get_my_profile":       m.getMyProfile,
		"list_my_courses":      m.listMyCourses,
		"list_upcoming_events": m.listUpcomingEvents,
	}
	return m
}

func (m *Module) Name() string { return "users" }

func (m *Module) Description() string {
	return "Canvas users - profile, courses, and upcoming events of the authenticated user"
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

func (m *Module) getMyProfile(ctx context.Context, params map[string]any) (string, error) {
	raw, err := m.api.Get(ctx, "/users/self/profile", nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch profile")
	}
	rec, err := canvasapi.DecodeObject(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch profile")
	}
	modules.PublishRecord(ctx, rec)
	return modules.FieldLines(rec, []string{"id", "name", "short_name", "primary_email", "login_id", "time_zone", "locale"}), nil
}

func (m *Module) listMyCourses(ctx context.Context, params map[string]any) (string, error) {
	q := url.Values{}
	q.Add("include[]", "total_scores")
	if state := modules.StringParam(params, "enrollment_state", ""); state != "" {
		q.Set("enrollment_state", state)
	}
	records, err := m.api.FetchAll(ctx, "/users/self/courses", q)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch courses")
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatList("Courses", records,
		[]string{"id", "name", "course_code", "workflow_state", "start_at", "end_at"}), nil
}

// listUpcomingEvents reads the upcoming-events feed. The endpoint returns a
// plain array, not a paginated collection.
func (m *Module) listUpcomingEvents(ctx context.Context, params map[string]any) (string, error) {
	raw, err := m.api.Get(ctx, "/users/self/upcoming_events", nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch upcoming events")
	}
	records, err := canvasapi.DecodeArray(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch upcoming events")
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatList("Upcoming events", records,
		[]string{"id", "title", "start_at", "end_at", "type", "context_name", "html_url"}), nil
}
