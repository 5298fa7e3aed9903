// Package coursemodules exposes course module and module item tools.
// Named coursemodules to avoid clashing with the registry package.
package coursemodules

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-faster/errors"

	"canvasmcp/server/internal/modules"
	"canvasmcp/server/pkg/canvasapi"
)

// Module implements the modules.Module interface for Canvas course modules.
type Module struct {
	api      *canvasapi.Client
	handlers map[string]func(context.Context, map[string]any) (string, error)
}

// New creates the coursemodules module.
func New(api *canvasapi.Client) *Module {
	m := &Module{api: api}
	m.handlers = map[string]func(context.Context, map[string]any) (string, error){
		"list_modules":      m.listModules,
		"list_module_items": m.listModuleItems,
	}
	return m
}

func (m *Module) Name() string { return "coursemodules" }

func (m *Module) Description() string {
	return "Canvas course modules - list modules and their items"
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

func (m *Module) listModules(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	q := url.Values{}
	q.Add("include[]", "items")
	records, err := m.api.FetchAll(ctx, "/courses/"+courseID+"/modules", q)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch modules")
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatList("Modules", records,
		[]string{"id", "name", "position", "state", "items_count", "unlock_at"}), nil
}

func (m *Module) listModuleItems(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)
	moduleID := params["module_id"].(string)

	q := url.Values{}
	q.Add("include[]", "content_details")
	records, err := m.api.FetchAll(ctx, "/courses/"+courseID+"/modules/"+moduleID+"/items", q)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch module items")
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatList("Module items", records,
		[]string{"id", "title", "type", "position", "content_id", "html_url", "published"}), nil
}
