// Package pages exposes wiki page tools, including the two-phase edit
// workflow: prepare_page_edit packages the current content with the caller's
// instructions without mutating anything, and apply_page_edit performs the
// single write-back with agent-produced content.
package pages

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-faster/errors"

	"canvasmcp/server/internal/modules"
	"canvasmcp/server/pkg/canvasapi"
)

// Module implements the modules.Module interface for Canvas wiki pages.
type Module struct {
	api      *canvasapi.Client
	handlers map[string]func(context.Context, map[string]any) (string, error)
}

// New creates the pages module.
func New(api *canvasapi.Client) *Module {
	m := &Module{api: api}
	m.handlers = map[string]func(context.Context, map[string]any) (string, error){
		"list_pages":        m.listPages,
		"get_page_content":  m.getPageContent,
		"get_front_page":    m.getFrontPage,
		"create_page":       m.createPage,
		"delete_page":       m.deletePage,
		"prepare_page_edit": m.preparePageEdit,
		"apply_page_edit":   m.applyPageEdit,
	}
	return m
}

func (m *Module) Name() string { return "pages" }

func (m *Module) Description() string {
	return "Canvas wiki pages - list, read, create, delete, and edit pages"
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

var pageFields = []string{"page_id", "url", "title", "published", "front_page", "updated_at", "editing_roles"}

func (m *Module) listPages(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	q := url.Values{}
	if search := modules.StringParam(params, "search_term", ""); search != "" {
		q.Set("search_term", search)
	}
	records, err := m.api.FetchAll(ctx, "/courses/"+courseID+"/pages", q)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch pages")
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatList("Pages", records, pageFields), nil
}

// fetchPage reads one page record by its URL slug or numeric ID.
func (m *Module) fetchPage(ctx context.Context, courseID, pageURL string) (map[string]any, error) {
	raw, err := m.api.Get(ctx, "/courses/"+courseID+"/pages/"+url.PathEscape(pageURL), nil)
	if err != nil {
		return nil, err
	}
	return canvasapi.DecodeObject(raw)
}

func (m *Module) getPageContent(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)
	pageURL := params["page_url"].(string)

	rec, err := m.fetchPage(ctx, courseID, pageURL)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch page")
	}
	modules.PublishRecord(ctx, rec)
	return formatPageContent(rec), nil
}

func (m *Module) getFrontPage(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	raw, err := m.api.Get(ctx, "/courses/"+courseID+"/front_page", nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch front page")
	}
	rec, err := canvasapi.DecodeObject(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch front page")
	}
	modules.PublishRecord(ctx, rec)
	return formatPageContent(rec), nil
}

func (m *Module) createPage(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	page := map[string]any{
		"title": params["title"].(string),
		"body":  params["body"].(string),
	}
	if v, ok := params["published"].(bool); ok {
		page["published"] = v
	}

	raw, err := m.api.Post(ctx, "/courses/"+courseID+"/pages", map[string]any{"wiki_page": page}, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create page")
	}
	rec, err := canvasapi.DecodeObject(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to create page")
	}
	modules.PublishRecord(ctx, rec)
	return fmt.Sprintf("Page created.\n\n%s", modules.FieldLines(rec, pageFields)), nil
}

func (m *Module) deletePage(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)
	pageURL := params["page_url"].(string)

	if _, err := m.api.Delete(ctx, "/courses/"+courseID+"/pages/"+url.PathEscape(pageURL), nil); err != nil {
		return "", errors.Wrap(err, "failed to delete page")
	}
	return fmt.Sprintf("Page %s deleted.", pageURL), nil
}

// preparePageEdit is phase one of the two-phase edit: fetch the current
// content, package it with the caller's instructions and an optional style
// reference page, and return it for the agent to transform. Nothing is
// written; nothing enforces that phase two follows, and there is no version
// check against concurrent edits.
func (m *Module) preparePageEdit(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)
	pageURL := params["page_url"].(string)
	instructions := params["instructions"].(string)

	rec, err := m.fetchPage(ctx, courseID, pageURL)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch page")
	}

	var styleRec map[string]any
	if styleURL := modules.StringParam(params, "style_page_url", ""); styleURL != "" {
		styleRec, err = m.fetchPage(ctx, courseID, styleURL)
		if err != nil {
			return "", errors.Wrap(err, "failed to fetch style reference page")
		}
	}
	return formatEditPackage(rec, instructions, styleRec), nil
}

// applyPageEdit is phase two: exactly one PUT with the agent-produced
// content. The new body is required; title and editing roles are optional.
func (m *Module) applyPageEdit(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)
	pageURL := params["page_url"].(string)

	page := map[string]any{
		"body": params["body"].(string),
	}
	if title := modules.StringParam(params, "title", ""); title != "" {
		page["title"] = title
	}
	if roles, ok := params["editing_roles"].([]any); ok {
		page["editing_roles"] = joinRoles(modules.ToStringSlice(roles))
	}

	raw, err := m.api.Put(ctx, "/courses/"+courseID+"/pages/"+url.PathEscape(pageURL), map[string]any{"wiki_page": page}, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to update page")
	}
	rec, err := canvasapi.DecodeObject(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to update page")
	}
	modules.PublishRecord(ctx, rec)
	return fmt.Sprintf("Page updated.\n\n%s", modules.FieldLines(rec, pageFields)), nil
}
