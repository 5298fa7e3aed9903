package pages

import "canvasmcp/server/internal/modules"

var (
	courseIDProp = modules.Property{Type: "string", Description: "Canvas course ID"}
	pageURLProp  = modules.Property{Type: "string", Description: "Page URL slug or numeric page ID"}
)

var toolDefinitions = []modules.Tool{
	{
		Name:        "list_pages",
		Description: "List the wiki pages of a course.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id":   courseIDProp,
				"search_term": {Type: "string", Description: "Filter pages by title"},
			},
			Required: []string{"course_id"},
		},
	},
	{
		Name:        "get_page_content",
		Description: "Get the content of a wiki page.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id": courseIDProp,
				"page_url":  pageURLProp,
			},
			Required: []string{"course_id", "page_url"},
		},
	},
	{
		Name:        "get_front_page",
		Description: "Get the front page of a course.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id": courseIDProp,
			},
			Required: []string{"course_id"},
		},
	},
	{
		Name:        "create_page",
		Description: "Create a new wiki page in a course.",
		Annotations: modules.AnnotateCreate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id": courseIDProp,
				"title":     {Type: "string", Description: "Page title"},
				"body":      {Type: "string", Description: "Page body (HTML allowed)"},
				"published": {Type: "boolean", Description: "Publish immediately"},
			},
			Required: []string{"course_id", "title", "body"},
		},
	},
	{
		Name:        "delete_page",
		Description: "Delete a wiki page from a course.",
		Annotations: modules.AnnotateDelete,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id": courseIDProp,
				"page_url":  pageURLProp,
			},
			Required: []string{"course_id", "page_url"},
		},
	},
	{
		Name:        "prepare_page_edit",
		Description: "Fetch a page's current content packaged with editing instructions. Performs no write; follow up with apply_page_edit.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id":    courseIDProp,
				"page_url":     pageURLProp,
				"instructions": {Type: "string", Description: "What the edit should accomplish"},
				"style_page_url": {
					Type:        "string",
					Description: "Optional page whose content serves as a style reference",
				},
			},
			Required: []string{"course_id", "page_url", "instructions"},
		},
	},
	{
		Name:        "apply_page_edit",
		Description: "Write revised content back to a page. Performs exactly one update.",
		Annotations: modules.AnnotateUpdate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id": courseIDProp,
				"page_url":  pageURLProp,
				"body":      {Type: "string", Description: "New page body (HTML allowed)"},
				"title":     {Type: "string", Description: "Optional new title"},
				"editing_roles": {
					Type:        "array",
					Description: "Optional roles allowed to edit, e.g. teachers, students",
					Items:       &modules.Property{Type: "string"},
				},
			},
			Required: []string{"course_id", "page_url", "body"},
		},
	},
}
