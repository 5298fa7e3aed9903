package coursemodules

import "canvasmcp/server/internal/modules"

var courseIDProp = modules.Property{Type: "string", Description: "Canvas course ID"}

var toolDefinitions = []modules.Tool{
	{
		Name:        "list_modules",
		Description: "List the modules of a course in order.",
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
		Name:        "list_module_items",
		Description: "List the items of a course module.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id": courseIDProp,
				"module_id": {Type: "string", Description: "Canvas module ID"},
			},
			Required: []string{"course_id", "module_id"},
		},
	},
}
