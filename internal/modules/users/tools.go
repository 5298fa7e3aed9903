package users

import "canvasmcp/server/internal/modules"

var toolDefinitions = []modules.Tool{
	{
		Name:        "get_my_profile",
		Description: "Get the profile of the authenticated user.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type:       "object",
			Properties: map[string]modules.Property{},
		},
	},
	{
		Name:        "list_my_courses",
		Description: "List the courses of the authenticated user across all enrollments.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"enrollment_state": {
					Type:        "string",
					Description: "Filter by enrollment state",
					Enum:        []string{"active", "invited_or_pending", "completed"},
				},
			},
		},
	},
	{
		Name:        "list_upcoming_events",
		Description: "List upcoming calendar events and assignments for the authenticated user.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type:       "object",
			Properties: map[string]modules.Property{},
		},
	},
}
