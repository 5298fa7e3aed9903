package assignments

import "canvasmcp/server/internal/modules"

var (
	courseIDProp     = modules.Property{Type: "string", Description: "Canvas course ID"}
	assignmentIDProp = modules.Property{Type: "string", Description: "Canvas assignment ID"}
)

var toolDefinitions = []modules.Tool{
	{
		Name:        "list_assignments",
		Description: "List the assignments of a course.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id": courseIDProp,
				"bucket": {
					Type:        "string",
					Description: "Filter by due-date bucket",
					Enum:        []string{"past", "overdue", "undated", "ungraded", "unsubmitted", "upcoming", "future"},
				},
			},
			Required: []string{"course_id"},
		},
	},
	{
		Name:        "get_assignment",
		Description: "Get details of a specific assignment.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id":     courseIDProp,
				"assignment_id": assignmentIDProp,
			},
			Required: []string{"course_id", "assignment_id"},
		},
	},
	{
		Name:        "create_assignment",
		Description: "Create a new assignment in a course.",
		Annotations: modules.AnnotateCreate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id":   courseIDProp,
				"name":        {Type: "string", Description: "Assignment name"},
				"description": {Type: "string", Description: "Assignment description (HTML allowed)"},
				"due_at":      {Type: "string", Description: "Due date, ISO 8601"},
				"points_possible": {
					Type:        "number",
					Description: "Maximum points",
				},
				"published": {Type: "boolean", Description: "Publish immediately"},
				"submission_types": {
					Type:        "array",
					Description: "Allowed submission types, e.g. online_text_entry, online_upload",
					Items:       &modules.Property{Type: "string"},
				},
			},
			Required: []string{"course_id", "name"},
		},
	},
	{
		Name:        "update_assignment",
		Description: "Update fields of an existing assignment.",
		Annotations: modules.AnnotateUpdate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id":       courseIDProp,
				"assignment_id":   assignmentIDProp,
				"name":            {Type: "string", Description: "New assignment name"},
				"description":     {Type: "string", Description: "New description"},
				"due_at":          {Type: "string", Description: "New due date, ISO 8601"},
				"points_possible": {Type: "number", Description: "New maximum points"},
				"published":       {Type: "boolean", Description: "Published state"},
			},
			Required: []string{"course_id", "assignment_id"},
		},
	},
	{
		Name:        "list_assignment_groups",
		Description: "List the assignment groups of a course with their weights.",
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
		Name:        "list_rubrics",
		Description: "List the rubrics of a course.",
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
		Name:        "get_rubric",
		Description: "Get a rubric with its criteria and rating scale.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id": courseIDProp,
				"rubric_id": {Type: "string", Description: "Canvas rubric ID"},
			},
			Required: []string{"course_id", "rubric_id"},
		},
	},
	{
		Name:        "get_assignment_rubric",
		Description: "Get the rubric attached to an assignment. Fails when the assignment has no rubric.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id":     courseIDProp,
				"assignment_id": assignmentIDProp,
			},
			Required: []string{"course_id", "assignment_id"},
		},
	},
}
