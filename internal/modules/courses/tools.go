package courses

import "canvasmcp/server/internal/modules"

var courseIDProp = modules.Property{Type: "string", Description: "Canvas course ID"}

var anonymizeProp = modules.Property{
	Type:        "boolean",
	Description: "Replace student names and emails with stable pseudonyms (default true)",
	Default:     true,
}

var toolDefinitions = []modules.Tool{
	{
		Name:        "list_courses",
		Description: "List the courses visible to the authenticated user.",
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
		Name:        "get_course",
		Description: "Get details of a specific course.",
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
		Name:        "get_course_syllabus",
		Description: "Get the syllabus body of a course.",
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
		Name:        "list_sections",
		Description: "List the sections of a course.",
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
		Name:        "list_enrollments",
		Description: "List enrollments of a course, optionally filtered by enrollment type.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id": courseIDProp,
				"enrollment_type": {
					Type:        "string",
					Description: "Filter by enrollment type",
					Enum:        []string{"StudentEnrollment", "TeacherEnrollment", "TaEnrollment", "ObserverEnrollment", "DesignerEnrollment"},
				},
				"anonymize": anonymizeProp,
			},
			Required: []string{"course_id"},
		},
	},
	{
		Name:        "list_students",
		Description: "List the students enrolled in a course.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id": courseIDProp,
				"anonymize": anonymizeProp,
			},
			Required: []string{"course_id"},
		},
	},
}
