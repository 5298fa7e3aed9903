package submissions

import "canvasmcp/server/internal/modules"

var (
	courseIDProp     = modules.Property{Type: "string", Description: "Canvas course ID"}
	assignmentIDProp = modules.Property{Type: "string", Description: "Canvas assignment ID"}
	userIDProp       = modules.Property{Type: "string", Description: "Canvas user ID of the student"}
)

var anonymizeProp = modules.Property{
	Type:        "boolean",
	Description: "Replace student names and emails with stable pseudonyms (default true)",
	Default:     true,
}

var toolDefinitions = []modules.Tool{
	{
		Name:        "list_submissions",
		Description: "List the submissions for an assignment, including comments and submitter.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id":     courseIDProp,
				"assignment_id": assignmentIDProp,
				"anonymize":     anonymizeProp,
			},
			Required: []string{"course_id", "assignment_id"},
		},
	},
	{
		Name:        "get_submission",
		Description: "Get a single student's submission for an assignment.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id":     courseIDProp,
				"assignment_id": assignmentIDProp,
				"user_id":       userIDProp,
				"anonymize":     anonymizeProp,
			},
			Required: []string{"course_id", "assignment_id", "user_id"},
		},
	},
	{
		Name:        "list_all_submissions",
		Description: "List submissions across all assignments of a course.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id": courseIDProp,
				"workflow_state": {
					Type:        "string",
					Description: "Filter by submission state",
					Enum:        []string{"submitted", "unsubmitted", "graded", "pending_review"},
				},
				"anonymize": anonymizeProp,
			},
			Required: []string{"course_id"},
		},
	},
	{
		Name:        "list_gradeable_students",
		Description: "List the students whose submissions can be graded for an assignment.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id":     courseIDProp,
				"assignment_id": assignmentIDProp,
				"anonymize":     anonymizeProp,
			},
			Required: []string{"course_id", "assignment_id"},
		},
	},
	{
		Name:        "grade_submission",
		Description: "Set the grade of a submission, optionally with a text comment.",
		Annotations: modules.AnnotateUpdate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id":     courseIDProp,
				"assignment_id": assignmentIDProp,
				"user_id":       userIDProp,
				"grade": {
					Type:        "string",
					Description: "Grade to post: points, percentage, letter grade, or pass/fail",
				},
				"comment": {Type: "string", Description: "Optional comment to attach"},
			},
			Required: []string{"course_id", "assignment_id", "user_id", "grade"},
		},
	},
	{
		Name:        "summarize_grades",
		Description: "Summarize current grades for every active student in a course.",
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
