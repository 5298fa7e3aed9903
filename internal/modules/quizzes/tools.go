package quizzes

import "canvasmcp/server/internal/modules"

var (
	courseIDProp = modules.Property{Type: "string", Description: "Canvas course ID"}
	quizIDProp   = modules.Property{Type: "string", Description: "Canvas quiz ID"}
)

var toolDefinitions = []modules.Tool{
	{
		Name:        "list_quizzes",
		Description: "List the quizzes of a course.",
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
		Name:        "get_quiz",
		Description: "Get a quiz with its description.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id": courseIDProp,
				"quiz_id":   quizIDProp,
			},
			Required: []string{"course_id", "quiz_id"},
		},
	},
	{
		Name:        "list_quiz_submissions",
		Description: "List the submissions for a quiz.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id": courseIDProp,
				"quiz_id":   quizIDProp,
				"anonymize": {
					Type:        "boolean",
					Description: "Replace student identities with stable pseudonyms (default true)",
					Default:     true,
				},
			},
			Required: []string{"course_id", "quiz_id"},
		},
	},
}
