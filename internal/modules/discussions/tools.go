package discussions

import "canvasmcp/server/internal/modules"

var (
	courseIDProp = modules.Property{Type: "string", Description: "Canvas course ID"}
	topicIDProp  = modules.Property{Type: "string", Description: "Canvas discussion topic ID"}
)

var anonymizeProp = modules.Property{
	Type:        "boolean",
	Description: "Replace student names with stable pseudonyms (default true)",
	Default:     true,
}

var toolDefinitions = []modules.Tool{
	{
		Name:        "list_discussions",
		Description: "List the discussion topics of a course.",
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
		Name:        "get_discussion",
		Description: "Get a discussion topic with its message body.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id": courseIDProp,
				"topic_id":  topicIDProp,
			},
			Required: []string{"course_id", "topic_id"},
		},
	},
	{
		Name:        "list_discussion_entries",
		Description: "List the top-level entries of a discussion topic.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id": courseIDProp,
				"topic_id":  topicIDProp,
				"anonymize": anonymizeProp,
			},
			Required: []string{"course_id", "topic_id"},
		},
	},
	{
		Name:        "post_discussion_entry",
		Description: "Post a new entry to a discussion topic.",
		Annotations: modules.AnnotateCreate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id": courseIDProp,
				"topic_id":  topicIDProp,
				"message":   {Type: "string", Description: "Entry message (HTML allowed)"},
			},
			Required: []string{"course_id", "topic_id", "message"},
		},
	},
	{
		Name:        "list_announcements",
		Description: "List the announcements of a course.",
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
		Name:        "create_announcement",
		Description: "Create an announcement in a course, optionally scheduled.",
		Annotations: modules.AnnotateCreate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"course_id":       courseIDProp,
				"title":           {Type: "string", Description: "Announcement title"},
				"message":         {Type: "string", Description: "Announcement body (HTML allowed)"},
				"delayed_post_at": {Type: "string", Description: "Optional scheduled post time, ISO 8601"},
			},
			Required: []string{"course_id", "title", "message"},
		},
	},
}
