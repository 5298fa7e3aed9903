// Package discussions exposes discussion topic and announcement tools.
package discussions

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-faster/errors"

	"canvasmcp/server/internal/anonymizer"
	"canvasmcp/server/internal/modules"
	"canvasmcp/server/pkg/canvasapi"
)

// Module implements the modules.Module interface for Canvas discussions.
type Module struct {
	api      *canvasapi.Client
	anon     *anonymizer.Anonymizer
	handlers map[string]func(context.Context, map[string]any) (string, error)
}

// New creates the discussions module.
func New(api *canvasapi.Client, anon *anonymizer.Anonymizer) *Module {
	m := &Module{api: api, anon: anon}
	m.handlers = map[string]func(context.Context, map[string]any) (string, error){
		"list_discussions":        m.listDiscussions,
		"get_discussion":          m.getDiscussion,
		"list_discussion_entries": m.listDiscussionEntries,
		"post_discussion_entry":   m.postDiscussionEntry,
		"list_announcements":      m.listAnnouncements,
		"create_announcement":     m.createAnnouncement,
	}
	return m
}

func (m *Module) Name() string { return "discussions" }

func (m *Module) Description() string {
	return "Canvas discussions - list topics and entries, post replies, manage announcements"
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

var topicFields = []string{"id", "title", "posted_at", "discussion_type", "published", "locked", "discussion_subentry_count"}

func (m *Module) listDiscussions(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	records, err := m.api.FetchAll(ctx, "/courses/"+courseID+"/discussion_topics", nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch discussions")
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatList("Discussions", records, topicFields), nil
}

func (m *Module) getDiscussion(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)
	topicID := params["topic_id"].(string)

	raw, err := m.api.Get(ctx, "/courses/"+courseID+"/discussion_topics/"+topicID, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch discussion")
	}
	rec, err := canvasapi.DecodeObject(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch discussion")
	}

	modules.PublishRecord(ctx, rec)
	out := modules.FieldLines(rec, topicFields)
	if msg, _ := rec["message"].(string); msg != "" {
		out += "\n\n" + msg
	}
	return out, nil
}

func (m *Module) listDiscussionEntries(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)
	topicID := params["topic_id"].(string)

	records, err := m.api.FetchAll(ctx, "/courses/"+courseID+"/discussion_topics/"+topicID+"/entries", nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch discussion entries")
	}

	if modules.BoolParam(params, "anonymize", true) {
		records = m.anonymizeEntries(records)
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatListWith("Discussion entries", records, formatEntry), nil
}

// anonymizeEntries pseudonymizes entry authors. Discussion entries carry the
// author inline as user_id/user_name rather than a nested user record, so
// the identity is lifted into a user shape before transforming.
func (m *Module) anonymizeEntries(records []map[string]any) []map[string]any {
	out := make([]map[string]any, len(records))
	for i, rec := range records {
		copied := make(map[string]any, len(rec))
		for k, v := range rec {
			copied[k] = v
		}
		if u, ok := copied["user"].(map[string]any); ok {
			copied["user"] = m.anon.TransformUser(u)
		} else if id, ok := copied["user_id"]; ok && copied["user_name"] != nil {
			shaped := m.anon.TransformUser(map[string]any{"id": id, "name": copied["user_name"]})
			copied["user_name"] = shaped["name"]
		}
		out[i] = copied
	}
	return out
}

func (m *Module) postDiscussionEntry(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)
	topicID := params["topic_id"].(string)
	message := params["message"].(string)

	raw, err := m.api.Post(ctx, "/courses/"+courseID+"/discussion_topics/"+topicID+"/entries",
		map[string]any{"message": message}, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to post discussion entry")
	}
	rec, err := canvasapi.DecodeObject(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to post discussion entry")
	}
	modules.PublishRecord(ctx, rec)
	return fmt.Sprintf("Entry posted.\n\n%s", modules.FieldLines(rec, []string{"id", "created_at"})), nil
}

func (m *Module) listAnnouncements(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	q := url.Values{}
	q.Set("only_announcements", "true")
	records, err := m.api.FetchAll(ctx, "/courses/"+courseID+"/discussion_topics", q)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch announcements")
	}
	modules.PublishRecords(ctx, records)
	return modules.FormatList("Announcements", records, []string{"id", "title", "posted_at", "delayed_post_at", "published"}), nil
}

func (m *Module) createAnnouncement(ctx context.Context, params map[string]any) (string, error) {
	courseID := params["course_id"].(string)

	body := map[string]any{
		"title":           params["title"].(string),
		"message":         params["message"].(string),
		"is_announcement": true,
	}
	if v, ok := params["delayed_post_at"].(string); ok && v != "" {
		body["delayed_post_at"] = v
	}

	raw, err := m.api.Post(ctx, "/courses/"+courseID+"/discussion_topics", body, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create announcement")
	}
	rec, err := canvasapi.DecodeObject(raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to create announcement")
	}
	modules.PublishRecord(ctx, rec)
	return fmt.Sprintf("Announcement created.\n\n%s", modules.FieldLines(rec, []string{"id", "title", "posted_at", "delayed_post_at"})), nil
}
