package discussions

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"canvasmcp/server/internal/anonymizer"
	"canvasmcp/server/pkg/canvasapi"
)

func TestListDiscussionEntries_InlineAuthorsAnonymized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": float64(1), "user_id": float64(55), "user_name": "Alice Aalto", "message": "first post"},
			{"id": float64(2), "user_id": float64(55), "user_name": "Alice Aalto", "message": "follow-up"},
			{"id": float64(3), "user_id": float64(90), "user_name": "Bob Berg", "message": "reply"},
		})
	}))
	defer srv.Close()
	m := New(canvasapi.New(srv.URL, "token"), anonymizer.New())

	out, err := m.ExecuteTool(context.Background(), "list_discussion_entries",
		map[string]any{"course_id": "1", "topic_id": "5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := strings.Count(out, "author: Student 1"); got != 2 {
		t.Errorf("Student 1 appears %d times, want 2:\n%s", got, out)
	}
	if !strings.Contains(out, "author: Student 2") {
		t.Errorf("second author not pseudonymized:\n%s", out)
	}
	if strings.Contains(out, "Alice") || strings.Contains(out, "Bob") {
		t.Errorf("real names leaked:\n%s", out)
	}
	// Message bodies untouched.
	if !strings.Contains(out, "message: first post") {
		t.Errorf("message body changed:\n%s", out)
	}
}

func TestCreateAnnouncement(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &body)
		json.NewEncoder(w).Encode(map[string]any{"id": float64(12), "title": "Exam moved"})
	}))
	defer srv.Close()
	m := New(canvasapi.New(srv.URL, "token"), anonymizer.New())

	out, err := m.ExecuteTool(context.Background(), "create_announcement", map[string]any{
		"course_id": "1", "title": "Exam moved", "message": "Now on Friday.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if body["is_announcement"] != true {
		t.Errorf("is_announcement = %v", body["is_announcement"])
	}
	if !strings.Contains(out, "Announcement created.") {
		t.Errorf("out = %q", out)
	}
}

func TestListAnnouncements_FilterParam(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer srv.Close()
	m := New(canvasapi.New(srv.URL, "token"), anonymizer.New())

	out, err := m.ExecuteTool(context.Background(), "list_announcements", map[string]any{"course_id": "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(query, "only_announcements=true") {
		t.Errorf("query = %q", query)
	}
	if out != "No announcements found." {
		t.Errorf("out = %q", out)
	}
}
