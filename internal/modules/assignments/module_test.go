package assignments

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"canvasmcp/server/pkg/canvasapi"
)

func TestGetAssignmentRubric_NoRubricPrecondition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": float64(7), "name": "Essay 1"})
	}))
	defer srv.Close()
	m := New(canvasapi.New(srv.URL, "token"))

	_, err := m.ExecuteTool(context.Background(), "get_assignment_rubric",
		map[string]any{"course_id": "1", "assignment_id": "7"})
	if err == nil {
		t.Fatal("expected precondition error")
	}
	if err.Error() != "no rubric attached to assignment 7" {
		t.Errorf("err = %q", err.Error())
	}
}

func TestGetAssignmentRubric_RendersCriteria(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":   float64(7),
			"name": "Essay 1",
			"rubric": []any{
				map[string]any{
					"description": "Thesis",
					"points":      float64(10),
					"ratings": []any{
						map[string]any{"points": float64(10), "description": "Clear and arguable"},
						map[string]any{"points": float64(5), "description": "Present but vague"},
					},
				},
			},
			"rubric_settings": map[string]any{"id": float64(3), "title": "Essay rubric", "points_possible": float64(10)},
		})
	}))
	defer srv.Close()
	m := New(canvasapi.New(srv.URL, "token"))

	out, err := m.ExecuteTool(context.Background(), "get_assignment_rubric",
		map[string]any{"course_id": "1", "assignment_id": "7"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"title: Essay rubric", "- Thesis (10 points)", "10: Clear and arguable"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestCreateAssignment_PostBody(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &body)
		json.NewEncoder(w).Encode(map[string]any{"id": float64(99), "name": "Essay 2"})
	}))
	defer srv.Close()
	m := New(canvasapi.New(srv.URL, "token"))

	out, err := m.ExecuteTool(context.Background(), "create_assignment", map[string]any{
		"course_id":        "1",
		"name":             "Essay 2",
		"points_possible":  float64(50),
		"submission_types": []any{"online_text_entry"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assignment, _ := body["assignment"].(map[string]any)
	if assignment["name"] != "Essay 2" {
		t.Errorf("name = %v", assignment["name"])
	}
	if assignment["points_possible"] != float64(50) {
		t.Errorf("points_possible = %v", assignment["points_possible"])
	}
	if !strings.Contains(out, "Assignment created.") {
		t.Errorf("out = %q", out)
	}
}

func TestUpdateAssignment_NoFields(t *testing.T) {
	m := New(canvasapi.New("http://localhost", "token"))
	_, err := m.ExecuteTool(context.Background(), "update_assignment",
		map[string]any{"course_id": "1", "assignment_id": "7"})
	if err == nil || !strings.Contains(err.Error(), "no fields to update") {
		t.Errorf("err = %v", err)
	}
}
