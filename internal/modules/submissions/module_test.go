package submissions

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

// submissionsFixture: two submissions both authored by user 55, the second
// also commented on by teacher 9.
func submissionsFixture() []map[string]any {
	alice := map[string]any{"id": float64(55), "name": "Alice Aalto", "email": "alice@school.edu"}
	return []map[string]any{
		{
			"id":      float64(1001),
			"user_id": float64(55),
			"user":    alice,
			"score":   float64(80),
		},
		{
			"id":      float64(1002),
			"user_id": float64(55),
			"user":    alice,
			"score":   float64(95),
			"submission_comments": []any{
				map[string]any{
					"author":      map[string]any{"id": float64(9), "name": "Prof. Torres", "role": "teacher"},
					"author_name": "Prof. Torres",
					"comment":     "well argued",
				},
			},
		},
	}
}

func TestListSubmissions_AnonymizationScenario(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(submissionsFixture())
	}))
	defer srv.Close()
	m := New(canvasapi.New(srv.URL, "token"), anonymizer.New())

	out, err := m.ExecuteTool(context.Background(), "list_submissions",
		map[string]any{"course_id": "1", "assignment_id": "2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Learner consistently pseudonymized in both submissions.
	if got := strings.Count(out, "user: Student 1"); got != 2 {
		t.Errorf("Student 1 appears %d times as user, want 2:\n%s", got, out)
	}
	if strings.Contains(out, "Alice Aalto") {
		t.Errorf("real learner name leaked:\n%s", out)
	}
	// Teacher name and comment emitted verbatim.
	if !strings.Contains(out, "Prof. Torres: well argued") {
		t.Errorf("teacher comment not verbatim:\n%s", out)
	}
}

func TestListSubmissions_Passthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(submissionsFixture())
	}))
	defer srv.Close()
	m := New(canvasapi.New(srv.URL, "token"), anonymizer.New())

	out, err := m.ExecuteTool(context.Background(), "list_submissions",
		map[string]any{"course_id": "1", "assignment_id": "2", "anonymize": false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Alice Aalto") {
		t.Errorf("passthrough name missing:\n%s", out)
	}
	if strings.Contains(out, "Student 1") {
		t.Errorf("pseudonym applied despite anonymize=false:\n%s", out)
	}
}

func TestGradeSubmission_SinglePut(t *testing.T) {
	var method, path string
	var body map[string]any
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		method = r.Method
		path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &body)
		json.NewEncoder(w).Encode(map[string]any{"score": float64(88), "grade": "88", "workflow_state": "graded"})
	}))
	defer srv.Close()
	m := New(canvasapi.New(srv.URL, "token"), anonymizer.New())

	out, err := m.ExecuteTool(context.Background(), "grade_submission", map[string]any{
		"course_id": "1", "assignment_id": "2", "user_id": "55", "grade": "88", "comment": "good work",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if requests != 1 || method != http.MethodPut {
		t.Errorf("requests = %d method = %s, want one PUT", requests, method)
	}
	if path != "/api/v1/courses/1/assignments/2/submissions/55" {
		t.Errorf("path = %s", path)
	}
	sub, _ := body["submission"].(map[string]any)
	if sub["posted_grade"] != "88" {
		t.Errorf("posted_grade = %v", sub["posted_grade"])
	}
	comment, _ := body["comment"].(map[string]any)
	if comment["text_comment"] != "good work" {
		t.Errorf("text_comment = %v", comment["text_comment"])
	}
	if !strings.Contains(out, "Submission graded.") {
		t.Errorf("out = %q", out)
	}
}

func TestSummarizeGrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"id":     float64(1),
				"user":   map[string]any{"id": float64(55), "name": "Alice Aalto"},
				"grades": map[string]any{"current_score": float64(90), "current_grade": "A-"},
			},
			{
				"id":     float64(2),
				"user":   map[string]any{"id": float64(90), "name": "Bob Berg"},
				"grades": map[string]any{"current_score": float64(70), "current_grade": "C-"},
			},
		})
	}))
	defer srv.Close()
	m := New(canvasapi.New(srv.URL, "token"), anonymizer.New())

	out, err := m.ExecuteTool(context.Background(), "summarize_grades", map[string]any{"course_id": "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "Student 1: score 90, grade A-") {
		t.Errorf("summary line missing:\n%s", out)
	}
	if !strings.Contains(out, "Class average: 80.0 (2 of 2 scored)") {
		t.Errorf("average missing:\n%s", out)
	}
	if strings.Contains(out, "Alice") || strings.Contains(out, "Bob") {
		t.Errorf("real names leaked:\n%s", out)
	}
}

func TestSummarizeGrades_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer srv.Close()
	m := New(canvasapi.New(srv.URL, "token"), anonymizer.New())

	out, err := m.ExecuteTool(context.Background(), "summarize_grades", map[string]any{"course_id": "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "No grades found." {
		t.Errorf("out = %q", out)
	}
}

func TestListSubmissions_UpstreamErrorWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"errors": []any{map[string]any{"message": "Invalid access token."}}})
	}))
	defer srv.Close()
	m := New(canvasapi.New(srv.URL, "token"), anonymizer.New())

	_, err := m.ExecuteTool(context.Background(), "list_submissions",
		map[string]any{"course_id": "1", "assignment_id": "2"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "failed to fetch submissions") {
		t.Errorf("operation not named: %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid access token.") {
		t.Errorf("upstream payload not embedded: %v", err)
	}
}
