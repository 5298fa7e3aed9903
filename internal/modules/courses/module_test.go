package courses

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"canvasmcp/server/internal/anonymizer"
	"canvasmcp/server/pkg/canvasapi"
)

// pagedCoursesServer serves /api/v1/courses with total records split into
// per_page-sized pages.
func pagedCoursesServer(t *testing.T, total int) (*httptest.Server, *int) {
	t.Helper()
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

		start := (page - 1) * perPage
		end := start + perPage
		if end > total {
			end = total
		}
		records := make([]map[string]any, 0)
		for i := start; i < end; i++ {
			records = append(records, map[string]any{
				"id":   float64(i + 1),
				"name": fmt.Sprintf("Course %d", i+1),
			})
		}
		json.NewEncoder(w).Encode(records)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestListCourses_AggregatesAllPages(t *testing.T) {
	srv, requests := pagedCoursesServer(t, 237)
	m := New(canvasapi.New(srv.URL, "token"), anonymizer.New())

	out, err := m.ExecuteTool(context.Background(), "list_courses", map[string]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "Courses (Total: 237)") {
		t.Errorf("missing total header:\n%s", out[:min(len(out), 200)])
	}
	// 100 + 100 + 37: three requests, short final page terminates.
	if *requests != 3 {
		t.Errorf("requests = %d, want 3", *requests)
	}
	// Every record appears exactly once, in page order.
	for i := 1; i <= 237; i++ {
		if n := strings.Count(out, fmt.Sprintf("name: Course %d\n", i)); i < 237 && n != 1 {
			t.Fatalf("Course %d appears %d times, want 1", i, n)
		}
	}
	first := strings.Index(out, "name: Course 1\n")
	last := strings.Index(out, "name: Course 237")
	if first == -1 || last == -1 || first > last {
		t.Error("records out of page order")
	}
}

func TestListStudents_AnonymizedByDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": float64(55), "name": "Alice Aalto", "email": "alice@school.edu"},
			{"id": float64(90), "name": "Bob Berg"},
		})
	}))
	defer srv.Close()
	m := New(canvasapi.New(srv.URL, "token"), anonymizer.New())

	out, err := m.ExecuteTool(context.Background(), "list_students", map[string]any{"course_id": "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(out, "Alice Aalto") || strings.Contains(out, "alice@school.edu") {
		t.Errorf("real identity leaked:\n%s", out)
	}
	if !strings.Contains(out, "Student 1") || !strings.Contains(out, "Student 2") {
		t.Errorf("pseudonyms missing:\n%s", out)
	}
	if !strings.Contains(out, "user_55@example.com") {
		t.Errorf("placeholder email missing:\n%s", out)
	}
}

func TestListStudents_AnonymizeOff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": float64(55), "name": "Alice Aalto"},
		})
	}))
	defer srv.Close()
	m := New(canvasapi.New(srv.URL, "token"), anonymizer.New())

	out, err := m.ExecuteTool(context.Background(), "list_students", map[string]any{"course_id": "1", "anonymize": false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Alice Aalto") {
		t.Errorf("passthrough name missing:\n%s", out)
	}
}

func TestGetCourseSyllabus_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": float64(1), "name": "Intro"})
	}))
	defer srv.Close()
	m := New(canvasapi.New(srv.URL, "token"), anonymizer.New())

	out, err := m.ExecuteTool(context.Background(), "get_course_syllabus", map[string]any{"course_id": "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "No syllabus found for course 1." {
		t.Errorf("out = %q", out)
	}
}

func TestExecuteTool_Unknown(t *testing.T) {
	m := New(canvasapi.New("http://localhost", "token"), anonymizer.New())
	if _, err := m.ExecuteTool(context.Background(), "nope", nil); err == nil {
		t.Error("expected error for unknown tool")
	}
}
