package quizzes

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

func TestListQuizSubmissions_WrappedPagination(t *testing.T) {
	const total = 150
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
				"id":      float64(i + 1),
				"user_id": float64(i + 1),
				"score":   float64(i),
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"quiz_submissions": records})
	}))
	defer srv.Close()
	m := New(canvasapi.New(srv.URL, "token"), anonymizer.New())

	out, err := m.ExecuteTool(context.Background(), "list_quiz_submissions",
		map[string]any{"course_id": "1", "quiz_id": "9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, fmt.Sprintf("Quiz submissions (Total: %d)", total)) {
		t.Errorf("missing total header:\n%.200s", out)
	}
	// 100 + 50: the short second page terminates the walk.
	if requests != 2 {
		t.Errorf("requests = %d, want 2", requests)
	}
}

// The anonymize toggle must visibly change the output: quiz submissions
// identify their submitter only by user_id, so that id carries the
// pseudonym when the toggle is on and the raw value when it is off.
func TestListQuizSubmissions_AnonymizeToggle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"quiz_submissions": []map[string]any{
			{"id": float64(1), "user_id": float64(55), "score": float64(9)},
			{"id": float64(2), "user_id": float64(90), "score": float64(7)},
			{"id": float64(3), "user_id": float64(55), "score": float64(10)},
		}})
	}))
	defer srv.Close()
	anon := anonymizer.New()
	m := New(canvasapi.New(srv.URL, "token"), anon)

	out, err := m.ExecuteTool(context.Background(), "list_quiz_submissions",
		map[string]any{"course_id": "1", "quiz_id": "9", "anonymize": true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "user_id: 55") || strings.Contains(out, "user_id: 90") {
		t.Errorf("raw user ids leaked:\n%s", out)
	}
	if strings.Count(out, "user_id: Student 1") != 2 {
		t.Errorf("submitter 55 not consistently pseudonymized:\n%s", out)
	}
	if !strings.Contains(out, "user_id: Student 2") {
		t.Errorf("second submitter missing pseudonym:\n%s", out)
	}

	plain, err := m.ExecuteTool(context.Background(), "list_quiz_submissions",
		map[string]any{"course_id": "1", "quiz_id": "9", "anonymize": false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(plain, "user_id: 55") {
		t.Errorf("anonymize off altered user ids:\n%s", plain)
	}
}

func TestGetQuiz_WithDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":          float64(9),
			"title":       "Midterm",
			"description": "<p>Covers weeks 1-6</p>",
		})
	}))
	defer srv.Close()
	m := New(canvasapi.New(srv.URL, "token"), anonymizer.New())

	out, err := m.ExecuteTool(context.Background(), "get_quiz",
		map[string]any{"course_id": "1", "quiz_id": "9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "title: Midterm") || !strings.Contains(out, "Covers weeks 1-6") {
		t.Errorf("out = %q", out)
	}
}
