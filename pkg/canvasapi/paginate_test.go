package canvasapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
)

// pagedServer serves total records of the form {"id": n} split into
// per_page-sized pages, and counts requests.
func pagedServer(t *testing.T, total int, requests *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests++
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		if page < 1 || perPage < 1 {
			t.Errorf("bad pagination params: page=%q per_page=%q",
				r.URL.Query().Get("page"), r.URL.Query().Get("per_page"))
		}

		start := (page - 1) * perPage
		end := start + perPage
		if start > total {
			start = total
		}
		if end > total {
			end = total
		}
		records := make([]map[string]any, 0, end-start)
		for i := start; i < end; i++ {
			records = append(records, map[string]any{"id": float64(i + 1)})
		}
		json.NewEncoder(w).Encode(records)
	}))
}

func TestFetchAll_Completeness(t *testing.T) {
	tests := []struct {
		total        int
		perPage      int
		wantRequests int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{9, 10, 1},
		{10, 10, 2},  // full final page costs one extra empty request
		{25, 10, 3},
		{237, 100, 3}, // 100, 100, 37
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_records_page_%d", tt.total, tt.perPage), func(t *testing.T) {
			requests := 0
			srv := pagedServer(t, tt.total, &requests)
			defer srv.Close()

			c := New(srv.URL, "tok")
			params := url.Values{"per_page": {strconv.Itoa(tt.perPage)}}
			records, err := c.FetchAll(context.Background(), "/courses", params)
			if err != nil {
				t.Fatalf("FetchAll: %v", err)
			}
			if len(records) != tt.total {
				t.Errorf("got %d records, want %d", len(records), tt.total)
			}
			if requests != tt.wantRequests {
				t.Errorf("made %d requests, want %d", requests, tt.wantRequests)
			}
			// Order is the concatenation of pages in page order.
			for i, rec := range records {
				if id, _ := rec["id"].(float64); int(id) != i+1 {
					t.Fatalf("record %d has id %v, want %d", i, rec["id"], i+1)
				}
			}
		})
	}
}

func TestFetchAll_DefaultPageSize(t *testing.T) {
	var gotPerPage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPerPage = r.URL.Query().Get("per_page")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	if _, err := c.FetchAll(context.Background(), "/courses", nil); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if gotPerPage != "100" {
		t.Errorf("per_page = %q, want 100", gotPerPage)
	}
}

func TestFetchAll_MidPageErrorDiscardsAggregate(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests >= 2 {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream down"))
			return
		}
		// full first page forces a second request
		records := make([]map[string]any, 2)
		for i := range records {
			records[i] = map[string]any{"id": i + 1}
		}
		json.NewEncoder(w).Encode(records)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	records, err := c.FetchAll(context.Background(), "/courses", url.Values{"per_page": {"2"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if records != nil {
		t.Errorf("partial aggregate surfaced: %v", records)
	}
}

func TestFetchAll_NonArrayPageIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	if _, err := c.FetchAll(context.Background(), "/courses", nil); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFetchAll_DoesNotMutateCallerParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	params := url.Values{"enrollment_state": {"active"}}
	if _, err := c.FetchAll(context.Background(), "/courses", params); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if params.Get("page") != "" || params.Get("per_page") != "" {
		t.Errorf("caller params mutated: %v", params)
	}
}
