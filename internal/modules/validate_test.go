package modules

import (
	"strings"
	"testing"
)

func testSchema() InputSchema {
	return InputSchema{
		Type: "object",
		Properties: map[string]Property{
			"course_id":  {Type: "string", Description: "Course ID"},
			"page_size":  {Type: "number", Description: "Records per page"},
			"anonymize":  {Type: "boolean", Description: "Anonymize learner identities", Default: true},
			"include":    {Type: "array", Description: "Extra associations", Items: &Property{Type: "string"}},
			"sort_order": {Type: "string", Description: "Sort order", Enum: []string{"asc", "desc"}},
		},
		Required: []string{"course_id"},
	}
}

func TestValidateParams(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]any
		wantErr string
	}{
		{
			name:   "valid minimal",
			params: map[string]any{"course_id": "101"},
		},
		{
			name:   "valid full",
			params: map[string]any{"course_id": "101", "page_size": float64(50), "anonymize": false, "include": []any{"user"}},
		},
		{
			name:    "missing required",
			params:  map[string]any{"page_size": float64(50)},
			wantErr: "missing required parameter(s): course_id",
		},
		{
			name:    "empty string required",
			params:  map[string]any{"course_id": ""},
			wantErr: "missing required parameter(s): course_id",
		},
		{
			name:    "nil required",
			params:  map[string]any{"course_id": nil},
			wantErr: "missing required parameter(s): course_id",
		},
		{
			name:    "nil params map",
			params:  nil,
			wantErr: "missing required parameter(s): course_id",
		},
		{
			name:    "wrong type string",
			params:  map[string]any{"course_id": float64(101)},
			wantErr: `parameter "course_id": expected string`,
		},
		{
			name:    "wrong type number",
			params:  map[string]any{"course_id": "101", "page_size": "50"},
			wantErr: `parameter "page_size": expected number`,
		},
		{
			name:    "wrong type boolean",
			params:  map[string]any{"course_id": "101", "anonymize": "yes"},
			wantErr: `parameter "anonymize": expected boolean`,
		},
		{
			name:    "wrong type array",
			params:  map[string]any{"course_id": "101", "include": "user"},
			wantErr: `parameter "include": expected array`,
		},
		{
			name:    "enum violation",
			params:  map[string]any{"course_id": "101", "sort_order": "upward"},
			wantErr: `parameter "sort_order": "upward" is not one of [asc desc]`,
		},
		{
			name:   "enum valid",
			params: map[string]any{"course_id": "101", "sort_order": "desc"},
		},
		{
			name:   "undeclared params pass through",
			params: map[string]any{"course_id": "101", "extra": 42},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateParams(testSchema(), tt.params)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %q, want containing %q", err.Error(), tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got == nil {
				t.Fatal("validated params are nil")
			}
		})
	}
}

func TestValidateParams_AppliesDefaults(t *testing.T) {
	got, err := ValidateParams(testSchema(), map[string]any{"course_id": "101"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["anonymize"] != true {
		t.Errorf("default not applied: anonymize = %v, want true", got["anonymize"])
	}

	// Explicit value wins over the default.
	got, err = ValidateParams(testSchema(), map[string]any{"course_id": "101", "anonymize": false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["anonymize"] != false {
		t.Errorf("explicit value overridden by default: %v", got["anonymize"])
	}
}

func TestValidateParams_CopiesInput(t *testing.T) {
	in := map[string]any{"course_id": "101"}
	got, err := ValidateParams(testSchema(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got["course_id"] = "mutated"
	if in["course_id"] != "101" {
		t.Error("ValidateParams returned the caller's map instead of a copy")
	}
}
