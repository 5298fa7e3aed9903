package anonymizer

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func TestTransformUser_Determinism(t *testing.T) {
	a := New()

	first := a.TransformUser(map[string]any{"id": float64(55), "name": "Alice Aalto"})
	second := a.TransformUser(map[string]any{"id": float64(55), "name": "Alice Aalto"})
	other := a.TransformUser(map[string]any{"id": "90", "name": "Bob Berg"})

	if first["name"] != "Student 1" {
		t.Errorf("first pseudonym = %v, want Student 1", first["name"])
	}
	if second["name"] != first["name"] {
		t.Errorf("same identity got different pseudonyms: %v vs %v", first["name"], second["name"])
	}
	if other["name"] != "Student 2" {
		t.Errorf("second identity = %v, want Student 2", other["name"])
	}
}

func TestTransformUser_FirstSeenOrder(t *testing.T) {
	a := New()
	for i, id := range []string{"c", "a", "b"} {
		rec := a.TransformUser(map[string]any{"id": id, "name": "x"})
		want := fmt.Sprintf("Student %d", i+1)
		if rec["name"] != want {
			t.Errorf("id %q -> %v, want %v", id, rec["name"], want)
		}
	}
}

func TestTransformUser_EmailPlaceholder(t *testing.T) {
	a := New()

	withEmail := a.TransformUser(map[string]any{"id": "7", "name": "Carol", "email": "carol@school.edu"})
	if withEmail["email"] != "user_7@example.com" {
		t.Errorf("email = %v, want user_7@example.com", withEmail["email"])
	}

	// No email on input: none must be invented.
	withoutEmail := a.TransformUser(map[string]any{"id": "8", "name": "Dan"})
	if _, present := withoutEmail["email"]; present {
		t.Errorf("email invented for record that had none: %v", withoutEmail)
	}
}

func TestTransformUser_MissingIdentityIsNoOp(t *testing.T) {
	a := New()
	in := map[string]any{"name": "Eve Example", "email": "eve@school.edu"}
	out := a.TransformUser(in)

	if !reflect.DeepEqual(in, out) {
		t.Errorf("record without identity changed: %v", out)
	}
	// Copy, not the same map.
	out["name"] = "mutated"
	if in["name"] != "Eve Example" {
		t.Error("TransformUser returned the input map instead of a copy")
	}
}

func TestTransformSubmission_RoleExemption(t *testing.T) {
	a := New()
	submission := map[string]any{
		"id":      float64(1001),
		"user_id": float64(55),
		"user":    map[string]any{"id": float64(55), "name": "Alice Aalto", "email": "alice@school.edu"},
		"submission_comments": []any{
			map[string]any{
				"author":      map[string]any{"id": float64(55), "name": "Alice Aalto", "role": "student"},
				"author_name": "Alice Aalto",
				"comment":     "resubmitted",
			},
			map[string]any{
				"author":      map[string]any{"id": float64(9), "name": "Prof. Torres", "role": "teacher"},
				"author_name": "Prof. Torres",
				"comment":     "please revise section 2",
			},
		},
	}

	out := a.TransformSubmission(submission)

	user := out["user"].(map[string]any)
	if user["name"] != "Student 1" {
		t.Errorf("user name = %v, want Student 1", user["name"])
	}

	comments := out["submission_comments"].([]any)
	student := comments[0].(map[string]any)
	if student["author_name"] != "Student 1" {
		t.Errorf("student author_name = %v, want Student 1", student["author_name"])
	}
	if student["comment"] != "resubmitted" {
		t.Errorf("student comment body changed: %v", student["comment"])
	}

	teacher := comments[1].(map[string]any)
	if teacher["author_name"] != "Prof. Torres" {
		t.Errorf("teacher author_name = %v, want untouched", teacher["author_name"])
	}
	author := teacher["author"].(map[string]any)
	if author["name"] != "Prof. Torres" {
		t.Errorf("teacher author transformed: %v", author)
	}
}

func TestTransformSubmission_SameLearnerAcrossRecords(t *testing.T) {
	a := New()
	mk := func() map[string]any {
		return map[string]any{
			"id":   float64(1),
			"user": map[string]any{"id": float64(55), "name": "Alice Aalto"},
		}
	}
	one := a.TransformSubmission(mk())
	two := a.TransformSubmission(mk())

	n1 := one["user"].(map[string]any)["name"]
	n2 := two["user"].(map[string]any)["name"]
	if n1 != "Student 1" || n2 != "Student 1" {
		t.Errorf("learner not consistent across submissions: %v vs %v", n1, n2)
	}
}

func TestTransformAssignment_NestedSubmission(t *testing.T) {
	a := New()
	assignment := map[string]any{
		"id":   float64(2),
		"name": "Essay 1",
		"submission": map[string]any{
			"user": map[string]any{"id": "55", "name": "Alice Aalto"},
		},
	}
	out := a.TransformAssignment(assignment)

	if out["name"] != "Essay 1" {
		t.Errorf("assignment name changed: %v", out["name"])
	}
	sub := out["submission"].(map[string]any)
	if sub["user"].(map[string]any)["name"] != "Student 1" {
		t.Error("nested submission user not transformed")
	}
}

func TestTransformUserRef_SharedPseudonymTable(t *testing.T) {
	a := New()

	user := a.TransformUser(map[string]any{"id": float64(55), "name": "Alice Aalto"})
	ref := a.TransformUserRef(map[string]any{"id": float64(1), "user_id": float64(55), "score": float64(9)})

	if user["name"] != "Student 1" {
		t.Fatalf("user pseudonym = %v, want Student 1", user["name"])
	}
	if ref["user_id"] != "Student 1" {
		t.Errorf("user_id = %v, want the same Student 1 label", ref["user_id"])
	}
	if ref["score"] != float64(9) {
		t.Errorf("score changed: %v", ref["score"])
	}
	// The record's own id is not an identity; it stays put.
	if ref["id"] != float64(1) {
		t.Errorf("record id changed: %v", ref["id"])
	}
}

func TestTransformUserRef_MissingUserIDIsNoOp(t *testing.T) {
	a := New()
	in := map[string]any{"id": float64(1), "score": float64(9)}
	out := a.TransformUserRef(in)

	if !reflect.DeepEqual(in, out) {
		t.Errorf("record without user_id changed: %v", out)
	}
	out["score"] = float64(0)
	if in["score"] != float64(9) {
		t.Error("TransformUserRef returned the input map instead of a copy")
	}
}

func TestCollectionVariants_NilPassthrough(t *testing.T) {
	a := New()
	if a.TransformUsers(nil) != nil {
		t.Error("TransformUsers(nil) != nil")
	}
	if a.TransformSubmissions(nil) != nil {
		t.Error("TransformSubmissions(nil) != nil")
	}
	if a.TransformUserRefs(nil) != nil {
		t.Error("TransformUserRefs(nil) != nil")
	}
	if a.TransformAssignments(nil) != nil {
		t.Error("TransformAssignments(nil) != nil")
	}
}

func TestReset_Isolation(t *testing.T) {
	a := New()
	a.TransformUser(map[string]any{"id": "55", "name": "x"})
	a.TransformUser(map[string]any{"id": "90", "name": "y"})

	a.Reset()

	rec := a.TransformUser(map[string]any{"id": "90", "name": "y"})
	if rec["name"] != "Student 1" {
		t.Errorf("after Reset, pseudonym = %v, want Student 1", rec["name"])
	}
}

func TestPseudonymAssignment_Concurrent(t *testing.T) {
	a := New()
	var wg sync.WaitGroup
	results := make([]string, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := a.TransformUser(map[string]any{"id": "55", "name": "x"})
			results[i], _ = rec["name"].(string)
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r != "Student 1" {
			t.Fatalf("goroutine %d saw %q, want Student 1", i, r)
		}
	}
}
