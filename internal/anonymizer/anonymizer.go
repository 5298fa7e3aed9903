// Package anonymizer provides deterministic, process-scoped pseudonymization
// of learner identities. A given upstream user ID always maps to the same
// pseudonym for the lifetime of the process, and pseudonyms are assigned in
// first-seen order starting from "Student 1". The mapping lives only in
// memory and is never persisted.
package anonymizer

import (
	"fmt"
	"strconv"
	"sync"
)

// LearnerRole is the role tag that gates anonymization of nested author
// records. Authors carrying any other role (teacher, admin, unspecified)
// pass through untouched.
const LearnerRole = "student"

// Anonymizer owns the identity-to-pseudonym mapping. It is created once at
// process start and passed by reference to every handler that needs it.
type Anonymizer struct {
	mu   sync.Mutex
	ids  map[string]string
	next int
}

// New creates an empty Anonymizer with the counter at its origin.
func New() *Anonymizer {
	return &Anonymizer{ids: make(map[string]string), next: 1}
}

// pseudonym returns the stable pseudonym for an identity, assigning one on
// first sight. The lookup-or-insert is atomic and purely in-memory, so the
// lock is never held across a blocking operation.
func (a *Anonymizer) pseudonym(id string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p, ok := a.ids[id]; ok {
		return p
	}
	p := fmt.Sprintf("Student %d", a.next)
	a.ids[id] = p
	a.next++
	return p
}

// Reset clears all mappings and restarts the counter. Test isolation only:
// resetting mid-process breaks the determinism guarantee across calls.
func (a *Anonymizer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ids = make(map[string]string)
	a.next = 1
}

// identityKey extracts the stable identity from a user-shaped record.
func identityKey(rec map[string]any) (string, bool) {
	return refKey(rec["id"])
}

// refKey normalizes a bare identity value. Canvas IDs arrive as JSON
// numbers; they are normalized to strings so the mapping is independent of
// the wire representation.
func refKey(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, t != ""
	case float64:
		return strconv.FormatInt(int64(t), 10), true
	default:
		return fmt.Sprintf("%v", t), true
	}
}

func placeholderEmail(id string) string {
	return fmt.Sprintf("user_%s@example.com", id)
}

func shallowCopy(rec map[string]any) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

// nameFields are the display-name keys replaced by the pseudonym.
var nameFields = []string{"name", "short_name", "sortable_name", "display_name"}

// emailFields are replaced by a synthetic placeholder, and only when the
// input actually carried a value; a real address must never leak through.
var emailFields = []string{"email", "login_id"}

// TransformUser pseudonymizes one user-shaped record. A record without an
// identity field is returned as an unmodified copy: anonymization is a
// no-op on malformed input, not a failure.
func (a *Anonymizer) TransformUser(rec map[string]any) map[string]any {
	if rec == nil {
		return nil
	}
	out := shallowCopy(rec)
	id, ok := identityKey(rec)
	if !ok {
		return out
	}

	p := a.pseudonym(id)
	for _, f := range nameFields {
		if v, present := out[f]; present && v != nil {
			out[f] = p
		}
	}
	for _, f := range emailFields {
		if v, present := out[f]; present && v != nil {
			out[f] = placeholderEmail(id)
		}
	}
	return out
}

// TransformSubmission pseudonymizes the nested user reference of a
// submission and the authors of its comments. Only comment authors tagged
// with the learner role are transformed; teachers and other roles keep
// their real name and email.
func (a *Anonymizer) TransformSubmission(rec map[string]any) map[string]any {
	if rec == nil {
		return nil
	}
	out := shallowCopy(rec)

	if u, ok := out["user"].(map[string]any); ok {
		out["user"] = a.TransformUser(u)
	}

	comments, ok := out["submission_comments"].([]any)
	if !ok {
		return out
	}
	transformed := make([]any, len(comments))
	for i, c := range comments {
		transformed[i] = a.transformComment(c)
	}
	out["submission_comments"] = transformed
	return out
}

func (a *Anonymizer) transformComment(c any) any {
	cm, ok := c.(map[string]any)
	if !ok {
		return c
	}
	author, ok := cm["author"].(map[string]any)
	if !ok {
		return cm
	}
	if role, _ := author["role"].(string); role != LearnerRole {
		return cm
	}
	id, ok := identityKey(author)
	if !ok {
		return cm
	}

	out := shallowCopy(cm)
	out["author"] = a.TransformUser(author)
	if v, present := out["author_name"]; present && v != nil {
		out["author_name"] = a.pseudonym(id)
	}
	return out
}

// TransformAssignment pseudonymizes the nested submission of an assignment
// record, if present.
func (a *Anonymizer) TransformAssignment(rec map[string]any) map[string]any {
	if rec == nil {
		return nil
	}
	out := shallowCopy(rec)
	if s, ok := out["submission"].(map[string]any); ok {
		out["submission"] = a.TransformSubmission(s)
	}
	return out
}

// TransformUserRef pseudonymizes a record that carries its submitter as a
// bare user_id value instead of a nested user record, e.g. quiz submissions.
// The id is replaced by the pseudonym a full user record with the same id
// receives, so one learner keeps one label across every tool. A record
// without a user_id is returned as an unmodified copy.
func (a *Anonymizer) TransformUserRef(rec map[string]any) map[string]any {
	if rec == nil {
		return nil
	}
	out := shallowCopy(rec)
	id, ok := refKey(out["user_id"])
	if !ok {
		return out
	}
	out["user_id"] = a.pseudonym(id)
	return out
}

// TransformUsers maps TransformUser over a record sequence.
func (a *Anonymizer) TransformUsers(recs []map[string]any) []map[string]any {
	if recs == nil {
		return nil
	}
	out := make([]map[string]any, len(recs))
	for i, r := range recs {
		out[i] = a.TransformUser(r)
	}
	return out
}

// TransformUserRefs maps TransformUserRef over a record sequence.
func (a *Anonymizer) TransformUserRefs(recs []map[string]any) []map[string]any {
	if recs == nil {
		return nil
	}
	out := make([]map[string]any, len(recs))
	for i, r := range recs {
		out[i] = a.TransformUserRef(r)
	}
	return out
}

// TransformSubmissions maps TransformSubmission over a record sequence.
func (a *Anonymizer) TransformSubmissions(recs []map[string]any) []map[string]any {
	if recs == nil {
		return nil
	}
	out := make([]map[string]any, len(recs))
	for i, r := range recs {
		out[i] = a.TransformSubmission(r)
	}
	return out
}

// TransformAssignments maps TransformAssignment over a record sequence.
func (a *Anonymizer) TransformAssignments(recs []map[string]any) []map[string]any {
	if recs == nil {
		return nil
	}
	out := make([]map[string]any, len(recs))
	for i, r := range recs {
		out[i] = a.TransformAssignment(r)
	}
	return out
}
