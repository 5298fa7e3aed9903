package canvasapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-faster/jx"

	"canvasmcp/server/internal/metrics"
)

// DefaultPageSize is the per_page value used when the caller supplies none.
const DefaultPageSize = 100

// FetchAll walks a page-numbered collection endpoint to completion and
// returns the concatenation of all pages in ascending page order. No
// reordering, no deduplication: what the upstream returns is what the
// caller gets.
//
// The loop terminates on the first page shorter than per_page (an empty
// page included). There is no iteration cap: an upstream that keeps
// returning full pages forever would loop until the context expires, so
// callers needing a hard bound must set a deadline on ctx.
//
// Any page failure aborts the whole aggregate; partial results are
// discarded, never returned.
func (c *Client) FetchAll(ctx context.Context, path string, params url.Values) ([]map[string]any, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = append([]string(nil), v...)
	}

	perPage := DefaultPageSize
	if v := q.Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			perPage = n
		}
	}
	q.Set("per_page", strconv.Itoa(perPage))

	var all []map[string]any
	pages := 0
	for page := 1; ; page++ {
		q.Set("page", strconv.Itoa(page))
		raw, err := c.Get(ctx, path, q)
		if err != nil {
			return nil, err
		}

		records, err := decodeRecords(raw)
		if err != nil {
			return nil, &APIError{Message: fmt.Sprintf("failed to decode page %d: %v", page, err)}
		}

		all = append(all, records...)
		pages++
		if len(records) < perPage {
			break
		}
	}

	metrics.PagesPerAggregate.Observe(float64(pages))
	return all, nil
}

// decodeWrappedRecords extracts the record array stored under key in an
// object-wrapped page. found is false when the wrapper lacks the key.
func decodeWrappedRecords(raw []byte, key string) (records []map[string]any, found bool, err error) {
	v, err := decodeValue(jx.DecodeBytes(raw))
	if err != nil {
		return nil, false, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false, fmt.Errorf("expected a JSON object")
	}
	inner, ok := obj[key]
	if !ok {
		return nil, false, nil
	}
	arr, ok := inner.([]any)
	if !ok {
		return nil, false, fmt.Errorf("%q is not an array", key)
	}
	records = make([]map[string]any, len(arr))
	for i, el := range arr {
		rec, ok := el.(map[string]any)
		if !ok {
			return nil, false, fmt.Errorf("%q element %d is not an object", key, i)
		}
		records[i] = rec
	}
	return records, true, nil
}

// FetchAllWrapped is FetchAll for endpoints that wrap their collection in an
// object, e.g. quiz submissions: {"quiz_submissions": [...]}. The page under
// the given key follows the same short-page termination rule.
func (c *Client) FetchAllWrapped(ctx context.Context, path, key string, params url.Values) ([]map[string]any, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = append([]string(nil), v...)
	}

	perPage := DefaultPageSize
	if v := q.Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			perPage = n
		}
	}
	q.Set("per_page", strconv.Itoa(perPage))

	var all []map[string]any
	pages := 0
	for page := 1; ; page++ {
		q.Set("page", strconv.Itoa(page))
		raw, err := c.Get(ctx, path, q)
		if err != nil {
			return nil, err
		}

		records, found, err := decodeWrappedRecords(raw, key)
		if err != nil {
			return nil, &APIError{Message: fmt.Sprintf("failed to decode page %d: %v", page, err)}
		}
		if !found {
			return nil, &APIError{Message: fmt.Sprintf("failed to decode page %d: missing %q field", page, key)}
		}

		all = append(all, records...)
		pages++
		if len(records) < perPage {
			break
		}
	}

	metrics.PagesPerAggregate.Observe(float64(pages))
	return all, nil
}
