package modules

import (
	"fmt"
	"sort"
	"strings"
)

// recordSeparator joins record paragraphs in list output.
const recordSeparator = "---"

// FormatValue renders a single field value for text output.
// Nested maps and arrays are summarized rather than dumped.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return fmt.Sprintf("%t", val)
	case float64:
		// Canvas IDs and counts arrive as float64; render integral values
		// without the trailing ".0" JSON decoding would suggest.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, FormatValue(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		return fmt.Sprintf("(%d fields)", len(val))
	default:
		return fmt.Sprintf("%v", val)
	}
}

// FieldLines renders the named fields of a record as "key: value" lines.
// Fields absent from the record are skipped so sparse upstream records
// stay readable.
func FieldLines(record map[string]any, fields []string) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		v, ok := record[f]
		if !ok || v == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", f, FormatValue(v)))
	}
	return strings.Join(lines, "\n")
}

// FormatList renders an aggregate as a "<Noun> (Total: N)" header followed by
// one paragraph per record, separated by "---" lines. The total always
// reflects the full aggregate. An empty aggregate renders "No <noun> found."
func FormatList(noun string, records []map[string]any, fields []string) string {
	return FormatListWith(noun, records, func(r map[string]any) string {
		return FieldLines(r, fields)
	})
}

// FormatListWith is FormatList with a caller-supplied record renderer, for
// records that need more than flat field lines.
func FormatListWith(noun string, records []map[string]any, render func(map[string]any) string) string {
	if len(records) == 0 {
		return fmt.Sprintf("No %s found.", strings.ToLower(noun))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (Total: %d)\n\n", noun, len(records))
	for i, r := range records {
		if i > 0 {
			b.WriteString("\n" + recordSeparator + "\n")
		}
		b.WriteString(render(r))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatRecord renders a single record with every field, sorted by key.
// Used by get tools that should not hide unknown upstream fields.
func FormatRecord(record map[string]any) string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, FormatValue(record[k])))
	}
	return strings.Join(lines, "\n")
}
