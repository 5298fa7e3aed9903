package pages

import (
	"fmt"
	"strings"

	"canvasmcp/server/internal/modules"
)

// formatPageContent renders a page's metadata header and body.
func formatPageContent(rec map[string]any) string {
	title := modules.FormatValue(rec["title"])
	body, _ := rec["body"].(string)
	if body == "" {
		return fmt.Sprintf("%s\n\n(page has no content)", title)
	}
	return fmt.Sprintf("%s\n\n%s", title, body)
}

// formatEditPackage renders the phase-one edit package: current state,
// instructions, and optional style reference, as plain text for the agent.
func formatEditPackage(rec map[string]any, instructions string, styleRec map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Page: %s (url: %s)\n\n", modules.FormatValue(rec["title"]), modules.FormatValue(rec["url"]))

	b.WriteString("[Current content]\n")
	if body, _ := rec["body"].(string); body != "" {
		b.WriteString(body)
	} else {
		b.WriteString("(empty)")
	}

	b.WriteString("\n\n[Instructions]\n")
	b.WriteString(instructions)

	if styleRec != nil {
		fmt.Fprintf(&b, "\n\n[Style reference: %s]\n", modules.FormatValue(styleRec["title"]))
		if body, _ := styleRec["body"].(string); body != "" {
			b.WriteString(body)
		} else {
			b.WriteString("(empty)")
		}
	}

	b.WriteString("\n\nProduce the revised content and submit it with apply_page_edit.")
	return b.String()
}

func joinRoles(roles []string) string {
	return strings.Join(roles, ",")
}
