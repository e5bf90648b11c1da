// Package skillmd pulls display metadata out of skill markdown payloads.
package skillmd

import "strings"

// ExtractDescription returns the description for a skill markdown document:
// the frontmatter description field when present, otherwise the first
// paragraph of body text.
func ExtractDescription(content string) string {
	inFrontmatter := false
	fences := 0
	var para []string

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "---" {
			fences++
			inFrontmatter = fences == 1
			continue
		}

		if inFrontmatter {
			if desc, ok := strings.CutPrefix(trimmed, "description:"); ok {
				return strings.Trim(strings.TrimSpace(desc), `"'`)
			}
			continue
		}

		// Skip headings, code fences, and list markers
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "-") {
			continue
		}

		if trimmed == "" {
			if len(para) > 0 {
				break
			}
			continue
		}
		para = append(para, trimmed)
	}

	return strings.Join(para, " ")
}

// Truncate shortens s for one-line display.
func Truncate(s string, n int) string {
	if len(s) <= n || n < 4 {
		return s
	}
	return s[:n-3] + "..."
}
