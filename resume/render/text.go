package render

import (
	"strings"

	"matchrate-backend/resume/record"
)

// PlainText renders rec as plain text, one block per line, with a blank line
// before each section heading. Parsing the result yields the same section
// and entry counts as rec.
func PlainText(rec record.Record) string {
	var sb strings.Builder
	for i, b := range Layout(rec) {
		if b.Kind == BlockHeading && i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(b.Text)
		if b.Kind == BlockEntry && b.Right != "" {
			if b.Text != "" {
				sb.WriteString(" | ")
			}
			sb.WriteString(b.Right)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
