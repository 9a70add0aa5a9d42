package parse

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize splits raw resume text into trimmed, non-empty lines.
// Line endings are folded to LF, each line is NFKC-normalized so that
// non-breaking spaces and full-width forms compare like their ASCII
// counterparts, and inner whitespace runs collapse to a single space.
func Normalize(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.Join(strings.Fields(norm.NFKC.String(line)), " ")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

var bulletMarkers = []string{"•", "●", "▪", "◦", "‣", "–", "-", ">", "*"}

func bulletMarker(line string) (string, bool) {
	for _, m := range bulletMarkers {
		if !strings.HasPrefix(line, m) {
			continue
		}
		if m == "*" && strings.HasPrefix(line, "**") {
			return "", false
		}
		return m, true
	}
	return "", false
}

func isBullet(line string) bool {
	if isRule(line) {
		return false
	}
	_, ok := bulletMarker(line)
	return ok
}

func stripBullet(line string) string {
	m, ok := bulletMarker(line)
	if !ok {
		return line
	}
	return strings.TrimSpace(strings.TrimPrefix(line, m))
}

// isRule reports decorative separator lines such as "_____" or "-----".
func isRule(line string) bool {
	if len(line) < 3 {
		return strings.Trim(line, "_") == "" && line != ""
	}
	return strings.Trim(line, "_-=~* ") == ""
}

var (
	markupSpan = regexp.MustCompile(`\[([^\]]*)\]\{[^}]*\}`)
	markupAttr = regexp.MustCompile(`\{\.[^}]*\}`)
	markupEsc  = regexp.MustCompile(`\\([|\-*_#>\[\]])`)
	markupHead = regexp.MustCompile(`^#{1,6}\s+`)
)

// stripMarkup removes the markdown emphasis and pandoc attribute residue that
// shows up when resumes are converted from DOCX to text.
func stripMarkup(s string) string {
	s = markupSpan.ReplaceAllString(s, "$1")
	s = markupAttr.ReplaceAllString(s, "")
	s = markupEsc.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = markupHead.ReplaceAllString(strings.TrimSpace(s), "")
	return strings.Join(strings.Fields(s), " ")
}

func cleanText(s string) string {
	return strings.TrimSpace(stripMarkup(s))
}

var emptyBrackets = strings.NewReplacer("( )", "", "()", "", "[ ]", "", "[]", "")

// tidyField trims separator residue left behind after a date or part is cut
// out of a header line.
func tidyField(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = emptyBrackets.Replace(s)
	for {
		trimmed := strings.Trim(s, " |,;:-–—/")
		trimmed = strings.TrimSuffix(strings.TrimSuffix(trimmed, " at"), " @")
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}
