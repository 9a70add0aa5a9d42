package parse

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"matchrate-backend/resume/record"
)

// entryDraft is an experience entry while it is still being assembled.
type entryDraft struct {
	headerFields
	bullets []string
}

func (d *entryDraft) empty() bool {
	return d.headerFields.empty() && len(d.bullets) == 0
}

// accepts reports whether fields from another header line can be folded into
// the draft instead of opening a new entry. Once bullets have been collected
// the entry is closed to further header lines.
func (d *entryDraft) accepts(f headerFields) bool {
	if len(d.bullets) > 0 {
		return false
	}
	return (f.title == "" || d.title == "") &&
		(f.company == "" || d.company == "" || (d.title == "" && f.title == "")) &&
		(f.location == "" || d.location == "") &&
		(f.dates == "" || d.dates == "")
}

func (d *entryDraft) merge(f headerFields) {
	// Two lines that both read as a company: the earlier one is the title.
	if f.company != "" && d.company != "" && d.title == "" && f.title == "" {
		d.title, d.company = d.company, ""
	}
	if d.title == "" {
		d.title = f.title
	}
	if d.company == "" {
		d.company = f.company
	}
	if d.location == "" {
		d.location = f.location
	}
	if d.dates == "" {
		d.dates = f.dates
	}
}

// fill places a plain line that arrived before any bullet into the first
// empty slot. It returns false when every slot is taken.
func (d *entryDraft) fill(text string) bool {
	switch {
	case d.title == "":
		d.title = text
	case d.company == "":
		d.company = text
	case d.location == "" && locationPattern.MatchString(text):
		d.location = text
	default:
		return false
	}
	return true
}

var locationPattern = regexp.MustCompile(`^(?:[A-Z][\p{L} .'\-]+,\s*(?:[A-Z]{2}|[A-Z][\p{L} ]+)|(?i:remote|hybrid|on-?site))$`)

// experienceSplitter walks the experience section once and cuts it into
// entries. A non-bullet line starts or extends an entry header when it holds a
// pipe or a date, when the next line is a bullet, or when a pipe or date line
// follows within two lines with no bullet in between. Any other line after a
// bullet is a wrapped bullet and joins it.
type experienceSplitter struct {
	lines   []string
	current *entryDraft
	done    []entryDraft
}

func splitExperience(lines []string) []entryDraft {
	s := &experienceSplitter{lines: lines}
	for i := range lines {
		s.step(i)
	}
	s.close()
	return s.done
}

func (s *experienceSplitter) step(i int) {
	line := s.lines[i]
	if isRule(line) {
		return
	}
	if isBullet(line) {
		text := cleanText(stripBullet(line))
		if text == "" {
			return
		}
		if s.current == nil {
			s.current = &entryDraft{}
		}
		s.current.bullets = append(s.current.bullets, text)
		return
	}
	if s.isBoundary(i) {
		fields := readHeaderLine(line)
		if fields.empty() {
			return
		}
		if s.current != nil && s.current.accepts(fields) {
			s.current.merge(fields)
			return
		}
		s.close()
		s.current = &entryDraft{headerFields: fields}
		return
	}
	s.continuation(cleanText(line))
}

func (s *experienceSplitter) continuation(text string) {
	if text == "" {
		return
	}
	if s.current == nil {
		s.current = &entryDraft{headerFields: readHeaderLine(text)}
		return
	}
	if n := len(s.current.bullets); n > 0 {
		s.current.bullets[n-1] += " " + text
		return
	}
	if !s.current.fill(text) {
		s.current.bullets = append(s.current.bullets, text)
	}
}

func (s *experienceSplitter) close() {
	if s.current != nil && !s.current.empty() {
		s.done = append(s.done, *s.current)
	}
	s.current = nil
}

func (s *experienceSplitter) isBoundary(i int) bool {
	line := s.lines[i]
	if strings.Contains(line, "|") || hasDate(line) {
		return true
	}
	if i+1 < len(s.lines) && isBullet(s.lines[i+1]) {
		return true
	}
	return looksLikeHeading(line) && s.headerAhead(i)
}

// headerAhead looks at most two lines past i for a pipe or date line,
// stopping at the first bullet.
func (s *experienceSplitter) headerAhead(i int) bool {
	for j := i + 1; j <= i+2 && j < len(s.lines); j++ {
		next := s.lines[j]
		if isBullet(next) {
			return false
		}
		if strings.Contains(next, "|") || hasDate(next) {
			return true
		}
	}
	return false
}

// looksLikeHeading separates short capitalised lines such as a job title or
// company name from wrapped sentence text.
func looksLikeHeading(line string) bool {
	text := cleanText(line)
	if text == "" || strings.HasSuffix(text, ".") {
		return false
	}
	first, _ := utf8.DecodeRuneInString(text)
	if !unicode.IsUpper(first) {
		return false
	}
	words := strings.Fields(text)
	if len(words) > 12 {
		return false
	}
	var long, capital int
	for _, w := range words {
		if utf8.RuneCountInString(w) <= 3 {
			continue
		}
		long++
		if r, _ := utf8.DecodeRuneInString(w); unicode.IsUpper(r) {
			capital++
		}
	}
	return long == 0 || float64(capital)/float64(long) >= 0.6
}

func toExperiences(drafts []entryDraft) []record.Experience {
	if len(drafts) == 0 {
		return nil
	}
	out := make([]record.Experience, 0, len(drafts))
	for _, d := range drafts {
		bullets := d.bullets
		if bullets == nil {
			bullets = []string{}
		}
		out = append(out, record.Experience{
			Title:    d.title,
			Company:  d.company,
			Location: record.StringPtr(d.location),
			Dates:    d.dates,
			Bullets:  bullets,
		})
	}
	return out
}
