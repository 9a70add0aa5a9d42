package parse

import (
	"regexp"
	"strings"
)

// extractHeader reads the lines before the first section heading. The first
// line that is not a separator rule is the name; the rest are contact parts.
func extractHeader(lines []string) (name, contact string) {
	var parts []string
	for _, line := range lines {
		if isRule(line) {
			continue
		}
		text := cleanText(line)
		if text == "" {
			continue
		}
		if name == "" {
			name = text
			continue
		}
		parts = append(parts, text)
	}
	return name, strings.Join(parts, " | ")
}

// extractSkills turns each bullet line into one skill and splits every other
// line on commas and semicolons.
func extractSkills(lines []string) []string {
	var skills []string
	for _, line := range lines {
		if isRule(line) {
			continue
		}
		if isBullet(line) {
			if skill := cleanText(stripBullet(line)); skill != "" {
				skills = append(skills, skill)
			}
			continue
		}
		for _, part := range strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ';' }) {
			if skill := cleanText(part); skill != "" {
				skills = append(skills, skill)
			}
		}
	}
	return skills
}

var degreePattern = regexp.MustCompile(`(?i)(?:^|[^a-z])(?:bachelors?|masters?|mba|ph\.?\s?d|doctor(?:ate)?|associate|diplomas?|degree|certificat(?:e|ion)s?|` +
	`b\.?sc?|m\.?sc?|b\.a\.?|m\.a\.|b\.?eng|m\.?eng|b\.?tech|m\.?tech|ged)(?:[^a-z]|$)`)

// extractEducation groups education lines into entries. A bullet, a degree
// keyword or a four-digit year starts a new entry; any other line continues
// the pending one.
func extractEducation(lines []string) []string {
	var (
		entries []string
		pending string
	)
	flush := func() {
		if pending != "" {
			entries = append(entries, pending)
		}
		pending = ""
	}
	for _, line := range lines {
		if isRule(line) {
			continue
		}
		text := cleanText(stripBullet(line))
		if text == "" {
			continue
		}
		if isBullet(line) || degreePattern.MatchString(text) || yearPattern.MatchString(text) {
			flush()
			pending = text
			continue
		}
		if pending == "" {
			pending = text
		} else {
			pending += " " + text
		}
	}
	flush()
	return entries
}

// extractList keeps one entry per line with bullet markers removed. Summary
// and recognition sections use it.
func extractList(lines []string) []string {
	var out []string
	for _, line := range lines {
		if isRule(line) {
			continue
		}
		if text := cleanText(stripBullet(line)); text != "" {
			out = append(out, text)
		}
	}
	return out
}
