package parse

import (
	"regexp"
	"strings"
)

// headerFields holds what could be read from one job header line.
type headerFields struct {
	title    string
	company  string
	location string
	dates    string
}

func (f headerFields) empty() bool {
	return f.title == "" && f.company == "" && f.location == "" && f.dates == ""
}

// headerLine is the working state a rule operates on.
type headerLine struct {
	rest   string
	fields headerFields
}

// fieldRule is one step of header-line extraction. Rules run in table order;
// a matching final rule ends the pass.
type fieldRule struct {
	name  string
	match func(h *headerLine) bool
	apply func(h *headerLine)
	final bool
}

var rolePattern = regexp.MustCompile(`(?i)\b(?:engineer|developer|manager|director|lead|leader|analyst|consultant|` +
	`specialist|intern|architect|designer|scientist|officer|president|vp|head|coordinator|administrator|associate|` +
	`assistant|executive|founder|co-founder|owner|programmer|technician|supervisor|representative|advisor|adviser|` +
	`strategist|researcher|accountant|teacher|nurse|principal|chief|cto|ceo|cfo|coo|partner|contractor|freelancer|` +
	`editor|writer|recruiter|trainer|instructor|professor|fellow|agent|clerk|operator|planner|producer|marketer|sre)s?\b`)

var atSeparator = regexp.MustCompile(`(?i)\s+(?:at|@)\s+`)

var dashSeparator = regexp.MustCompile(`\s+[-–—]\s+`)

func hasRole(s string) bool {
	return rolePattern.MatchString(s)
}

// headerRules lists the extraction rules in precedence order.
var headerRules = []fieldRule{
	{
		name:  "date-range",
		match: func(h *headerLine) bool { return h.fields.dates == "" && dateRangePattern.MatchString(h.rest) },
		apply: takeDate,
	},
	{
		name:  "single-date",
		match: func(h *headerLine) bool { return h.fields.dates == "" && singleDatePattern.MatchString(h.rest) },
		apply: takeDate,
	},
	{
		name:  "pipe-split",
		match: func(h *headerLine) bool { return strings.Contains(h.rest, "|") },
		apply: func(h *headerLine) { assignParts(h, splitParts(h.rest, "|")) },
		final: true,
	},
	{
		name:  "at-split",
		match: func(h *headerLine) bool { return atSeparator.MatchString(h.rest) },
		apply: func(h *headerLine) {
			parts := atSeparator.Split(h.rest, 2)
			h.fields.title = tidyField(parts[0])
			company := splitParts(parts[1], ",")
			if len(company) > 0 {
				h.fields.company = company[0]
				h.fields.location = strings.Join(company[1:], ", ")
			}
		},
		final: true,
	},
	{
		name:  "comma-split",
		match: func(h *headerLine) bool { return strings.Contains(h.rest, ",") },
		apply: func(h *headerLine) { assignParts(h, splitParts(h.rest, ",")) },
		final: true,
	},
	{
		name:  "dash-split",
		match: func(h *headerLine) bool { return dashSeparator.MatchString(h.rest) },
		apply: func(h *headerLine) { assignParts(h, tidyParts(dashSeparator.Split(h.rest, -1))) },
		final: true,
	},
	{
		name:  "single-part",
		match: func(h *headerLine) bool { return h.rest != "" },
		apply: func(h *headerLine) { assignParts(h, []string{h.rest}) },
		final: true,
	},
}

func takeDate(h *headerLine) {
	h.fields.dates, h.rest = cutDate(h.rest)
}

// readHeaderLine runs the rule table over a single non-bullet experience line.
func readHeaderLine(line string) headerFields {
	h := &headerLine{rest: tidyField(cleanText(line))}
	for _, rule := range headerRules {
		if !rule.match(h) {
			continue
		}
		rule.apply(h)
		if rule.final {
			break
		}
	}
	return h.fields
}

// assignParts maps split parts onto title, company and location. With two or
// more parts the first is the title unless only the second names a role. A
// lone part is a title when it names a role and a company otherwise.
func assignParts(h *headerLine, parts []string) {
	switch len(parts) {
	case 0:
		return
	case 1:
		if hasRole(parts[0]) {
			h.fields.title = parts[0]
		} else {
			h.fields.company = parts[0]
		}
		return
	}
	first, second := parts[0], parts[1]
	if !hasRole(first) && hasRole(second) {
		first, second = second, first
	}
	h.fields.title = first
	h.fields.company = second
	h.fields.location = strings.Join(parts[2:], ", ")
}

func splitParts(s, sep string) []string {
	return tidyParts(strings.Split(s, sep))
}

func tidyParts(raw []string) []string {
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = tidyField(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
