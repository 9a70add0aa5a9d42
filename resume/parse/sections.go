package parse

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Section identifies which part of the resume a line belongs to.
type Section int

const (
	SectionHeader Section = iota
	SectionSummary
	SectionSkills
	SectionExperience
	SectionEducation
	SectionRecognition
)

func (s Section) String() string {
	switch s {
	case SectionHeader:
		return "header"
	case SectionSummary:
		return "summary"
	case SectionSkills:
		return "skills"
	case SectionExperience:
		return "experience"
	case SectionEducation:
		return "education"
	case SectionRecognition:
		return "recognition"
	default:
		return "unknown"
	}
}

// Canonical headings. The renderer writes these so its plain-text output
// classifies back into the same sections.
const (
	HeadingSummary     = "SUMMARY"
	HeadingSkills      = "KEY SKILLS"
	HeadingExperience  = "PROFESSIONAL EXPERIENCE"
	HeadingEducation   = "EDUCATION"
	HeadingRecognition = "RECOGNITION"
)

const (
	maxHeaderRunes      = 40
	maxExtraHeaderWords = 2
)

type sectionAlias struct {
	section  Section
	names    []string
	keywords []string
}

// Exact names are checked across all sections before any keyword, so
// "AWARDS & RECOGNITION" never falls through to a shorter match.
var sectionAliases = []sectionAlias{
	{
		section: SectionSummary,
		names: []string{HeadingSummary, "PROFESSIONAL SUMMARY", "SUMMARY OF QUALIFICATIONS", "CAREER SUMMARY",
			"PROFILE", "PROFESSIONAL PROFILE", "OBJECTIVE", "CAREER OBJECTIVE", "ABOUT ME"},
		keywords: []string{"SUMMARY", "PROFILE", "OBJECTIVE"},
	},
	{
		section: SectionSkills,
		names: []string{HeadingSkills, "SKILLS", "TECHNICAL SKILLS", "CORE SKILLS", "CORE COMPETENCIES",
			"COMPETENCIES", "AREAS OF EXPERTISE", "SKILLS & TOOLS"},
		keywords: []string{"SKILLS", "COMPETENCIES", "EXPERTISE"},
	},
	{
		section: SectionExperience,
		names: []string{HeadingExperience, "EXPERIENCE", "WORK EXPERIENCE", "RELEVANT EXPERIENCE",
			"WORK HISTORY", "EMPLOYMENT HISTORY", "EMPLOYMENT", "CAREER HISTORY"},
		keywords: []string{"EXPERIENCE", "EMPLOYMENT"},
	},
	{
		section:  SectionEducation,
		names:    []string{HeadingEducation, "EDUCATION & TRAINING", "EDUCATION AND TRAINING", "ACADEMIC BACKGROUND"},
		keywords: []string{"EDUCATION"},
	},
	{
		section: SectionRecognition,
		names: []string{HeadingRecognition, "AWARDS", "HONORS", "HONOURS", "ACHIEVEMENTS",
			"AWARDS & RECOGNITION", "AWARDS AND RECOGNITION", "AWARDS & HONORS", "AWARDS AND HONORS"},
		keywords: []string{"RECOGNITION", "AWARDS", "HONORS", "HONOURS", "ACHIEVEMENTS"},
	},
}

var headerFillerWords = map[string]bool{"AND": true, "OF": true, "THE": true, "MY": true}

// MatchHeader reports whether line is a section heading and which section it opens.
//
// A bullet-marked line is never a heading. Otherwise, after markup is removed,
// the line is a heading when it equals a known name in any letter case, or when
// it is written in capitals and a section keyword is its dominant content: no
// more than two other words and at most 40 characters.
func MatchHeader(line string) (Section, bool) {
	if isBullet(line) {
		return SectionHeader, false
	}
	text := headerText(line)
	if text == "" || utf8.RuneCountInString(text) > maxHeaderRunes {
		return SectionHeader, false
	}
	upper := strings.ToUpper(text)
	for _, alias := range sectionAliases {
		for _, name := range alias.names {
			if upper == name {
				return alias.section, true
			}
		}
	}
	if upper != text {
		return SectionHeader, false
	}
	words := headerWords(upper)
	if len(words) == 0 || len(words)-1 > maxExtraHeaderWords {
		return SectionHeader, false
	}
	for _, alias := range sectionAliases {
		for _, kw := range alias.keywords {
			for _, w := range words {
				if w == kw {
					return alias.section, true
				}
			}
		}
	}
	return SectionHeader, false
}

func headerText(line string) string {
	text := stripMarkup(line)
	text = strings.TrimRight(text, ": ")
	return strings.Join(strings.Fields(text), " ")
}

func headerWords(upper string) []string {
	fields := strings.FieldsFunc(upper, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := fields[:0]
	for _, f := range fields {
		if headerFillerWords[f] {
			continue
		}
		words = append(words, f)
	}
	return words
}

// Classifier is the section state machine. It starts in the header section
// and moves only when a heading line is seen; heading lines themselves are
// consumed and never handed to an extractor.
type Classifier struct {
	current Section
	seen    []Section
}

// NewClassifier returns a classifier positioned at the header section.
func NewClassifier() *Classifier {
	return &Classifier{current: SectionHeader}
}

// Current returns the active section.
func (c *Classifier) Current() Section {
	return c.current
}

// Seen returns the sections whose headings were encountered, in order.
func (c *Classifier) Seen() []Section {
	return append([]Section(nil), c.seen...)
}

// Step consumes one normalized line and returns the section it belongs to.
// The boolean is true when the line was a heading.
func (c *Classifier) Step(line string) (Section, bool) {
	if section, ok := MatchHeader(line); ok {
		c.current = section
		c.seen = append(c.seen, section)
		return section, true
	}
	return c.current, false
}
