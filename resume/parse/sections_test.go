package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchHeader(t *testing.T) {
	tests := []struct {
		line    string
		section Section
		ok      bool
	}{
		{"SUMMARY", SectionSummary, true},
		{"Professional Summary", SectionSummary, true},
		{"KEY SKILLS", SectionSkills, true},
		{"Skills:", SectionSkills, true},
		{"TECHNICAL SKILLS & TOOLS", SectionSkills, true},
		{"PROFESSIONAL EXPERIENCE", SectionExperience, true},
		{"## Work Experience", SectionExperience, true},
		{"EDUCATION", SectionEducation, true},
		{"AWARDS & RECOGNITION", SectionRecognition, true},
		{"Awards", SectionRecognition, true},
		{"**[RECOGNITION]{.underline}**", SectionRecognition, true},
		{"• Experience leading distributed teams", SectionHeader, false},
		{"- SKILLS", SectionHeader, false},
		{"5 years experience", SectionHeader, false},
		{"Wrote the quarterly summary for leadership", SectionHeader, false},
		{"SUMMARY OF THE MANY THINGS I DID", SectionHeader, false},
		{"Jane Doe", SectionHeader, false},
		{"", SectionHeader, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.line, func(t *testing.T) {
			section, ok := MatchHeader(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.section, section)
			}
		})
	}
}

func TestClassifierIsMonotonic(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, SectionHeader, c.Current())

	steps := []struct {
		line    string
		section Section
		heading bool
	}{
		{"Jane Doe", SectionHeader, false},
		{"SKILLS", SectionSkills, true},
		{"Go", SectionSkills, false},
		{"Rust", SectionSkills, false},
		{"EDUCATION", SectionEducation, true},
		{"BSc 2012", SectionEducation, false},
	}
	for _, s := range steps {
		section, heading := c.Step(s.line)
		assert.Equal(t, s.section, section, s.line)
		assert.Equal(t, s.heading, heading, s.line)
	}
	assert.Equal(t, []Section{SectionSkills, SectionEducation}, c.Seen())
}

func TestSectionString(t *testing.T) {
	assert.Equal(t, "experience", SectionExperience.String())
	assert.Equal(t, "unknown", Section(99).String())
}
