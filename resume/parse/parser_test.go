package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchrate-backend/resume/record"
)

const sampleResume = `Jane Doe
jane@example.com | (555) 123-4567
________________
SUMMARY
Seasoned engineer with ten years of experience.
KEY SKILLS
Python, SQL; Excel
• Leadership
PROFESSIONAL EXPERIENCE
Senior Engineer | Acme Corp | 01/2020 - 03/2023
• Built X
Lead Engineer | Beta Inc | 03/2023 - Present
• Led Y
EDUCATION
Bachelor of Science, Computer Science
State University
AWARDS
• Employee of the Year 2021
`

func TestParseSample(t *testing.T) {
	rec, report := ParseWithReport(sampleResume)

	assert.Equal(t, "Jane Doe", rec.Name)
	assert.Equal(t, "jane@example.com | (555) 123-4567", rec.Contact)
	assert.Equal(t, []string{"Seasoned engineer with ten years of experience."}, rec.Summary)
	assert.Equal(t, []string{"Python", "SQL", "Excel", "Leadership"}, rec.Skills)

	require.Len(t, rec.Experiences, 2)
	assert.Equal(t, "Senior Engineer", rec.Experiences[0].Title)
	assert.Equal(t, "Acme Corp", rec.Experiences[0].Company)
	assert.Equal(t, "01/2020 - 03/2023", rec.Experiences[0].Dates)
	assert.Equal(t, []string{"Built X"}, rec.Experiences[0].Bullets)
	assert.Equal(t, "Lead Engineer", rec.Experiences[1].Title)
	assert.Equal(t, "Beta Inc", rec.Experiences[1].Company)
	assert.Equal(t, "03/2023 - Present", rec.Experiences[1].Dates)
	assert.Equal(t, []string{"Led Y"}, rec.Experiences[1].Bullets)
	assert.Nil(t, rec.Experiences[0].Location)

	assert.Equal(t, []string{"Bachelor of Science, Computer Science State University"}, rec.Education)
	assert.Equal(t, []string{"Employee of the Year 2021"}, rec.Recognition)

	assert.Equal(t, []string{"summary", "skills", "experience", "education", "recognition"}, report.Sections)
	assert.Empty(t, report.Warnings)
	assert.Equal(t, 1.0, report.Confidence())
}

func TestParseIsTotal(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\r\n",
		"•",
		"|||",
		"SUMMARY",
		"PROFESSIONAL EXPERIENCE\n• orphan bullet",
		"EDUCATION\n\n\n",
		strings.Repeat("lorem ipsum | 2020 - 2021\n", 200),
		"\x00\xff\xfe garbage",
	}
	for _, in := range inputs {
		rec := Parse(in)
		assert.NotEmpty(t, rec.Name, "input %q", in)
		assert.NotEmpty(t, rec.Summary, "input %q", in)
		assert.NotEmpty(t, rec.Skills, "input %q", in)
		assert.NotEmpty(t, rec.Experiences, "input %q", in)
		assert.NotEmpty(t, rec.Education, "input %q", in)
	}
}

func TestParseEmptyUsesPlaceholders(t *testing.T) {
	rec, report := ParseWithReport("")

	assert.Equal(t, record.PlaceholderName, rec.Name)
	assert.Equal(t, []string{record.PlaceholderSummary}, rec.Summary)
	assert.Equal(t, []string{record.PlaceholderSkill}, rec.Skills)
	assert.Equal(t, []record.Experience{record.PlaceholderExperience()}, rec.Experiences)
	assert.Equal(t, []string{record.PlaceholderEducation}, rec.Education)
	assert.Nil(t, rec.Recognition)

	for _, code := range []string{WarnNameDefaulted, WarnSummaryDefaulted, WarnSkillsDefaulted,
		WarnExperienceDefaulted, WarnEducationDefaulted, WarnNoSections} {
		assert.True(t, report.Has(code), code)
	}
	assert.Equal(t, 0.0, report.Confidence())
}

func TestParseSectionIsolation(t *testing.T) {
	text := "Jane Doe\nKEY SKILLS\nGolang\nKubernetes\nEDUCATION\nMIT 2010"
	rec := Parse(text)

	assert.Equal(t, []string{"Golang", "Kubernetes"}, rec.Skills)
	assert.Equal(t, []string{"MIT 2010"}, rec.Education)
	assert.NotContains(t, rec.Summary, "Golang")
	assert.Empty(t, rec.Contact)
	for _, exp := range rec.Experiences {
		assert.NotContains(t, exp.Bullets, "Golang")
	}
}

func TestParseRecognitionPresence(t *testing.T) {
	assert.Nil(t, Parse("Jane Doe\nSUMMARY\nHello").Recognition)

	rec := Parse("Jane Doe\nRECOGNITION")
	assert.NotNil(t, rec.Recognition)
	assert.Empty(t, rec.Recognition)
}

func TestParseMarkupHeadings(t *testing.T) {
	text := strings.Join([]string{
		"**Jane Doe**",
		"**[SUMMARY]{.underline}**",
		"Builds things.",
		"**KEY SKILLS**{.underline}",
		"Go, Rust",
	}, "\n")
	rec := Parse(text)

	assert.Equal(t, "Jane Doe", rec.Name)
	assert.Equal(t, []string{"Builds things."}, rec.Summary)
	assert.Equal(t, []string{"Go", "Rust"}, rec.Skills)
}

func TestParseHeaderSkipsUnderscoreLines(t *testing.T) {
	rec := Parse("____\nJane Doe\n_____\nAustin, TX\njane@example.com\nSUMMARY\nx")

	assert.Equal(t, "Jane Doe", rec.Name)
	assert.Equal(t, "Austin, TX | jane@example.com", rec.Contact)
}

func TestParseReportsMissingDates(t *testing.T) {
	rec, report := ParseWithReport("Jane\nEXPERIENCE\nSenior Engineer\n• Built things")

	require.Len(t, rec.Experiences, 1)
	assert.Equal(t, "Senior Engineer", rec.Experiences[0].Title)
	assert.Empty(t, rec.Experiences[0].Dates)
	assert.True(t, report.Has(WarnEntryMissingDates))
}
