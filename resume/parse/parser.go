// Package parse turns unstructured resume text into a record.Record.
//
// Parsing is total: any input, including the empty string, produces a fully
// populated record. Fields that could not be recovered carry the placeholder
// values from package record, and ParseWithReport says which ones.
package parse

import (
	"fmt"

	"matchrate-backend/resume/record"
)

// Parse converts raw resume text into a structured record.
func Parse(text string) record.Record {
	rec, _ := ParseWithReport(text)
	return rec
}

// ParseWithReport is Parse plus a report of detected sections and warnings.
func ParseWithReport(text string) (rec record.Record, report Report) {
	defer func() {
		if r := recover(); r != nil {
			rec = record.Record{}.WithDefaults()
			report = Report{Sections: []string{}}
			report.warn(WarnRecovered, "", "parser recovered from %v", r)
		}
	}()

	p := newParser()
	for _, line := range Normalize(text) {
		p.feed(line)
	}
	return p.finish()
}

// parser holds the per-call state: the section classifier and the lines
// collected for each section.
type parser struct {
	classifier *Classifier
	lines      map[Section][]string
}

func newParser() *parser {
	return &parser{
		classifier: NewClassifier(),
		lines:      make(map[Section][]string),
	}
}

func (p *parser) feed(line string) {
	section, heading := p.classifier.Step(line)
	if heading {
		return
	}
	p.lines[section] = append(p.lines[section], line)
}

func (p *parser) finish() (record.Record, Report) {
	report := Report{Sections: []string{}, Warnings: []Warning{}}
	seen := make(map[Section]bool)
	for _, s := range p.classifier.Seen() {
		if !seen[s] {
			report.Sections = append(report.Sections, s.String())
		}
		seen[s] = true
	}
	if len(report.Sections) == 0 {
		report.warn(WarnNoSections, "", "no section headings found")
	}

	var rec record.Record
	rec.Name, rec.Contact = extractHeader(p.lines[SectionHeader])
	rec.Summary = extractList(p.lines[SectionSummary])
	rec.Skills = extractSkills(p.lines[SectionSkills])

	drafts, repaired := repairExperiences(splitExperience(p.lines[SectionExperience]))
	for _, i := range repaired {
		report.warn(WarnEntryRepaired, fmt.Sprintf("experiences[%d]", i), "entry header re-split after extraction")
	}
	for i, d := range drafts {
		field := fmt.Sprintf("experiences[%d]", i)
		if d.dates == "" {
			report.warn(WarnEntryMissingDates, field+".dates", "no dates found for entry")
		}
		if d.title == "" {
			report.warn(WarnEntryMissingTitle, field+".title", "no title found for entry")
		}
	}
	rec.Experiences = toExperiences(drafts)
	rec.Education = extractEducation(p.lines[SectionEducation])
	if seen[SectionRecognition] {
		rec.Recognition = extractList(p.lines[SectionRecognition])
		if rec.Recognition == nil {
			rec.Recognition = []string{}
		}
	}

	if rec.Name == "" {
		report.warn(WarnNameDefaulted, "name", "name not found")
	}
	if len(rec.Summary) == 0 {
		report.warn(WarnSummaryDefaulted, "summary", "summary not found")
	}
	if len(rec.Skills) == 0 {
		report.warn(WarnSkillsDefaulted, "skills", "skills not found")
	}
	if len(rec.Experiences) == 0 {
		report.warn(WarnExperienceDefaulted, "experiences", "experience not found")
	}
	if len(rec.Education) == 0 {
		report.warn(WarnEducationDefaulted, "education", "education not found")
	}
	return rec.WithDefaults(), report
}
