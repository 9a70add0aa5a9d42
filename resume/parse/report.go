package parse

import "fmt"

// Warning codes reported alongside a parsed record.
const (
	WarnNameDefaulted       = "name_defaulted"
	WarnSummaryDefaulted    = "summary_defaulted"
	WarnSkillsDefaulted     = "skills_defaulted"
	WarnExperienceDefaulted = "experience_defaulted"
	WarnEducationDefaulted  = "education_defaulted"
	WarnNoSections          = "no_sections_detected"
	WarnEntryRepaired       = "experience_repaired"
	WarnEntryMissingDates   = "experience_missing_dates"
	WarnEntryMissingTitle   = "experience_missing_title"
	WarnRecovered           = "parser_recovered"
)

// Warning flags a part of the record that was guessed or filled in.
type Warning struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Report describes how a parse went. It never changes the record.
type Report struct {
	Sections []string  `json:"sections"`
	Warnings []Warning `json:"warnings"`
}

func (r *Report) warn(code, field, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Code: code, Field: field, Message: fmt.Sprintf(format, args...)})
}

// Has reports whether a warning with the given code was raised.
func (r Report) Has(code string) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

var defaultedCodes = []string{
	WarnNameDefaulted, WarnSummaryDefaulted, WarnSkillsDefaulted, WarnExperienceDefaulted, WarnEducationDefaulted,
}

// Confidence is the share of core fields recovered from the input, from 0 to 1.
func (r Report) Confidence() float64 {
	recovered := 0
	for _, code := range defaultedCodes {
		if !r.Has(code) {
			recovered++
		}
	}
	return float64(recovered) / float64(len(defaultedCodes))
}
