package record

import (
	"regexp"
	"strings"
)

// Placeholder values used when a section could not be recovered from the input.
const (
	PlaceholderName      = "Your Name"
	PlaceholderSummary   = "Professional summary not provided."
	PlaceholderSkill     = "Skills not provided"
	PlaceholderTitle     = "Position"
	PlaceholderCompany   = "Company"
	PlaceholderBullet    = "Responsibilities not provided."
	PlaceholderEducation = "Education details not provided."
)

// Record is the canonical structured form of a parsed resume.
type Record struct {
	Name        string       `json:"name"`
	Contact     string       `json:"contact"`
	Summary     []string     `json:"summary"`
	Skills      []string     `json:"skills"`
	Experiences []Experience `json:"experiences"`
	Education   []string     `json:"education"`
	// Recognition is nil when no recognition or awards section was detected.
	Recognition []string `json:"recognition"`
}

// Experience is a single job entry.
type Experience struct {
	Title    string   `json:"title"`
	Company  string   `json:"company"`
	Location *string  `json:"location,omitempty"`
	Dates    string   `json:"dates"`
	Bullets  []string `json:"bullets"`
}

// HasRecognition reports whether the source carried a recognition section.
func (r Record) HasRecognition() bool {
	return r.Recognition != nil
}

// WithDefaults returns a copy of r in which every required field is populated.
// Fields that already hold content are left untouched.
func (r Record) WithDefaults() Record {
	out := r
	out.Name = strings.TrimSpace(out.Name)
	if out.Name == "" {
		out.Name = PlaceholderName
	}
	if len(out.Summary) == 0 {
		out.Summary = []string{PlaceholderSummary}
	}
	if len(out.Skills) == 0 {
		out.Skills = []string{PlaceholderSkill}
	}
	if len(out.Experiences) == 0 {
		out.Experiences = []Experience{PlaceholderExperience()}
	} else {
		exps := make([]Experience, len(out.Experiences))
		for i, exp := range out.Experiences {
			exps[i] = exp.withDefaults()
		}
		out.Experiences = exps
	}
	if len(out.Education) == 0 {
		out.Education = []string{PlaceholderEducation}
	}
	return out
}

// PlaceholderExperience is the single entry used when no experience was found.
func PlaceholderExperience() Experience {
	return Experience{
		Title:   PlaceholderTitle,
		Company: PlaceholderCompany,
		Bullets: []string{PlaceholderBullet},
	}
}

func (e Experience) withDefaults() Experience {
	if strings.TrimSpace(e.Title) == "" && strings.TrimSpace(e.Company) == "" {
		e.Title = PlaceholderTitle
		e.Company = PlaceholderCompany
	}
	if e.Bullets == nil {
		e.Bullets = []string{}
	}
	return e
}

// LocationOr returns the location or fallback when unset.
func (e Experience) LocationOr(fallback string) string {
	if e.Location == nil {
		return fallback
	}
	return *e.Location
}

// StringPtr returns a pointer to a trimmed copy of s, or nil when s is blank.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ContactDetails breaks the free-form contact line into the pieces callers
// most often need. It is derived, never authoritative.
type ContactDetails struct {
	Email string   `json:"email,omitempty"`
	Phone string   `json:"phone,omitempty"`
	Links []string `json:"links,omitempty"`
}

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d{0,3}[\s.\-]?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}`)
	linkPattern  = regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?(?:linkedin\.com|github\.com|gitlab\.com)/[^\s|,]+|https?://[^\s|,]+`)
)

// Details extracts email, phone and profile links from the contact line.
func (r Record) Details() ContactDetails {
	var d ContactDetails
	contact := r.Contact
	d.Email = emailPattern.FindString(contact)
	withoutEmail := strings.Replace(contact, d.Email, " ", 1)
	for _, link := range linkPattern.FindAllString(withoutEmail, -1) {
		d.Links = append(d.Links, strings.TrimRight(link, ".;"))
		withoutEmail = strings.Replace(withoutEmail, link, " ", 1)
	}
	d.Phone = strings.TrimSpace(phonePattern.FindString(withoutEmail))
	return d
}
