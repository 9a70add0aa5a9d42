package parse

import "strings"

// repairExperiences fixes entries whose header line was only partly
// understood. It returns the indexes of the entries it changed.
func repairExperiences(drafts []entryDraft) ([]entryDraft, []int) {
	var repaired []int
	out := drafts[:0]
	for _, d := range drafts {
		changed := false
		if d.title == "" && strings.ContainsAny(d.company, "|,") {
			sep := ","
			if strings.Contains(d.company, "|") {
				sep = "|"
			}
			parts := splitParts(d.company, sep)
			if len(parts) >= 2 {
				d.title, d.company = parts[0], parts[1]
				if d.location == "" {
					d.location = strings.Join(parts[2:], ", ")
				}
				changed = true
			}
		}
		if d.dates == "" {
			if date, rest := cutDate(d.title); date != "" {
				d.dates, d.title = date, rest
				changed = true
			} else if date, rest := cutDate(d.company); date != "" {
				d.dates, d.company = date, rest
				changed = true
			}
		}
		d.title = tidyField(d.title)
		d.company = tidyField(d.company)
		d.location = tidyField(d.location)
		if d.empty() {
			continue
		}
		if changed {
			repaired = append(repaired, len(out))
		}
		out = append(out, d)
	}
	return out, repaired
}
