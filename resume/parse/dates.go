package parse

import (
	"regexp"
	"strings"
)

const (
	monthPattern   = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`
	dateToken      = `(?:` + monthPattern + `(?:,?\s*\d{4})?|\d{1,2}/\d{2,4}|(?:19|20)\d{2})`
	openEndPattern = `(?:present|current|now|today|date)\b`
	rangeSeparator = `\s*(?:-|–|—|to|until|through)\s*`
)

var (
	// dateRangePattern covers slash dates, dash-separated years, month name
	// to month name, and any start to Present.
	dateRangePattern  = regexp.MustCompile(`(?i)\b` + dateToken + rangeSeparator + `(?:` + dateToken + `|` + openEndPattern + `)`)
	singleDatePattern = regexp.MustCompile(`(?i)\b(?:` + monthPattern + `,?\s*\d{4}|\d{1,2}/\d{4}|(?:19|20)\d{2})\b`)
	yearPattern       = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
)

// findDate returns the first date range in s, or failing that the first
// single date, together with its byte offsets.
func findDate(s string) (string, int, int) {
	if loc := dateRangePattern.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[0]:loc[1]]), loc[0], loc[1]
	}
	if loc := singleDatePattern.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[0]:loc[1]]), loc[0], loc[1]
	}
	return "", -1, -1
}

func hasDate(s string) bool {
	return dateRangePattern.MatchString(s) || singleDatePattern.MatchString(s)
}

// cutDate removes the first date from s and returns the date and the tidied remainder.
func cutDate(s string) (date, rest string) {
	date, start, end := findDate(s)
	if date == "" {
		return "", s
	}
	return date, tidyField(s[:start] + " " + s[end:])
}
