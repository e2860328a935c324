// Package numeric extracts a single numeric value from the arbitrary text
// payloads the script endpoint returns (plain numbers, HTML fragments,
// pt-BR formatted currency).
package numeric

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
	numberPattern = regexp.MustCompile(`[-+]?\d[\d.,]*`)
)

// Extract finds the first signed number in s, resolving pt-BR versus plain
// separator conventions. It reports false when no numeric substring exists.
//
// Separator rules: both "." and "," present means "." groups thousands and
// "," is the decimal mark; a lone "," is a decimal mark; a lone "." is a
// thousands separator only when exactly three digits follow the last one.
func Extract(s string) (float64, bool) {
	s = tagPattern.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "\u00a0", " ")

	match := numberPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	match = strings.TrimRight(match, ".,")

	hasDot := strings.Contains(match, ".")
	hasComma := strings.Contains(match, ",")

	switch {
	case hasDot && hasComma:
		match = strings.ReplaceAll(match, ".", "")
		match = strings.Replace(match, ",", ".", 1)
	case hasComma:
		match = strings.Replace(match, ",", ".", 1)
	case hasDot:
		lastDot := strings.LastIndex(match, ".")
		if len(match)-lastDot-1 == 3 {
			match = strings.ReplaceAll(match, ".", "")
		}
	}

	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
