package bank

import (
	"regexp"
	"strings"
)

// UnknownGrade is the label used when no grade can be determined.
const UnknownGrade = "Unknown Grade"

var gradePattern = regexp.MustCompile(`(?i)grade[-_ ]?(\d+)`)

// DetectGrade derives a grade label from a bank id or file name, e.g.
// "grade8-html-basics" -> "Grade 8".
func DetectGrade(name string) string {
	m := gradePattern.FindStringSubmatch(name)
	if m == nil {
		return UnknownGrade
	}
	n := strings.TrimLeft(m[1], "0")
	if n == "" {
		n = "0"
	}
	return "Grade " + n
}

// ResolveGrade picks the grade label for a quiz: an explicit override wins,
// then the bank's declared grade, then the grade detected from its id.
func ResolveGrade(override string, b *Bank) string {
	if g := strings.TrimSpace(override); g != "" {
		return g
	}
	if b != nil && b.Grade != "" {
		return b.Grade
	}
	if b != nil {
		return DetectGrade(b.ID)
	}
	return UnknownGrade
}
