package planner

import (
	"fmt"
	"strconv"
	"strings"
)

// gradeOrder lists the valid normalized grades in display order.
var gradeOrder = []string{"KG", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}

var gradeRank = func() map[string]int {
	m := make(map[string]int, len(gradeOrder))
	for i, g := range gradeOrder {
		m[g] = i
	}
	return m
}()

// normalizeKey lower-cases and collapses whitespace, producing the
// canonical subject identity.
func normalizeKey(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

// subjectKey derives the demand identity for a subject record: the
// normalized name, falling back to the normalized code.
func subjectKey(name, code string) string {
	if key := normalizeKey(name); key != "" {
		return key
	}
	return normalizeKey(code)
}

// normalizeGradeNumber maps a numeric grade to its label. Grade 0 is
// kindergarten.
func normalizeGradeNumber(grade int) (string, bool) {
	if grade == 0 {
		return "KG", true
	}
	if grade >= 1 && grade <= 12 {
		return strconv.Itoa(grade), true
	}
	return "", false
}

// normalizeGradeLabel maps a free-form grade label ("KG", "0", "05",
// "Grade 5") to its canonical form.
func normalizeGradeLabel(raw string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "GRADE ")
	if s == "KG" || s == "0" {
		return "KG", true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return "", false
	}
	return normalizeGradeNumber(n)
}

// normalizeSectionName strips the legacy "SECTION " prefix some data
// sources carry.
func normalizeSectionName(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) > 8 && strings.EqualFold(s[:8], "SECTION ") {
		s = strings.TrimSpace(s[8:])
	}
	return s
}

// Section statuses after normalization.
const (
	StatusCurrent = "Current"
	StatusNew     = "New"
)

// normalizeStatus folds free-form class status values onto the two
// recognized states. Anything unrecognized counts as current.
func normalizeStatus(raw string) string {
	if strings.Contains(strings.ToLower(raw), "new") {
		return StatusNew
	}
	return StatusCurrent
}

// displayName joins name parts, falling back to a synthetic label.
func displayName(id int64, parts ...string) string {
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			fields = append(fields, p)
		}
	}
	if len(fields) == 0 {
		return fmt.Sprintf("Teacher #%d", id)
	}
	return strings.Join(fields, " ")
}
