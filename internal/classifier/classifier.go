// Package classifier maps free-form request text to a department using
// keyword heuristics. It is a standalone capability: the interactive flow
// assigns departments by explicit menu selection and never calls it.
package classifier

import (
	"strings"

	"github.com/spec-kit/support-router/internal/domain"
)

// Keyword sets per department, checked in order. Matching is
// case-insensitive substring search, so the same input always yields the
// same department.
var keywordSets = []struct {
	department domain.Department
	keywords   []string
}{
	{domain.DepartmentSupport, []string{"website", "payment", "error"}},
	{domain.DepartmentSales, []string{"product", "delivery", "refund"}},
}

// Detect returns the first department whose keyword set matches the text,
// or false when no keywords match.
func Detect(text string) (domain.Department, bool) {
	lowered := strings.ToLower(text)
	for _, set := range keywordSets {
		for _, keyword := range set.keywords {
			if strings.Contains(lowered, keyword) {
				return set.department, true
			}
		}
	}
	return "", false
}
