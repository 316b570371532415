package helpers

import (
	"fmt"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var employmentLabels = map[string]string{
	"FULLTIME":   "Full-time",
	"PARTTIME":   "Part-time",
	"CONTRACTOR": "Contract",
	"INTERN":     "Internship",
}

// EmploymentTypeLabel turns a JSearch employment type into display text.
// Unknown values pass through.
func EmploymentTypeLabel(t string) string {
	if label, ok := employmentLabels[strings.ToUpper(t)]; ok {
		return label
	}
	return t
}

// FormatSalary renders "$80k - $120k" when both bounds are known, the
// free-text salary otherwise.
func FormatSalary(min, max float64, fallback string) string {
	if min > 0 && max > 0 {
		return fmt.Sprintf("$%.0fk - $%.0fk", math.Round(min/1000), math.Round(max/1000))
	}
	if fallback != "" {
		return fallback
	}
	return "Salary not specified"
}

// JobLocation renders "Remote" or "City, State" falling back to country
func JobLocation(remote bool, city, state, country string) string {
	if remote {
		return "Remote"
	}
	var parts []string
	if city != "" {
		parts = append(parts, city)
	}
	if state != "" {
		parts = append(parts, state)
	} else if country != "" {
		parts = append(parts, country)
	}
	if len(parts) == 0 {
		return "Location not specified"
	}
	return strings.Join(parts, ", ")
}

// HTMLToText flattens an HTML fragment to its text, keeping paragraph
// breaks. Plain text comes back unchanged apart from trimming.
func HTMLToText(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, li, div, h1, h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// Truncate shortens s to n runes, adding an ellipsis
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
