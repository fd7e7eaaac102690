package validation

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coach-video-admin/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// emailRegex accepts localpart@domain.tld with a 2 to 7 letter TLD
var emailRegex = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,7}$`)

// IsValidEmail reports whether email is acceptable for a new coach account
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// InvalidEmails returns the addresses that fail IsValidEmail, in input order
func InvalidEmails(emails []string) []string {
	var invalid []string
	for _, email := range emails {
		if !IsValidEmail(email) {
			invalid = append(invalid, email)
		}
	}
	return invalid
}

// EmailErrors converts invalid addresses into job errors
func EmailErrors(invalid []string) []models.ValidationError {
	errors := make([]models.ValidationError, 0, len(invalid))
	for _, email := range invalid {
		errors = append(errors, models.ValidationError{Field: "email", Message: "invalid email format", Value: email})
	}
	return errors
}

// NormalizeEmail trims and lowercases an email
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeName trims a display name and converts it to title case.
// A Caser keeps state, so one is built per call.
func NormalizeName(name string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(name))
}

// Capitalize upper-cases the first letter and lower-cases the rest
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// FirstToken returns the first whitespace-separated word of s
func FirstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// SortedDifference returns sort(a - b) without duplicates
func SortedDifference(a []string, b map[string]bool) []string {
	seen := make(map[string]bool, len(a))
	var out []string
	for _, v := range a {
		if b[v] || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
