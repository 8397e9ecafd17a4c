// internal/utils/slug.go
package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashRuns     = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a title into a URL-safe slug: lowercase alphanumerics
// separated by single dashes.
func Slugify(input string) string {
	slug := strings.ToLower(strings.TrimSpace(input))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	slug = slugDashRuns.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "untitled"
	}
	return slug
}

// UniqueSlug appends a short random suffix when the base slug is taken.
// exists reports whether a candidate is already in use.
func UniqueSlug(base string, exists func(string) bool) string {
	slug := Slugify(base)
	if !exists(slug) {
		return slug
	}
	for {
		suffix, err := GenerateRandomString(6)
		if err != nil {
			suffix = "x"
		}
		candidate := slug + "-" + strings.ToLower(suffix)
		if !exists(candidate) {
			return candidate
		}
	}
}
