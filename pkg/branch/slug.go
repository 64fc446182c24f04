package branch

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	// SlugTitleLength is the number of title characters kept in a slug.
	SlugTitleLength = 10
	// DefaultSlug replaces slugs left empty.
	DefaultSlug = "revision"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lower-cases the first characters of title, strips accents and
// collapses every run of other characters into a single dash.
func Slug(title string) string {
	runes := []rune(title)
	if len(runes) > SlugTitleLength {
		runes = runes[:SlugTitleLength]
	}

	slug := strings.ToLower(stripMarks(string(runes)))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if slug == "" {
		return DefaultSlug
	}
	return slug
}

// stripMarks decomposes s and drops the combining marks, so "é" becomes "e".
func stripMarks(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, norm.NFKD.String(s))
}
