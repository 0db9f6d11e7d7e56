package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlugChars = regexp.MustCompile("[^a-z0-9]+")

const maxSlugAttempts = 1000

// GenerateSlug lowercases text, strips diacritics and joins words with dashes.
func GenerateSlug(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	text, _, _ = transform.String(t, text)

	text = strings.ToLower(text)
	text = nonSlugChars.ReplaceAllString(text, "-")

	return strings.Trim(text, "-")
}

// UniqueSlug appends -1, -2, ... to base until taken reports false.
func UniqueSlug(base string, taken func(string) (bool, error)) (string, error) {
	if base == "" {
		return "", fmt.Errorf("slug base is empty")
	}

	candidate := base
	for i := 1; i <= maxSlugAttempts; i++ {
		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}

	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxSlugAttempts)
}
