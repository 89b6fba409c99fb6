// Package slug normalizes product handles, the URL-safe slugs the storefront
// uses in place of opaque product identifiers.
package slug

import (
	"regexp"
	"strings"
)

var (
	nonHandleChars = regexp.MustCompile(`[^a-z0-9]+`)
	handlePattern  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

var latinFold = strings.NewReplacer(
	"à", "a", "á", "a", "â", "a", "ä", "a", "ã", "a", "å", "a",
	"ç", "c",
	"è", "e", "é", "e", "ê", "e", "ë", "e",
	"ì", "i", "í", "i", "î", "i", "ï", "i", "ı", "i",
	"ñ", "n",
	"ò", "o", "ó", "o", "ô", "o", "ö", "o", "õ", "o", "ø", "o",
	"ù", "u", "ú", "u", "û", "u", "ü", "u",
	"ğ", "g", "ş", "s", "ß", "ss",
)

// Normalize turns user input into handle form.
//
// Examples:
//   - "Eco-Friendly Yoga Mat" → "eco-friendly-yoga-mat"
//   - "  crème brûlée  " → "creme-brulee"
//   - "mat--XL" → "mat-xl"
func Normalize(s string) string {
	h := strings.ToLower(strings.TrimSpace(s))
	h = latinFold.Replace(h)
	h = nonHandleChars.ReplaceAllString(h, "-")
	return strings.Trim(h, "-")
}

// Valid reports whether s is already a well-formed handle.
func Valid(s string) bool {
	return handlePattern.MatchString(s)
}
