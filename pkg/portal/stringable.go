package portal

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Stringable struct {
	value string
}

func MakeStringable(value string) *Stringable {
	return &Stringable{
		value: strings.TrimSpace(value),
	}
}

func (s Stringable) ToLower() string {
	caser := cases.Lower(language.English)

	return strings.TrimSpace(caser.String(s.value))
}

// FoldDiacritics strips combining marks so accented characters map onto their
// plain ASCII base ("Café" -> "Cafe").
func (s Stringable) FoldDiacritics() string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	folded, _, err := transform.String(chain, s.value)
	if err != nil {
		return s.value
	}

	return folded
}

// Slugify derives a lowercase, URL-safe identifier from a title. The result
// only contains [a-z0-9-]: diacritics are folded, whitespace runs collapse to
// a single hyphen, and everything else is dropped. Entries in disallow are
// removed verbatim before normalisation. Same input, same output.
func Slugify(title string, disallow ...string) string {
	value := MakeStringable(title).FoldDiacritics()

	for _, chunk := range disallow {
		if chunk == "" {
			continue
		}

		value = strings.ReplaceAll(value, chunk, "")
	}

	lower := cases.Lower(language.English).String(value)

	var out strings.Builder
	pendingHyphen := false

	for _, r := range lower {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingHyphen && out.Len() > 0 {
				out.WriteByte('-')
			}

			pendingHyphen = false
			out.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingHyphen = true
		default:
			// punctuation and symbols are dropped without leaving a hyphen
		}
	}

	return out.String()
}

// ExcerptFrom truncates a paragraph to limit runes, appending an ellipsis
// marker when truncation occurred.
func ExcerptFrom(paragraph string, limit int) string {
	trimmed := strings.TrimSpace(paragraph)

	if limit <= 0 {
		return trimmed
	}

	chars := []rune(trimmed)
	if len(chars) <= limit {
		return trimmed
	}

	return string(chars[:limit]) + "..."
}
