package domain

import (
	"strings"
	"unicode"
)

// slugWords are characters that normalize to a word of their own rather
// than disappearing. They cover the game's special glyphs.
var slugWords = map[rune]string{
	'*': "star",
	'?': "question",
	'δ': "delta",
	'♀': "f",
	'♂': "m",
}

// slugLetters are accented characters folded to plain ASCII.
var slugLetters = map[rune]rune{
	'é': 'e',
	'É': 'e',
}

// Slugify derives the machine identifier for a display name. It is pure
// and stable: identifiers are the basis of deduplication, so any rule
// change is a breaking schema change requiring a full re-import.
func Slugify(name string) string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for _, r := range name {
		r = unicode.ToLower(r)
		if folded, ok := slugLetters[r]; ok {
			r = folded
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			cur.WriteRune(r)
		case r == '\'':
			// Dropped without breaking the word: Misty's → mistys.
		default:
			flush()
			if w, ok := slugWords[r]; ok {
				words = append(words, w)
			}
		}
	}
	flush()
	return strings.Join(words, "-")
}

// FamilyIdent derives the family identifier for a card name. On top of
// Slugify it applies the family grouping exceptions: every Unown variant
// ("Unown A", "Unown !", ...) belongs to the single unown family.
func FamilyIdent(name string) string {
	slug := Slugify(name)
	if slug == "unown" || strings.HasPrefix(slug, "unown-") {
		return "unown"
	}
	return slug
}
