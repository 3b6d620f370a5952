// collate.go wraps golang.org/x/text/collate and golang.org/x/text/language
// to give each Index a language- and strength-aware comparator, the way the
// format's sort order is actually defined: not byte order, but
// "collator(sortLanguage).compare(normalize(a), normalize(b))".
package dict

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CollationStrength mirrors the ICU/Java Collator strength levels the
// stored sort language tags encode as a "-u-ks-levelN" BCP-47 extension.
type CollationStrength int

const (
	// StrengthPrimary ignores case and diacritics (base letter only).
	StrengthPrimary CollationStrength = 1
	// StrengthSecondary additionally distinguishes diacritics.
	StrengthSecondary CollationStrength = 2
	// StrengthTertiary additionally distinguishes case. This is the
	// format's default when a tag carries no explicit level.
	StrengthTertiary CollationStrength = 3
	// StrengthQuaternary additionally distinguishes punctuation.
	StrengthQuaternary CollationStrength = 4
)

// parseSortLanguage splits the stored ISO language string into a
// golang.org/x/text/language.Tag and the collation strength encoded on it
// as a "-u-ks-levelN" Unicode locale extension, e.g. "en-u-ks-level1" for
// a case- and diacritic-insensitive English index.
func parseSortLanguage(iso string) (language.Tag, CollationStrength, error) {
	tag, err := language.Parse(iso)
	if err != nil {
		return language.Und, 0, fmt.Errorf("%w: sort language %q: %v", ErrUnsupportedLanguage, iso, err)
	}

	strength := StrengthTertiary
	if ks, ok := tag.Extension('u'); ok {
		for _, field := range strings.Split(string(ks), "-") {
			if !strings.HasPrefix(field, "level") {
				continue
			}
			if n, err := strconv.Atoi(strings.TrimPrefix(field, "level")); err == nil {
				strength = CollationStrength(n)
			}
		}
	}
	return tag, strength, nil
}

// newCollator builds a *collate.Collator for the given language tag and
// strength, ready to compare normalized tokens.
func newCollator(tag language.Tag, strength CollationStrength) *collate.Collator {
	var opt collate.Option
	switch strength {
	case StrengthPrimary:
		opt = collate.Strength(collate.Primary)
	case StrengthSecondary:
		opt = collate.Strength(collate.Secondary)
	case StrengthQuaternary:
		opt = collate.Strength(collate.Quaternary)
	default:
		opt = collate.Strength(collate.Tertiary)
	}
	return collate.New(tag, opt)
}

// collatorFor is the entry point openIndex uses: parse the stored sort
// language, build the matching collator.
func collatorFor(iso string) (*collate.Collator, language.Tag, error) {
	tag, strength, err := parseSortLanguage(iso)
	if err != nil {
		return nil, language.Und, err
	}
	return newCollator(tag, strength), tag, nil
}
