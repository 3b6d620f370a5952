// normalize.go implements the rule-based transliterator an Index persists
// as a string and must reproduce exactly on every open. The rule grammar
// is a small subset of ICU transliterator rule syntax: a
// semicolon-separated sequence of steps, each either
//
//	:: FORM ;                 a Unicode normalization form (NFD/NFC/NFKD/NFKC)
//	:: Lower ; / :: Upper ;   case folding
//	:: [:Category:] Remove ;  delete every rune in a general category
//	a > b ;                   a single-character 1:1 mapping
//
// No Go library implements ICU transliterator rules without cgo, so this
// is a small hand-written interpreter built on golang.org/x/text/unicode/norm
// for the normalization-form steps, which covers the common case of
// "strip diacritics, then fold case" sort keys.
package dict

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// normStep is one compiled step of a transliterator pipeline.
type normStep interface {
	apply(s string) string
}

type normFormStep struct{ form norm.Form }

func (s normFormStep) apply(in string) string { return s.form.String(in) }

type caseStep struct{ upper bool }

func (s caseStep) apply(in string) string {
	if s.upper {
		return strings.ToUpper(in)
	}
	return strings.ToLower(in)
}

type removeCategoryStep struct{ table *unicode.RangeTable }

func (s removeCategoryStep) apply(in string) string {
	var b strings.Builder
	b.Grow(len(in))
	for _, r := range in {
		if !unicode.Is(s.table, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type mapStep struct{ from, to rune }

func (s mapStep) apply(in string) string {
	return strings.Map(func(r rune) rune {
		if r == s.from {
			return s.to
		}
		return r
	}, in)
}

// Normalizer applies a compiled transliterator pipeline. It holds no
// mutable state after construction, so it's safe to share across readers.
type Normalizer struct {
	rules string
	steps []normStep
}

// NewNormalizer compiles a rule string into a pipeline. An empty rule
// string produces an identity normalizer.
func NewNormalizer(rules string) (*Normalizer, error) {
	n := &Normalizer{rules: rules}
	for _, raw := range strings.Split(rules, ";") {
		step := strings.TrimSpace(raw)
		if step == "" {
			continue
		}
		compiled, err := compileRuleStep(step)
		if err != nil {
			return nil, fmt.Errorf("dict: normalizer rule %q: %w", step, err)
		}
		n.steps = append(n.steps, compiled)
	}
	return n, nil
}

// Normalize applies every compiled step to s in order, producing the
// language-neutral sort key used for collator comparison and binary
// search. Each normalization-form, case and category-removal step's output
// is a fixed point of that step (NFC of NFC is NFC, lowercasing a
// lowercased string is a no-op, and a category already removed stays
// removed), so rule strings such as ":: NFD ; :: [:Mn:] Remove ; :: NFC ;
// :: Lower ;" give an idempotent Normalize. Chained character mappings
// can break idempotence: with "b > c ; a > b", "a" normalizes to "b" but
// "b" normalizes to "c".
func (n *Normalizer) Normalize(s string) string {
	for _, step := range n.steps {
		s = step.apply(s)
	}
	return s
}

// Rules returns the rule string this normalizer was compiled from, for
// persisting on an Index.
func (n *Normalizer) Rules() string {
	return n.rules
}

func compileRuleStep(step string) (normStep, error) {
	step = strings.TrimPrefix(step, "::")
	step = strings.TrimSpace(step)

	switch step {
	case "NFD":
		return normFormStep{norm.NFD}, nil
	case "NFC":
		return normFormStep{norm.NFC}, nil
	case "NFKD":
		return normFormStep{norm.NFKD}, nil
	case "NFKC":
		return normFormStep{norm.NFKC}, nil
	case "Lower":
		return caseStep{upper: false}, nil
	case "Upper":
		return caseStep{upper: true}, nil
	}

	if rest, ok := trimRemoveCategory(step); ok {
		table, ok := unicodeCategory(rest)
		if !ok {
			return nil, fmt.Errorf("unknown unicode category %q", rest)
		}
		return removeCategoryStep{table: table}, nil
	}

	if from, to, ok := parseCharMapping(step); ok {
		return mapStep{from: from, to: to}, nil
	}

	return nil, fmt.Errorf("unrecognized rule step")
}

// trimRemoveCategory matches "[:Xx:] Remove" and returns "Xx".
func trimRemoveCategory(step string) (string, bool) {
	if !strings.HasSuffix(step, "Remove") {
		return "", false
	}
	body := strings.TrimSpace(strings.TrimSuffix(step, "Remove"))
	if !strings.HasPrefix(body, "[:") || !strings.HasSuffix(body, ":]") {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(body, "[:"), ":]"), true
}

// parseCharMapping matches "a > b" (single source, single target rune).
func parseCharMapping(step string) (rune, rune, bool) {
	parts := strings.SplitN(step, ">", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	from := []rune(strings.TrimSpace(parts[0]))
	to := []rune(strings.TrimSpace(parts[1]))
	if len(from) != 1 || len(to) != 1 {
		return 0, 0, false
	}
	return from[0], to[0], true
}

// unicodeCategory resolves a UTS#18-style two-letter (or one-letter)
// general-category name, e.g. "Mn" (nonspacing mark) or "L" (any letter),
// to its stdlib RangeTable.
func unicodeCategory(name string) (*unicode.RangeTable, bool) {
	if t, ok := unicode.Categories[name]; ok {
		return t, true
	}
	return nil, false
}
