package category

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"wecamp-service/internal/domain/category"
	"wecamp-service/internal/pkg/slug"
)

// BestMatch picks the first category matching query by, in order: exact
// slug, exact name, a shared word of two or more runes, then substring in
// either direction. It returns nil when nothing matches.
func BestMatch(cats []*category.Category, query string) *category.Category {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	qSlug := slug.Make(q)

	for _, c := range cats {
		cs := strings.ToLower(c.Slug)
		if cs == q || (qSlug != "" && cs == qSlug) {
			return c
		}
	}

	for _, c := range cats {
		if strings.ToLower(strings.TrimSpace(c.Name)) == q {
			return c
		}
	}

	qWords := words(q)
	if len(qWords) > 0 {
		for _, c := range cats {
			for w := range words(strings.ToLower(c.Name)) {
				if _, ok := qWords[w]; ok {
					return c
				}
			}
		}
	}

	for _, c := range cats {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" {
			continue
		}
		if strings.Contains(name, q) || strings.Contains(q, name) {
			return c
		}
	}
	return nil
}

func words(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if utf8.RuneCountInString(w) >= 2 {
			out[w] = struct{}{}
		}
	}
	return out
}
