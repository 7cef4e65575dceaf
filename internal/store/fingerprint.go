package store

import (
	"sort"
	"strings"

	"github.com/spec-kit/overseer/internal/domain"
)

// fingerprint key terms are capped so near-identical subjects collide.
const maxFingerprintTerms = 4

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "from": {}, "in": {}, "is": {}, "it": {}, "my": {}, "not": {},
	"of": {}, "on": {}, "or": {}, "the": {}, "to": {}, "with": {},
}

// Fingerprint derives a deterministic lookup key from a ticket's category
// and subject terms. Identical problems produce identical fingerprints, so
// resolutions written by concurrent runs overwrite rather than accumulate.
func Fingerprint(category domain.TicketCategory, subject string) string {
	terms := keyTerms(subject)
	if len(terms) == 0 {
		return string(category)
	}
	return string(category) + ":" + strings.Join(terms, "-")
}

func keyTerms(subject string) []string {
	fields := strings.FieldsFunc(strings.ToLower(subject), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 3 {
			continue
		}
		if _, skip := stopwords[f]; skip {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}

	sort.Strings(terms)
	if len(terms) > maxFingerprintTerms {
		terms = terms[:maxFingerprintTerms]
	}
	return terms
}
