package eventlog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalizer maps raw activity labels onto the canonical activity namespace.
//
// Two models are only comparable when both logs went through the same
// normalization, so all readers share this one implementation:
//   - lowercase (Unicode-aware, language-neutral)
//   - whitespace trimmed and runs collapsed to single spaces
//   - state/transition prefixes stripped, merging the two label kinds of
//     formalisms that distinguish them into one flat activity set
//
// Labels that normalize to the empty string or to a reserved sentinel are
// rejected rather than repaired.
type Normalizer struct {
	lower cases.Caser
}

// NewNormalizer returns a Normalizer using language-neutral case folding.
func NewNormalizer() *Normalizer {
	return &Normalizer{lower: cases.Lower(language.Und)}
}

// Prefixes that mark the label kind in sources distinguishing states from
// transitions. Checked after case folding, longest first.
var labelKindPrefixes = []string{"state:", "transition:", "s:", "t:"}

// Normalize canonicalizes a raw activity label.
func (n *Normalizer) Normalize(label string) (string, error) {
	s := n.lower.String(label)
	s = strings.Join(strings.Fields(s), " ")
	for _, p := range labelKindPrefixes {
		if strings.HasPrefix(s, p) {
			s = strings.TrimSpace(strings.TrimPrefix(s, p))
			break
		}
	}
	if s == "" {
		return "", fmt.Errorf("activity label %q is empty after normalization", label)
	}
	if strings.EqualFold(s, StartActivity) || strings.EqualFold(s, EndActivity) {
		return "", fmt.Errorf("activity label %q collides with reserved sentinel %q", label, strings.ToUpper(s))
	}
	return s, nil
}
