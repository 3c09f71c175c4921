package normalization

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NameCleaner produces the canonical comparison key for a supplier name.
// Cleaning is deterministic and idempotent: Clean(Clean(x)) == Clean(x).
type NameCleaner struct{}

// NewNameCleaner creates a new name cleaner.
func NewNameCleaner() *NameCleaner {
	return &NameCleaner{}
}

var (
	// Alias markers like "dba" and "c/o" introduce alternate or in-care-of
	// names and carry no identity signal.
	aliasMarkerRe = regexp.MustCompile(`(?i)\b(dba|d/b/a|aka|a/k/a|fka|f/k/a|c/o|attn)\b`)

	// Anything outside letters, digits, whitespace and hyphens becomes a space.
	nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)

	// Standalone short numeric tokens (store numbers, branch codes).
	shortDigitsRe = regexp.MustCompile(`\b\d{1,3}\b`)

	numericOnlyRe = regexp.MustCompile(`^[\d\s.,/-]+$`)

	// NFKD decomposition followed by removal of combining marks folds
	// accented letters to their ASCII base.
	accentFolder = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Clean normalizes a raw supplier name into its comparison key.
// Unusable input (empty, numeric-only, shorter than 2 characters) yields "".
func (nc *NameCleaner) Clean(raw string) string {
	name := strings.TrimSpace(raw)
	if len(name) < 2 || numericOnlyRe.MatchString(name) {
		return ""
	}

	if folded, _, err := transform.String(accentFolder, name); err == nil {
		name = folded
	}

	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "&", " and ")
	name = aliasMarkerRe.ReplaceAllString(name, " ")
	name = nonWordRe.ReplaceAllString(name, " ")
	name = shortDigitsRe.ReplaceAllString(name, " ")
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}

	tokens := strings.Fields(name)
	tokens = stripTrailingSuffixes(tokens)
	tokens = stripLeadingFillers(tokens)

	return strings.Join(tokens, " ")
}

// stripTrailingSuffixes removes the run of legal-form suffixes at the end of
// the token list. At least one token always survives.
func stripTrailingSuffixes(tokens []string) []string {
	for len(tokens) > 1 && legalSuffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// stripLeadingFillers removes the run of filler words and titles at the start
// of the token list. At least one token always survives.
func stripLeadingFillers(tokens []string) []string {
	for len(tokens) > 1 && stripPrefixWords[tokens[0]] {
		tokens = tokens[1:]
	}
	return tokens
}
