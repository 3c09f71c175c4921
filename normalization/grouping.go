package normalization

import "strings"

// UniqueNameEntry tracks one distinct cleaned name and every raw form and
// input row it covers.
type UniqueNameEntry struct {
	Cleaned    string
	Originals  map[string]int // raw form -> occurrence count
	Indices    []int          // input row indices
	EntityType string
	Individual bool
}

// BestOriginal returns the most frequent raw form, ties broken
// alphabetically so the choice is stable across runs.
func (e *UniqueNameEntry) BestOriginal() string {
	best := ""
	bestCount := -1
	for raw, count := range e.Originals {
		if count > bestCount || (count == bestCount && raw < best) {
			best = raw
			bestCount = count
		}
	}
	return best
}

// TotalCount is the number of input rows this cleaned name represents.
func (e *UniqueNameEntry) TotalCount() int {
	return len(e.Indices)
}

const emptyGroupKey = "_empty_"

// GroupKey derives the blocking key for a cleaned name. The first token
// usually suffices; very short or overly common first tokens extend the key
// so that buckets like "american" do not balloon into mega-groups. Names
// whose keys differ are never compared, an accepted recall tradeoff that
// keeps the comparison cost linear in practice.
func GroupKey(cleaned string) string {
	if cleaned == "" {
		return emptyGroupKey
	}
	tokens := strings.Split(cleaned, " ")
	key := tokens[0]

	if len(tokens) > 1 && (len(key) <= 2 || commonFirstWords[key]) {
		key = tokens[0] + "_" + tokens[1]
	}
	if len(tokens) > 2 && len(key) <= 5 {
		key = key + "_" + tokens[2]
	}
	return key
}

// BuildGroups buckets unique name entries by blocking key. Iteration order
// over the result must be sorted by the caller when determinism matters.
func BuildGroups(entries []*UniqueNameEntry) map[string][]*UniqueNameEntry {
	groups := make(map[string][]*UniqueNameEntry)
	for _, entry := range entries {
		key := GroupKey(entry.Cleaned)
		groups[key] = append(groups[key], entry)
	}
	return groups
}
