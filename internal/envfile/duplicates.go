package envfile

import "strings"

type DuplicateStatus int

const (
	DupNone DuplicateStatus = iota
	DupFirst
	DupDuplicate
)

func (s DuplicateStatus) String() string {
	switch s {
	case DupFirst:
		return "first"
	case DupDuplicate:
		return "duplicate"
	default:
		return "none"
	}
}

// NormalizeKey is the comparison form used for duplicate detection.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

func participates(e Entry) bool {
	return e.Kind == KindVariable && e.Enabled && strings.TrimSpace(e.Key) != ""
}

// Classify marks every entry id with its duplicate status. Only enabled
// variables with a non-empty key take part; keys compare case-insensitively.
// The earliest entry of a repeated key is DupFirst and the rest DupDuplicate.
func Classify(entries []Entry) map[string]DuplicateStatus {
	counts := make(map[string]int)
	for _, e := range entries {
		if participates(e) {
			counts[NormalizeKey(e.Key)]++
		}
	}

	out := make(map[string]DuplicateStatus, len(entries))
	seen := make(map[string]bool)
	for _, e := range entries {
		if !participates(e) {
			out[e.ID] = DupNone
			continue
		}
		key := NormalizeKey(e.Key)
		switch {
		case counts[key] < 2:
			out[e.ID] = DupNone
		case seen[key]:
			out[e.ID] = DupDuplicate
		default:
			out[e.ID] = DupFirst
			seen[key] = true
		}
	}
	return out
}

// DuplicateGroup lists the entries sharing one normalized key.
type DuplicateGroup struct {
	Key     string
	Entries []Entry
}

// DuplicateGroups returns every repeated key in order of first appearance.
func DuplicateGroups(entries []Entry) []DuplicateGroup {
	var order []string
	groups := make(map[string][]Entry)
	for _, e := range entries {
		if !participates(e) {
			continue
		}
		key := NormalizeKey(e.Key)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e)
	}

	var out []DuplicateGroup
	for _, key := range order {
		if len(groups[key]) > 1 {
			out = append(out, DuplicateGroup{Key: strings.TrimSpace(groups[key][0].Key), Entries: groups[key]})
		}
	}
	return out
}
