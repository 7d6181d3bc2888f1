package coach

import "strings"

// MergeKeywords splits the model's comma-separated keyword reply,
// trims each token, and returns the entries not already present in
// existing. Matching is case-sensitive exact equality, both against the
// existing set and when deduplicating among the new tokens, so "rice"
// and "Rice" are distinct candidates. Pure function; persisting the
// union is the caller's job.
func MergeKeywords(raw string, existing []string) []string {
	existingSet := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		existingSet[e] = struct{}{}
	}

	var newEntries []string
	seen := make(map[string]struct{})
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if _, ok := existingSet[token]; ok {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		newEntries = append(newEntries, token)
	}
	return newEntries
}
