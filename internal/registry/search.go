package registry

import (
	"sort"
	"strings"
)

// Search scoring weights. All contributions are additive; query tokens are
// scored independently of the whole-query matches.
const (
	scoreSlugExact    = 100
	scoreSlugContains = 50
	scoreNameContains = 40
	scoreTagEqual     = 30 // per matching token
	scoreDescContains = 15
	scoreTokenSlug    = 10
	scoreTokenName    = 8
	scoreTokenTag     = 5
	scoreTokenDesc    = 3
)

// SearchResult pairs a catalog entry with its relevance score.
type SearchResult struct {
	Entry     CatalogEntry
	Score     int
	Installed bool
}

// Search ranks the index's entries against a free-text query. An empty
// query returns the first limit entries unscored, in catalog order.
// Otherwise entries scoring zero are dropped and the rest are sorted by
// descending score, catalog order breaking ties. limit <= 0 means no limit.
func Search(idx *Index, query string, limit int) []SearchResult {
	if idx == nil {
		return nil
	}

	if strings.TrimSpace(query) == "" {
		n := len(idx.Skills)
		if limit > 0 && limit < n {
			n = limit
		}
		results := make([]SearchResult, 0, n)
		for _, e := range idx.Skills[:n] {
			results = append(results, SearchResult{Entry: e})
		}
		return results
	}

	q := strings.ToLower(strings.TrimSpace(query))
	tokens := strings.Fields(q)

	var results []SearchResult
	for _, e := range idx.Skills {
		score := scoreEntry(e, q, tokens)
		if score == 0 {
			continue
		}
		results = append(results, SearchResult{Entry: e, Score: score})
	}

	// Stable: ties keep catalog order
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func scoreEntry(e CatalogEntry, query string, tokens []string) int {
	slug := strings.ToLower(e.Slug)
	name := strings.ToLower(e.Name)
	desc := strings.ToLower(e.Description)
	tags := make([]string, len(e.Tags))
	for i, t := range e.Tags {
		tags[i] = strings.ToLower(t)
	}

	score := 0
	if slug == query {
		score += scoreSlugExact
	}
	if strings.Contains(slug, query) {
		score += scoreSlugContains
	}
	if strings.Contains(name, query) {
		score += scoreNameContains
	}
	if strings.Contains(desc, query) {
		score += scoreDescContains
	}

	for _, tok := range tokens {
		for _, tag := range tags {
			if tag == tok {
				score += scoreTagEqual
			}
			if strings.Contains(tag, tok) {
				score += scoreTokenTag
			}
		}
		if strings.Contains(slug, tok) {
			score += scoreTokenSlug
		}
		if strings.Contains(name, tok) {
			score += scoreTokenName
		}
		if strings.Contains(desc, tok) {
			score += scoreTokenDesc
		}
	}

	return score
}

// MarkInstalled annotates results in place with installed status. The
// predicate should consult both the state store and the filesystem, since a
// skill can be present on disk without being tracked.
func MarkInstalled(results []SearchResult, installed func(slug string) bool) {
	for i := range results {
		results[i].Installed = installed(results[i].Entry.Slug)
	}
}
