package contextstore

import (
	"sort"
	"strings"

	"github.com/xiaot623/helpdesk/internal/domain"
)

// documentKeywords is the fixed keyword table for scored corpus selection.
// Declaration order breaks score ties and drives minimum-count padding.
var documentKeywords = []struct {
	source   string
	keywords []string
}{
	{"terms_of_service", []string{"terms", "service", "agreement", "account", "termination", "liability"}},
	{"privacy_policy", []string{"privacy", "personal", "data", "collect", "share", "third-party"}},
	{"gdpr_compliance", []string{"gdpr", "consent", "erasure", "portability", "processor", "rights"}},
	{"cookie_policy", []string{"cookie", "cookies", "tracking", "browser", "opt-out"}},
	{"acceptable_use_policy", []string{"acceptable", "abuse", "prohibited", "spam", "content"}},
}

const (
	minScoredDocuments = 2
	maxScoredDocuments = 3
)

// selectScoredDocuments scores each document's keywords against the query
// and keeps the top scorers, at least minScoredDocuments and at most
// maxScoredDocuments. Documents absent from the keyword table score zero.
// A query matching nothing selects every document.
func selectScoredDocuments(docs []Document, query string) []Document {
	lower := strings.ToLower(query)

	type scored struct {
		doc   Document
		score int
		order int
	}

	ranked := make([]scored, 0, len(docs))
	for _, doc := range docs {
		ranked = append(ranked, scored{
			doc:   doc,
			score: keywordScore(doc.Source, lower),
			order: declarationOrder(doc.Source),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})

	matched := 0
	for _, r := range ranked {
		if r.score > 0 {
			matched++
		}
	}
	if matched == 0 {
		return docs
	}

	keep := matched
	if keep < minScoredDocuments {
		keep = minScoredDocuments
	}
	if keep > maxScoredDocuments {
		keep = maxScoredDocuments
	}
	if keep > len(ranked) {
		keep = len(ranked)
	}

	selected := make([]Document, 0, keep)
	for _, r := range ranked[:keep] {
		selected = append(selected, r.doc)
	}
	return selected
}

func keywordScore(source, lowerQuery string) int {
	for _, entry := range documentKeywords {
		if entry.source != source {
			continue
		}
		score := 0
		for _, kw := range entry.keywords {
			if strings.Contains(lowerQuery, kw) {
				score++
			}
		}
		return score
	}
	return 0
}

func declarationOrder(source string) int {
	for i, entry := range documentKeywords {
		if entry.source == source {
			return i
		}
	}
	return len(documentKeywords)
}

// ScoredCategory is the category the keyword table applies to. Other
// categories always load their full corpus.
const ScoredCategory = domain.CategoryPolicy
