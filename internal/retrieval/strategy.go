// Package retrieval implements the three context-assembly strategies, one
// per category: pure lookup for technical, pure cache for policy, and the
// hybrid cache+lookup strategy for billing.
package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiaot623/helpdesk/internal/contextstore"
	"github.com/xiaot623/helpdesk/internal/domain"
)

const (
	// technicalResultCount is the fixed k for pure-lookup searches.
	technicalResultCount = 5
	// billingNarrowCount bounds the per-turn "specific" billing search.
	billingNarrowCount = 3
	// billingBroadCount bounds the once-per-session "general" billing search.
	billingBroadCount = 5

	// generalBillingQuery is the fixed broad query whose result is cached
	// per session by the hybrid strategy.
	generalBillingQuery = "pricing plans billing policy payment subscription"
)

// Retriever assembles the context bundle for a turn.
type Retriever struct {
	store  *contextstore.Store
	logger *zap.Logger
}

// New creates a Retriever over the given context store.
func New(store *contextstore.Store, logger *zap.Logger) *Retriever {
	return &Retriever{store: store, logger: logger}
}

// Retrieve dispatches to the strategy bound to the category. billingCache is
// the session's current hybrid cache value ("" when unset).
// The category set is closed; every variant is handled here.
func (r *Retriever) Retrieve(ctx context.Context, category domain.Category, query, billingCache string) (domain.ContextBundle, error) {
	switch category {
	case domain.CategoryTechnical:
		return r.pureLookup(ctx, query), nil
	case domain.CategoryPolicy:
		return r.pureCache(ctx, query), nil
	case domain.CategoryBilling:
		return r.hybrid(ctx, query, billingCache), nil
	}
	return domain.ContextBundle{}, fmt.Errorf("no retrieval strategy for category %q", category)
}

// pureLookup searches the index on every call so technical answers always
// reflect the freshest index state. No memory across turns.
func (r *Retriever) pureLookup(ctx context.Context, query string) domain.ContextBundle {
	chunks := r.store.Search(ctx, query, domain.CategoryTechnical, technicalResultCount)
	return domain.ContextBundle{FormattedText: contextstore.FormatChunks(chunks)}
}

// pureCache serves policy turns from the keyword-scored corpus without
// touching the search index.
func (r *Retriever) pureCache(ctx context.Context, query string) domain.ContextBundle {
	corpus, err := r.store.LoadScoredCorpus(ctx, domain.CategoryPolicy, query)
	if err != nil {
		r.logger.Warn("policy corpus load failed", zap.Error(err))
		return domain.ContextBundle{FormattedText: contextstore.NoResultsMarker}
	}
	if corpus == "" {
		corpus = contextstore.NoResultsMarker
	}
	return domain.ContextBundle{FormattedText: corpus}
}

// hybrid always performs the narrow per-query search, and on the session's
// first billing turn additionally runs the broad general search whose
// formatted result is returned as the cache artifact. Later billing turns
// reuse the stored value verbatim.
func (r *Retriever) hybrid(ctx context.Context, query, billingCache string) domain.ContextBundle {
	specific := contextstore.FormatChunks(
		r.store.Search(ctx, query, domain.CategoryBilling, billingNarrowCount))

	general := billingCache
	var artifact *string
	if general == "" {
		general = contextstore.FormatChunks(
			r.store.Search(ctx, generalBillingQuery, domain.CategoryBilling, billingBroadCount))
		artifact = &general
	}

	combined := fmt.Sprintf(
		"General Billing Information (Cached):\n%s\n\nSpecific Information:\n%s",
		general, specific)
	return domain.ContextBundle{FormattedText: combined, CacheArtifact: artifact}
}
