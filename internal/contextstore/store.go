// Package contextstore wraps the semantic search index and the on-disk
// document corpus behind the retrieval strategies' two capabilities:
// best-effort similarity search and memoized full-text corpus loads.
package contextstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xiaot623/helpdesk/internal/adapter/search"
	"github.com/xiaot623/helpdesk/internal/domain"
	"github.com/xiaot623/helpdesk/internal/observability"
)

// Document is one source file of a category's corpus.
type Document struct {
	Source string
	Text   string
}

// Store provides category-scoped retrieval over the search index and the
// document corpus. Corpus loads are computed once per category per process,
// guarded by a single-flight group under concurrent first access.
type Store struct {
	index   search.Index
	docsDir string
	logger  *zap.Logger
	metrics *observability.Metrics

	group   singleflight.Group
	mu      sync.RWMutex
	corpora map[domain.Category][]Document
}

// New creates a Store. A nil index degrades every search to an empty result.
func New(index search.Index, docsDir string, logger *zap.Logger, metrics *observability.Metrics) *Store {
	return &Store{
		index:   index,
		docsDir: docsDir,
		logger:  logger,
		metrics: metrics,
		corpora: make(map[domain.Category][]Document),
	}
}

// Search queries the index for the k most relevant chunks in the category.
// Retrieval is best-effort: any backing error yields an empty slice, never
// an error to the caller.
func (s *Store) Search(ctx context.Context, query string, category domain.Category, k int) []domain.RetrievedChunk {
	if s.index == nil {
		s.logger.Warn("search index not configured, returning empty results",
			zap.String("category", string(category)))
		s.metrics.SearchError()
		return nil
	}

	chunks, err := s.index.Search(ctx, query, category, k)
	if err != nil {
		s.logger.Warn("semantic search failed, degrading to empty results",
			zap.String("category", string(category)), zap.Error(err))
		s.metrics.SearchError()
		return nil
	}
	return chunks
}

// Documents returns the category's corpus files, loaded once per process
// lifetime and never invalidated without a restart.
func (s *Store) Documents(ctx context.Context, category domain.Category) ([]Document, error) {
	s.mu.RLock()
	docs, ok := s.corpora[category]
	s.mu.RUnlock()
	if ok {
		return docs, nil
	}

	v, err, _ := s.group.Do(string(category), func() (interface{}, error) {
		// A caller can miss the cache, then enter a fresh flight after the
		// first one retired; re-check so the load still runs only once.
		s.mu.RLock()
		cached, ok := s.corpora[category]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}

		loaded, err := s.readDocuments(category)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.corpora[category] = loaded
		s.mu.Unlock()
		s.logger.Info("loaded category corpus",
			zap.String("category", string(category)), zap.Int("documents", len(loaded)))
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Document), nil
}

// LoadCorpus returns the full concatenated text of the category's documents,
// each prefixed with a source label.
func (s *Store) LoadCorpus(ctx context.Context, category domain.Category) (string, error) {
	docs, err := s.Documents(ctx, category)
	if err != nil {
		return "", err
	}
	return concatDocuments(docs), nil
}

// LoadScoredCorpus returns a keyword-scored subset of the category's corpus:
// documents with at least one keyword match against the query, top-scoring
// first, a minimum of 2 and a maximum of 3. With no match at all the full
// corpus is returned so recall is preserved for ambiguous queries.
func (s *Store) LoadScoredCorpus(ctx context.Context, category domain.Category, query string) (string, error) {
	docs, err := s.Documents(ctx, category)
	if err != nil {
		return "", err
	}
	return concatDocuments(selectScoredDocuments(docs, query)), nil
}

func (s *Store) readDocuments(category domain.Category) ([]Document, error) {
	pattern := filepath.Join(s.docsDir, string(category), "*.txt")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("list corpus files: %w", err)
	}
	sort.Strings(paths)

	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read corpus file %s: %w", path, err)
		}
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		docs = append(docs, Document{Source: stem, Text: string(content)})
	}
	return docs, nil
}

func concatDocuments(docs []Document) string {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		parts = append(parts, fmt.Sprintf("=== %s ===\n%s\n", doc.Source, doc.Text))
	}
	return strings.Join(parts, "\n")
}
