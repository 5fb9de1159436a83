package contextstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xiaot623/helpdesk/internal/domain"
)

type fakeIndex struct {
	mu     sync.Mutex
	calls  int
	chunks []domain.RetrievedChunk
	err    error
}

func (f *fakeIndex) Search(ctx context.Context, query string, category domain.Category, k int) ([]domain.RetrievedChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks, nil
}

func writeCorpus(t *testing.T, dir string, category domain.Category, files map[string]string) string {
	t.Helper()
	catDir := filepath.Join(dir, string(category))
	require.NoError(t, os.MkdirAll(catDir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(catDir, name+".txt"), []byte(content), 0o644))
	}
	return dir
}

func TestSearchDegradesOnError(t *testing.T) {
	idx := &fakeIndex{err: errors.New("connection refused")}
	store := New(idx, t.TempDir(), zap.NewNop(), nil)

	chunks := store.Search(context.Background(), "login broken", domain.CategoryTechnical, 5)
	assert.Empty(t, chunks)
	assert.Equal(t, 1, idx.calls)
}

func TestSearchNilIndex(t *testing.T) {
	store := New(nil, t.TempDir(), zap.NewNop(), nil)
	chunks := store.Search(context.Background(), "anything", domain.CategoryBilling, 3)
	assert.Empty(t, chunks)
}

func TestLoadCorpusConcatenation(t *testing.T) {
	dir := writeCorpus(t, t.TempDir(), domain.CategoryPolicy, map[string]string{
		"privacy_policy":   "We collect minimal data.",
		"terms_of_service": "Accounts may be terminated.",
	})
	store := New(nil, dir, zap.NewNop(), nil)

	corpus, err := store.LoadCorpus(context.Background(), domain.CategoryPolicy)
	require.NoError(t, err)
	// Files are loaded in sorted order with stem headers.
	assert.Contains(t, corpus, "=== privacy_policy ===\nWe collect minimal data.\n")
	assert.Contains(t, corpus, "=== terms_of_service ===\nAccounts may be terminated.\n")
	assert.Less(t, strings.Index(corpus, "privacy_policy"), strings.Index(corpus, "terms_of_service"))
}

func TestDocumentsMemoized(t *testing.T) {
	dir := writeCorpus(t, t.TempDir(), domain.CategoryPolicy, map[string]string{
		"privacy_policy": "original text",
	})
	store := New(nil, dir, zap.NewNop(), nil)

	first, err := store.Documents(context.Background(), domain.CategoryPolicy)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A later file change is invisible until the process restarts.
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "policy", "privacy_policy.txt"), []byte("edited"), 0o644))

	second, err := store.Documents(context.Background(), domain.CategoryPolicy)
	require.NoError(t, err)
	assert.Equal(t, "original text", second[0].Text)
}

func TestDocumentsConcurrentFirstAccessLoadsOnce(t *testing.T) {
	dir := writeCorpus(t, t.TempDir(), domain.CategoryPolicy, map[string]string{
		"privacy_policy":   "privacy text",
		"terms_of_service": "tos text",
	})
	core, logs := observer.New(zap.InfoLevel)
	store := New(nil, dir, zap.New(core), nil)

	const callers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			docs, err := store.Documents(context.Background(), domain.CategoryPolicy)
			if err != nil {
				t.Errorf("Documents failed: %v", err)
				return
			}
			if len(docs) != 2 {
				t.Errorf("got %d documents, want 2", len(docs))
			}
		}()
	}
	close(start)
	wg.Wait()

	// The load runs exactly once; concurrent first callers share the flight
	// and everyone after hits the memoized corpus.
	if loads := logs.FilterMessage("loaded category corpus").Len(); loads != 1 {
		t.Fatalf("corpus loaded %d times, want 1", loads)
	}
}

func TestDocumentsEmptyCategory(t *testing.T) {
	store := New(nil, t.TempDir(), zap.NewNop(), nil)
	docs, err := store.Documents(context.Background(), domain.CategoryTechnical)
	require.NoError(t, err)
	assert.Empty(t, docs)

	corpus, err := store.LoadCorpus(context.Background(), domain.CategoryTechnical)
	require.NoError(t, err)
	assert.Equal(t, "", corpus)
}

func TestLoadScoredCorpusSelectsByKeyword(t *testing.T) {
	dir := writeCorpus(t, t.TempDir(), domain.CategoryPolicy, map[string]string{
		"terms_of_service":      "tos text",
		"privacy_policy":        "privacy text",
		"gdpr_compliance":       "gdpr text",
		"cookie_policy":         "cookie text",
		"acceptable_use_policy": "aup text",
	})
	store := New(nil, dir, zap.NewNop(), nil)

	corpus, err := store.LoadScoredCorpus(context.Background(), domain.CategoryPolicy,
		"How do I opt-out of cookie tracking in my browser?")
	require.NoError(t, err)

	assert.Contains(t, corpus, "=== cookie_policy ===")
	// Single-document matches are padded up to the minimum of two.
	count := strings.Count(corpus, "=== ")
	assert.GreaterOrEqual(t, count, 2)
	assert.LessOrEqual(t, count, 3)
}

func TestLoadScoredCorpusNoMatchReturnsAll(t *testing.T) {
	dir := writeCorpus(t, t.TempDir(), domain.CategoryPolicy, map[string]string{
		"terms_of_service": "tos text",
		"privacy_policy":   "privacy text",
		"gdpr_compliance":  "gdpr text",
	})
	store := New(nil, dir, zap.NewNop(), nil)

	corpus, err := store.LoadScoredCorpus(context.Background(), domain.CategoryPolicy,
		"tell me about your company history")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(corpus, "=== "))
}

func TestFormatChunks(t *testing.T) {
	formatted := FormatChunks([]domain.RetrievedChunk{
		{Text: "Reset your password from the login page.", Source: "troubleshooting", Distance: 0.12},
		{Text: "Clear the app cache under settings.", Source: "mobile_faq", Distance: 0.31},
	})
	want := "[Source 1: troubleshooting]\nReset your password from the login page.\n" +
		"\n" +
		"[Source 2: mobile_faq]\nClear the app cache under settings.\n"
	assert.Equal(t, want, formatted)
}

func TestFormatChunksEmpty(t *testing.T) {
	assert.Equal(t, NoResultsMarker, FormatChunks(nil))
}
