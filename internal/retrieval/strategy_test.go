package retrieval

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/xiaot623/helpdesk/internal/contextstore"
	"github.com/xiaot623/helpdesk/internal/domain"
)

type recordingIndex struct {
	mu      sync.Mutex
	queries []string
	limits  []int
	chunks  []domain.RetrievedChunk
}

func (r *recordingIndex) Search(ctx context.Context, query string, category domain.Category, k int) ([]domain.RetrievedChunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, query)
	r.limits = append(r.limits, k)
	return r.chunks, nil
}

func newTestRetriever(t *testing.T, idx *recordingIndex) *Retriever {
	t.Helper()
	store := contextstore.New(idx, t.TempDir(), zap.NewNop(), nil)
	return New(store, zap.NewNop())
}

func TestPureLookupSearchesEveryCall(t *testing.T) {
	idx := &recordingIndex{chunks: []domain.RetrievedChunk{
		{Text: "restart the app", Source: "mobile_faq", Distance: 0.1},
	}}
	r := newTestRetriever(t, idx)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		bundle, err := r.Retrieve(ctx, domain.CategoryTechnical, "app keeps crashing", "")
		if err != nil {
			t.Fatalf("Retrieve failed: %v", err)
		}
		if !strings.Contains(bundle.FormattedText, "[Source 1: mobile_faq]") {
			t.Fatalf("unexpected context: %q", bundle.FormattedText)
		}
		if bundle.CacheArtifact != nil {
			t.Fatal("pure lookup must not produce a cache artifact")
		}
	}
	if len(idx.queries) != 3 {
		t.Fatalf("index searched %d times, want 3", len(idx.queries))
	}
	for _, k := range idx.limits {
		if k != 5 {
			t.Fatalf("technical search limit = %d, want 5", k)
		}
	}
}

func TestPureLookupNoResults(t *testing.T) {
	r := newTestRetriever(t, &recordingIndex{})
	bundle, err := r.Retrieve(context.Background(), domain.CategoryTechnical, "anything", "")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if bundle.FormattedText != contextstore.NoResultsMarker {
		t.Fatalf("empty search context = %q", bundle.FormattedText)
	}
}

func TestPureCacheNeverTouchesIndex(t *testing.T) {
	idx := &recordingIndex{}
	dir := t.TempDir()
	policyDir := filepath.Join(dir, "policy")
	if err := os.MkdirAll(policyDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(policyDir, "privacy_policy.txt"),
		[]byte("We collect personal data only with consent."), 0o644); err != nil {
		t.Fatal(err)
	}
	store := contextstore.New(idx, dir, zap.NewNop(), nil)
	r := New(store, zap.NewNop())

	bundle, err := r.Retrieve(context.Background(), domain.CategoryPolicy,
		"what personal data do you collect", "")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if !strings.Contains(bundle.FormattedText, "=== privacy_policy ===") {
		t.Fatalf("policy context missing corpus: %q", bundle.FormattedText)
	}
	if len(idx.queries) != 0 {
		t.Fatalf("policy strategy searched the index %d times, want 0", len(idx.queries))
	}
}

func TestPureCacheEmptyCorpus(t *testing.T) {
	r := newTestRetriever(t, &recordingIndex{})
	bundle, err := r.Retrieve(context.Background(), domain.CategoryPolicy, "gdpr rights", "")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if bundle.FormattedText != contextstore.NoResultsMarker {
		t.Fatalf("empty corpus context = %q", bundle.FormattedText)
	}
}

func TestHybridFirstTurnProducesArtifact(t *testing.T) {
	idx := &recordingIndex{chunks: []domain.RetrievedChunk{
		{Text: "Pro plan is $49/month.", Source: "pricing", Distance: 0.2},
	}}
	r := newTestRetriever(t, idx)

	bundle, err := r.Retrieve(context.Background(), domain.CategoryBilling,
		"how much is the pro plan", "")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	// Narrow search plus the broad general search on the first turn.
	if len(idx.queries) != 2 {
		t.Fatalf("index searched %d times, want 2", len(idx.queries))
	}
	if idx.queries[1] != "pricing plans billing policy payment subscription" {
		t.Fatalf("broad query = %q", idx.queries[1])
	}
	if idx.limits[0] != 3 || idx.limits[1] != 5 {
		t.Fatalf("search limits = %v, want [3 5]", idx.limits)
	}
	if bundle.CacheArtifact == nil {
		t.Fatal("first billing turn must produce a cache artifact")
	}
	if !strings.Contains(bundle.FormattedText, "General Billing Information (Cached):") {
		t.Fatalf("context missing general section: %q", bundle.FormattedText)
	}
	if !strings.Contains(bundle.FormattedText, "Specific Information:") {
		t.Fatalf("context missing specific section: %q", bundle.FormattedText)
	}
}

func TestHybridReusesSessionCache(t *testing.T) {
	idx := &recordingIndex{chunks: []domain.RetrievedChunk{
		{Text: "Refunds within 30 days.", Source: "refund_policy", Distance: 0.3},
	}}
	r := newTestRetriever(t, idx)

	cached := "[Source 1: pricing]\ncached general billing context\n"
	bundle, err := r.Retrieve(context.Background(), domain.CategoryBilling,
		"can I get a refund", cached)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	// Only the narrow search runs when the session already holds the cache.
	if len(idx.queries) != 1 {
		t.Fatalf("index searched %d times, want 1", len(idx.queries))
	}
	if bundle.CacheArtifact != nil {
		t.Fatal("cached billing turn must not produce a new artifact")
	}
	if !strings.Contains(bundle.FormattedText, "cached general billing context") {
		t.Fatalf("context missing cached section: %q", bundle.FormattedText)
	}
}

func TestRetrieveUnknownCategory(t *testing.T) {
	r := newTestRetriever(t, &recordingIndex{})
	if _, err := r.Retrieve(context.Background(), domain.Category("sales"), "q", ""); err == nil {
		t.Fatal("expected error for unknown category")
	}
}
