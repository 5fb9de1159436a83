// Package search adapts the Weaviate vector index to the retrieval pipeline.
package search

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/xiaot623/helpdesk/internal/domain"
)

// ChunkClassName is the Weaviate class holding ingested document chunks.
const ChunkClassName = "SupportChunk"

// Index is the semantic search capability. Implementations return ranked
// chunks ordered by ascending distance.
type Index interface {
	Search(ctx context.Context, query string, category domain.Category, k int) ([]domain.RetrievedChunk, error)
}

// WeaviateIndex implements Index against a Weaviate instance.
type WeaviateIndex struct {
	client *weaviate.Client
}

// NewWeaviateIndex connects to the Weaviate instance at rawURL.
func NewWeaviateIndex(rawURL string) (*WeaviateIndex, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid weaviate url %q: %w", rawURL, err)
	}

	client, err := weaviate.NewClient(weaviate.Config{
		Host:   parsed.Host,
		Scheme: parsed.Scheme,
	})
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}
	return &WeaviateIndex{client: client}, nil
}

// Search runs a nearText query filtered by category and returns at most k
// chunks ordered by ascending distance.
func (w *WeaviateIndex) Search(ctx context.Context, query string, category domain.Category, k int) ([]domain.RetrievedChunk, error) {
	nearText := w.client.GraphQL().NearTextArgBuilder().
		WithConcepts([]string{query})

	where := filters.Where().
		WithPath([]string{"category"}).
		WithOperator(filters.Equal).
		WithValueString(string(category))

	fields := []graphql.Field{
		{Name: "content"},
		{Name: "sourceDocument"},
		{Name: "_additional { distance }"},
	}

	result, err := w.client.GraphQL().Get().
		WithClassName(ChunkClassName).
		WithFields(fields...).
		WithWhere(where).
		WithNearText(nearText).
		WithLimit(k).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("semantic search: %s", result.Errors[0].Message)
	}

	chunks := parseChunks(result)
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Distance < chunks[j].Distance
	})
	if len(chunks) > k {
		chunks = chunks[:k]
	}
	return chunks, nil
}

func parseChunks(result *models.GraphQLResponse) []domain.RetrievedChunk {
	data, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return nil
	}
	objects, ok := data[ChunkClassName].([]interface{})
	if !ok {
		return nil
	}

	chunks := make([]domain.RetrievedChunk, 0, len(objects))
	for _, obj := range objects {
		m, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}
		chunk := domain.RetrievedChunk{Source: "Unknown"}
		if content, ok := m["content"].(string); ok {
			chunk.Text = content
		}
		if source, ok := m["sourceDocument"].(string); ok && source != "" {
			chunk.Source = source
		}
		if add, ok := m["_additional"].(map[string]interface{}); ok {
			if dist, ok := add["distance"].(float64); ok {
				chunk.Distance = dist
			}
		}
		if chunk.Text == "" {
			continue
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}
