package domain

// RetrievedChunk is a single result from the semantic search index,
// produced transiently by the context store and never persisted.
type RetrievedChunk struct {
	Text     string
	Source   string
	Distance float64
}

// ContextBundle is the assembled context handed to the generation step for
// one turn. CacheArtifact, when non-nil, must be written back into the
// owning session's billing cache.
type ContextBundle struct {
	FormattedText string
	CacheArtifact *string
}
