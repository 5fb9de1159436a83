package contextstore

import (
	"fmt"
	"strings"

	"github.com/xiaot623/helpdesk/internal/domain"
)

// NoResultsMarker is rendered instead of a silently empty context when a
// search returns nothing.
const NoResultsMarker = "No relevant information found in the knowledge base."

// FormatChunks renders ranked chunks as numbered, source-labeled blocks
// separated by blank lines.
func FormatChunks(chunks []domain.RetrievedChunk) string {
	if len(chunks) == 0 {
		return NoResultsMarker
	}

	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		parts = append(parts, fmt.Sprintf("[Source %d: %s]\n%s\n", i+1, chunk.Source, chunk.Text))
	}
	return strings.Join(parts, "\n")
}
