package rag

import (
	"fmt"
	"strings"

	"policy-rag/internal/models"
)

// AssemblePrompt renders the retrieved passages as delimited context blocks
// and fills the fixed instruction template. Passages keep their retrieval
// order: position in the context is itself a relevance signal for the model.
// No model call happens here.
func AssemblePrompt(question string, passages []models.RetrievedPassage) string {
	blocks := make([]string, len(passages))
	for i, p := range passages {
		blocks[i] = fmt.Sprintf(models.ContextBlockTemplate, p.Chunk.Source, p.Chunk.Page, p.Chunk.Text)
	}
	contextText := strings.Join(blocks, "\n")
	return fmt.Sprintf(models.RAGPromptTemplate, contextText, question)
}

// SourceList returns the distinct "Label (Page N)" provenance entries of the
// passages, in retrieval order.
func SourceList(passages []models.RetrievedPassage) []string {
	var sources []string
	seen := map[string]bool{}
	for _, p := range passages {
		entry := fmt.Sprintf("%s (Page %d)", p.Chunk.Source, p.Chunk.Page)
		if !seen[entry] {
			seen[entry] = true
			sources = append(sources, entry)
		}
	}
	return sources
}
