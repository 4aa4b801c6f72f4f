// Package rag runs the question-answering pipeline: retrieve the most
// similar chunks, assemble the prompt, call the model, post-process the
// answer. Every call is stateless; no conversation history enters the
// prompt.
package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"policy-rag/internal/index"
	"policy-rag/internal/models"

	"github.com/rs/zerolog/log"
)

// Searcher finds the passages most similar to a question.
type Searcher interface {
	Search(ctx context.Context, question string, k int) ([]models.RetrievedPassage, error)
}

// Generator produces the model's answer for a filled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type RAG struct {
	searcher  Searcher
	generator Generator
	topK      int
}

func NewRAG(searcher Searcher, generator Generator, topK int) *RAG {
	if topK <= 0 {
		topK = index.DefaultTopK
	}
	return &RAG{searcher: searcher, generator: generator, topK: topK}
}

// Query runs the full pipeline and returns the post-processed answer along
// with the provenance of the passages fed to the model.
func (r *RAG) Query(ctx context.Context, question string) (*models.PromptResponse, error) {
	passages, err := r.searcher.Search(ctx, question, r.topK)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("passages", len(passages)).Msg("Retrieved context")

	prompt := AssemblePrompt(question, passages)
	raw, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &models.PromptResponse{
		Query:   question,
		Source:  strings.Join(SourceList(passages), "; "),
		Content: Postprocess(raw),
	}, nil
}

// Answer is the caller-facing API. It never propagates a fault: structural
// index problems come back as instructions to build or rebuild, and any
// other failure as an error-description string.
func (r *RAG) Answer(ctx context.Context, question string) string {
	resp, err := r.Query(ctx, question)
	if err != nil {
		var incompatible *index.IncompatibleError
		switch {
		case errors.Is(err, index.ErrIndexMissing):
			return "The vector index has not been built yet. Run a build over the corpus directory and try again."
		case errors.As(err, &incompatible):
			return "The vector index is out of date. Delete the index directory to rebuild it with the active embedding model."
		default:
			return "Error: " + err.Error()
		}
	}
	return resp.Content
}
