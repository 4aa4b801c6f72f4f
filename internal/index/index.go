// Package index persists chunk embeddings in an on-disk chromem-go
// collection and answers nearest-neighbor queries over them. A manifest
// written next to the collection records the embedding configuration the
// index was built with, so a mismatched configuration is detected on load
// instead of corrupting results.
package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"policy-rag/internal/models"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
)

const (
	manifestFile = "manifest.json"

	// DefaultTopK is the number of passages retrieved per query.
	DefaultTopK = 4
)

// ErrIndexMissing signals a query against an index that has not been built.
var ErrIndexMissing = errors.New("vector index not built")

// IncompatibleError reports a persisted index built under a different
// embedding configuration than the active one. The index must be deleted
// and rebuilt; it cannot be queried.
type IncompatibleError struct {
	IndexModel  string
	ActiveModel string
	IndexDim    int
	ActiveDim   int
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf(
		"vector index was built with embedding model %q (%d dimensions) but the active model is %q (%d dimensions): delete the index directory and rebuild",
		e.IndexModel, e.IndexDim, e.ActiveModel, e.ActiveDim)
}

// Manifest describes the persisted index artifact. It is written once at
// build time and checked on every load.
type Manifest struct {
	BuildID        string    `json:"build_id"`
	EmbeddingModel string    `json:"embedding_model"`
	Dimension      int       `json:"dimension"`
	Chunks         int       `json:"chunks"`
	Sources        []string  `json:"sources"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store owns one persisted vector index. Build and Search are mutually
// exclusive phases: Search refuses to run until a build has persisted the
// artifact, and a build replaces the artifact wholesale.
type Store struct {
	dir            string
	collectionName string
	embeddingModel string
	embedder       embeddings.Embedder

	mu         sync.Mutex
	collection *chromem.Collection
}

// NewStore returns a store over the index directory. embeddingModel is the
// identifier recorded in the manifest and compared on load.
func NewStore(dir, collectionName, embeddingModel string, embedder embeddings.Embedder) *Store {
	return &Store{
		dir:            dir,
		collectionName: collectionName,
		embeddingModel: embeddingModel,
		embedder:       embedder,
	}
}

// Build embeds every chunk and persists the index as a fresh artifact,
// replacing any previous one. It returns whether anything was indexed and
// the distinct source labels in first-seen order. An empty chunk list is a
// valid no-op: nothing on disk is touched and ok is false.
func (s *Store) Build(ctx context.Context, chunks []models.Chunk) (ok bool, sources []string, err error) {
	if len(chunks) == 0 {
		return false, nil, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return false, nil, fmt.Errorf("embedding chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return false, nil, fmt.Errorf("embedding provider returned %d vectors for %d chunks", len(vectors), len(chunks))
	}
	dimension := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dimension {
			return false, nil, fmt.Errorf("chunk %d: embedding has %d dimensions, expected %d", i, len(v), dimension)
		}
	}

	// A rebuild discards the whole artifact; there is no incremental path.
	if err := os.RemoveAll(s.dir); err != nil {
		return false, nil, fmt.Errorf("clearing index directory: %w", err)
	}

	db, err := chromem.NewPersistentDB(s.dir, false)
	if err != nil {
		return false, nil, fmt.Errorf("creating vector database: %w", err)
	}
	collection, err := db.GetOrCreateCollection(s.collectionName, nil, nil)
	if err != nil {
		return false, nil, fmt.Errorf("creating collection: %w", err)
	}

	docs := make([]chromem.Document, len(chunks))
	seen := map[string]bool{}
	for i, c := range chunks {
		if c.Source == "" || c.Page < 0 {
			return false, nil, fmt.Errorf("chunk %d has no provenance", i)
		}
		docs[i] = chromem.Document{
			ID:      fmt.Sprintf("chunk-%06d", i),
			Content: c.Text,
			Metadata: map[string]string{
				"source": c.Source,
				"page":   strconv.Itoa(c.Page),
			},
			Embedding: vectors[i],
		}
		if !seen[c.Source] {
			seen[c.Source] = true
			sources = append(sources, c.Source)
		}
	}

	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return false, nil, fmt.Errorf("adding documents to vector database: %w", err)
	}

	manifest := Manifest{
		BuildID:        uuid.NewString(),
		EmbeddingModel: s.embeddingModel,
		Dimension:      dimension,
		Chunks:         len(chunks),
		Sources:        sources,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.writeManifest(manifest); err != nil {
		return false, nil, err
	}

	s.mu.Lock()
	s.collection = collection
	s.mu.Unlock()

	log.Info().
		Str("build_id", manifest.BuildID).
		Int("chunks", manifest.Chunks).
		Int("dimension", manifest.Dimension).
		Msg("Vector index built")
	return true, sources, nil
}

// Search embeds the question and returns the k most similar chunks, most
// similar first. k <= 0 uses DefaultTopK; k beyond the index size returns
// everything the index holds.
func (s *Store) Search(ctx context.Context, question string, k int) ([]models.RetrievedPassage, error) {
	manifest, err := s.Manifest()
	if err != nil {
		return nil, err
	}

	queryVec, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}
	if len(queryVec) != manifest.Dimension || s.embeddingModel != manifest.EmbeddingModel {
		return nil, &IncompatibleError{
			IndexModel:  manifest.EmbeddingModel,
			ActiveModel: s.embeddingModel,
			IndexDim:    manifest.Dimension,
			ActiveDim:   len(queryVec),
		}
	}

	collection, err := s.loadCollection()
	if err != nil {
		return nil, err
	}

	if k <= 0 {
		k = DefaultTopK
	}
	if count := collection.Count(); k > count {
		k = count
	}

	results, err := collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryVec,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("querying vector database: %w", err)
	}

	passages := make([]models.RetrievedPassage, len(results))
	for i, res := range results {
		source := res.Metadata["source"]
		pageStr, hasPage := res.Metadata["page"]
		if source == "" || !hasPage {
			return nil, fmt.Errorf("indexed chunk %s is missing provenance metadata", res.ID)
		}
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return nil, fmt.Errorf("indexed chunk %s has invalid page %q", res.ID, pageStr)
		}
		passages[i] = models.RetrievedPassage{
			Chunk:      models.Chunk{Text: res.Content, Source: source, Page: page},
			Rank:       i,
			Similarity: res.Similarity,
		}
	}
	return passages, nil
}

// Manifest loads the persisted manifest, reporting ErrIndexMissing when the
// artifact is absent.
func (s *Store) Manifest() (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, manifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrIndexMissing
		}
		return nil, fmt.Errorf("reading index manifest: %w", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing index manifest: %w", err)
	}
	return &manifest, nil
}

func (s *Store) writeManifest(manifest Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, manifestFile), data, 0o644); err != nil {
		return fmt.Errorf("writing index manifest: %w", err)
	}
	return nil
}

// loadCollection opens the persisted collection once and caches it. The
// collection is immutable after load, so concurrent queries share it.
func (s *Store) loadCollection() (*chromem.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collection != nil {
		return s.collection, nil
	}

	db, err := chromem.NewPersistentDB(s.dir, false)
	if err != nil {
		return nil, fmt.Errorf("opening vector database: %w", err)
	}
	collection := db.GetCollection(s.collectionName, nil)
	if collection == nil || collection.Count() == 0 {
		return nil, ErrIndexMissing
	}
	s.collection = collection
	return collection, nil
}
