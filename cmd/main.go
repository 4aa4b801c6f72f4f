package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"policy-rag/internal/config"
	"policy-rag/internal/embedding"
	"policy-rag/internal/helper"
	"policy-rag/internal/index"
	"policy-rag/internal/labels"
	"policy-rag/internal/llmservice"
	"policy-rag/internal/parser"
	"policy-rag/internal/rag"
)

const defaultConfigPath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", defaultConfigPath, "Path to the config file")
	build := flag.Bool("build", false, "Rebuild the vector index from the corpus directory")
	query := flag.String("query", "", "Question to answer against the indexed policies")
	dryRun := flag.Bool("dry-run", false, "Chunk the corpus and print the report without indexing")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Error loading .env file")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	switch {
	case *build:
		buildIndex(context.Background(), cfg, *dryRun)
	case *query != "":
		answerQuery(context.Background(), cfg, *query)
	default:
		log.Fatal().Msg("Provide -build to index the corpus or -query to ask a question")
	}
}

func buildIndex(ctx context.Context, cfg *config.Config, dryRun bool) {
	resolver := labels.NewResolver(cfg.Corpus.Labels)

	report, err := parser.ChunkCorpus(cfg.Corpus.Dir, resolver, cfg.RAG.ChunkSize, func(done, total int, filename string) {
		log.Info().
			Str("file", filename).
			Str("progress", fmt.Sprintf("%d/%d", done, total)).
			Msg("Indexing documents")
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error scanning corpus")
	}

	helper.PrettyPrint(report)
	log.Info().Int("chunks", report.ChunkCount()).Int("documents", len(report.Documents)).Msg("Corpus scanned")
	for _, skipped := range report.Skipped() {
		log.Warn().Str("file", skipped.Filename).Str("reason", skipped.Reason).Msg("Document skipped")
	}

	if dryRun {
		return
	}

	embedder, err := embedding.NewEmbedder(&cfg.Embedding)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	store := index.NewStore(cfg.Index.Dir, cfg.Index.Collection, cfg.Embedding.Model, embedder)
	ok, sources, err := store.Build(ctx, report.Chunks)
	if err != nil {
		log.Fatal().Err(err).Msg("Error building vector index")
	}
	if !ok {
		log.Info().Str("dir", cfg.Corpus.Dir).Msg("No documents to index")
		return
	}
	log.Info().Strs("sources", sources).Msg("Index ready")
}

func answerQuery(ctx context.Context, cfg *config.Config, query string) {
	embedder, err := embedding.NewEmbedder(&cfg.Embedding)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	store := index.NewStore(cfg.Index.Dir, cfg.Index.Collection, cfg.Embedding.Model, embedder)
	generator := llmservice.NewClient(&cfg.Inference)
	pipeline := rag.NewRAG(store, generator, cfg.RAG.TopK)

	answer := pipeline.Answer(ctx, query)

	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", query)

	log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", answer)
}
