package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/civitaslabs/planqd/internal/config"
	"github.com/civitaslabs/planqd/internal/graph"
	"github.com/civitaslabs/planqd/internal/knowledge"
	"github.com/civitaslabs/planqd/internal/logging"
	"github.com/civitaslabs/planqd/internal/vectorstore"
)

var kbPath string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest the knowledge base into the vector store and graph",
	Long: `Ingest the knowledge base into the vector store and graph.

Reads every .txt file under the knowledge base directory, embeds chunked
content into the vector store, and rebuilds the knowledge graph with
documents, concepts, and their relationships.

The graph is cleared and rebuilt; vector store entries are appended, so
re-ingesting into an existing collection duplicates documents. Point the
store at a fresh path or collection for a clean rebuild.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest()
	},
}

func init() {
	ingestCmd.Flags().StringVar(&kbPath, "kb", "", "knowledge base directory (overrides config)")
}

func runIngest() error {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if kbPath != "" {
		cfg.Knowledge.KBPath = kbPath
	}
	if cfg.Knowledge.KBPath == "" {
		return fmt.Errorf("no knowledge base directory configured; set knowledge.kb_path or pass --kb")
	}

	logger, err := logging.NewLogger(&cfg.Logging, nil)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	docs, err := knowledge.LoadDir(cfg.Knowledge.KBPath)
	if err != nil {
		return err
	}
	logger.Info(ctx, "loaded knowledge base",
		zap.String("path", cfg.Knowledge.KBPath),
		zap.Int("documents", len(docs)))

	embedder, store, graphStore, err := buildBackends(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = graphStore.Close(ctx)
		_ = store.Close()
		_ = embedder.Close()
	}()

	var chunks []vectorstore.Document
	for _, doc := range docs {
		for i, piece := range knowledge.SplitContent(doc.Content) {
			chunks = append(chunks, vectorstore.Document{
				ID:      fmt.Sprintf("%s#%d", doc.Source, i),
				Content: piece,
				Source:  doc.Source,
			})
		}
	}
	if _, err := store.AddDocuments(ctx, chunks); err != nil {
		return fmt.Errorf("indexing vector store: %w", err)
	}
	logger.Info(ctx, "vector store indexed", zap.Int("chunks", len(chunks)))

	graphDocs := make([]graph.Document, len(docs))
	for i, doc := range docs {
		graphDocs[i] = graph.Document{Source: doc.Source, Content: doc.Content}
	}
	if err := graphStore.Ingest(ctx, graphDocs); err != nil {
		return fmt.Errorf("building knowledge graph: %w", err)
	}
	logger.Info(ctx, "knowledge graph rebuilt", zap.Int("documents", len(graphDocs)))

	return nil
}
