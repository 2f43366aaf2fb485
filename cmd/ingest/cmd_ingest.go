package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nyaya-sahayak/logic/embed"
	"nyaya-sahayak/logic/ingestion/loaders"
	"nyaya-sahayak/logic/ingestion/parser"
	"nyaya-sahayak/logic/ingestion/transform"
	"nyaya-sahayak/service"
	"nyaya-sahayak/storage/vectorstore"
	"nyaya-sahayak/types"
	"nyaya-sahayak/vars"
)

var ingestFlags struct {
	dir      string
	backends string
	jsonOut  bool
}

var rootCmd = &cobra.Command{
	Use:          "ingest",
	Short:        "Load legal documents into the vector store",
	Long:         "Walks --dir; the parent directory of each file (legal_codes, constitution, schemes, faqs) decides its source type.",
	SilenceUsage: true,
	RunE:         runIngest,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&ingestFlags.dir, "dir", "d", "./data/raw", "Raw data directory")
	f.StringVar(&ingestFlags.backends, "backends", vars.INDEX_BACKENDS, "Comma separated index backends (default: SEARCH_BACKEND)")
	f.BoolVar(&ingestFlags.jsonOut, "json", false, "Print per-file results as JSON")
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(ingestFlags.dir); err != nil {
		return fmt.Errorf("raw data directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	embedder, err := embed.New(ctx, embed.Config{
		Provider:  vars.EMBED_PROVIDER,
		Model:     vars.EMBED_MODEL,
		OllamaURL: vars.OLLAMA_PATH,
		GeminiKey: vars.GEMINI_API_KEY,
		Timeout:   vars.EMBED_TIMEOUT,
	})
	if err != nil {
		return err
	}

	cfg := vectorstore.ConfigFromEnv()
	cfg.IndexBackends = vectorstore.ParseBackends(ingestFlags.backends)
	store, err := vectorstore.Open(ctx, cfg, embedder)
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := parser.New(ctx)
	if err != nil {
		return err
	}
	loader, err := loaders.New(ctx, p)
	if err != nil {
		return err
	}
	splitter, err := transform.NewSplitter(ctx, embedder)
	if err != nil {
		return err
	}

	svc := service.NewIngestionService(loader, p, splitter, nil, store.Indexers...)
	results, err := svc.IngestDir(ctx, ingestFlags.dir)
	if err != nil {
		return fmt.Errorf("walk %s: %w", ingestFlags.dir, err)
	}

	failed := report(cmd.OutOrStdout(), results, ingestFlags.jsonOut)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// report prints the results and returns the number of failed files.
func report(out io.Writer, results []types.IngestResult, asJSON bool) int {
	var failed, chunks int
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
		chunks += len(r.ChunkIDs)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		_ = enc.Encode(results)
		return failed
	}

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(out, "FAIL %s: %s\n", r.File, r.Error)
			continue
		}
		fmt.Fprintf(out, "ok   %s (%d chunks)\n", r.File, len(r.ChunkIDs))
	}
	fmt.Fprintf(out, "\n%d files, %d chunks, %d failed\n", len(results), chunks, failed)
	return failed
}
