package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mranv/ocsf-opensearch/internal/opensearch"
)

func newIngestSampleCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Ingest pre-structured JSON documents, routing each by content",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			return runIngestSample(ctx, cmd, logger)
		},
	}

	cmd.Flags().String("file", "", "JSON file holding an array of documents, or a single object (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runIngestSample(ctx context.Context, cmd *cobra.Command, logger *slog.Logger) error {
	path, _ := cmd.Flags().GetString("file")

	docs, err := readSampleDocs(path)
	if err != nil {
		return err
	}

	client, err := clientFromCmd(cmd)
	if err != nil {
		return err
	}
	if err := opensearch.Ping(ctx, client, logger); err != nil {
		return err
	}
	up := opensearch.NewUploader(client, logger)

	indexed, failed := 0, 0
	for _, doc := range docs {
		doc = opensearch.Normalize(doc)
		index := opensearch.RouteIndex(doc)

		id, err := opensearch.DocID(doc)
		if err != nil {
			return fmt.Errorf("hash document: %w", err)
		}
		if err := up.Index(ctx, index, id, doc); err != nil {
			failed++
			logger.Error("failed to index document", "index", index, "id", id, "error", err)
			continue
		}
		indexed++
		logger.Debug("indexed document", "index", index, "id", id)
	}

	logger.Info("sample ingest complete", "file", path, "indexed", indexed, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed to index", failed, len(docs))
	}
	return nil
}

// readSampleDocs loads a JSON array of objects, accepting a single object
// as a one-element batch.
func readSampleDocs(path string) ([]map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}

	var docs []map[string]any
	if err := json.Unmarshal(raw, &docs); err == nil {
		return docs, nil
	}

	var single map[string]any
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("parse %q: expected a JSON array or object: %w", path, err)
	}
	return []map[string]any{single}, nil
}
