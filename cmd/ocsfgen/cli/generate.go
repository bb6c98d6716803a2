package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/mranv/ocsf-opensearch/internal/ocsf/generator"
	"github.com/mranv/ocsf-opensearch/internal/opensearch"
)

// NewGenerateCommand returns the "generate" command, which synthesizes
// random events of one class and uploads or prints them.
func NewGenerateCommand(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <class>",
		Short: "Generate random OCSF events for one class",
		Long: "Generate random OCSF 1.1.0 events for one event class and bulk-upload\n" +
			"them to the cluster, or write them as NDJSON with --dry-run/--output.\n\n" +
			"Known classes: " + strings.Join(generator.Slugs(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			return runGenerate(ctx, cmd, logger, args[0])
		},
	}

	cmd.Flags().Int("events", 100, "number of events to generate")
	cmd.Flags().Int("batch-size", 100, "documents per bulk request")
	cmd.Flags().Int64("seed", 0, "random seed (0 = time-based)")
	cmd.Flags().Float64("rate", 0, "throttle in events per second (0 = unlimited)")
	cmd.Flags().Bool("dry-run", false, "print NDJSON to stdout instead of uploading")
	cmd.Flags().String("output", "", "write NDJSON to a file instead of uploading (.gz compresses)")

	return cmd
}

func runGenerate(ctx context.Context, cmd *cobra.Command, logger *slog.Logger, slug string) error {
	events, _ := cmd.Flags().GetInt("events")
	seed, _ := cmd.Flags().GetInt64("seed")
	eventRate, _ := cmd.Flags().GetFloat64("rate")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	output, _ := cmd.Flags().GetString("output")

	gen, err := generator.New(slug, generator.NewAttributePools())
	if err != nil {
		return err
	}

	rng := newRNG(seed)
	index := gen.Class().Index(time.Now())
	docs := make([]opensearch.Doc, 0, events)
	for range events {
		docs = append(docs, opensearch.Doc{Index: index, Body: gen.Generate(rng)})
	}

	if dryRun {
		return writeNDJSON(os.Stdout, docs)
	}
	if output != "" {
		if err := writeNDJSONFile(output, docs); err != nil {
			return err
		}
		logger.Info("wrote events", "class", slug, "events", len(docs), "output", output)
		return nil
	}

	client, err := clientFromCmd(cmd)
	if err != nil {
		return err
	}
	if err := opensearch.Ping(ctx, client, logger); err != nil {
		return err
	}

	up := uploaderFromCmd(cmd, client, logger)
	if eventRate > 0 {
		// Burst must cover a whole batch for WaitN.
		up.Limiter = rate.NewLimiter(rate.Limit(eventRate), up.BatchSize)
	}

	stats, err := up.Upload(ctx, docs)
	if err != nil {
		return err
	}
	logger.Info("upload complete",
		"class", slug,
		"index", index,
		"indexed", stats.Indexed,
		"failed", stats.Failed)
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed to index", stats.Failed, len(docs))
	}
	return nil
}

// writeNDJSON renders one document per line.
func writeNDJSON(w io.Writer, docs []opensearch.Doc) error {
	enc := json.NewEncoder(w)
	for _, d := range docs {
		if err := enc.Encode(d.Body); err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
	}
	return nil
}

// writeNDJSONFile writes documents to a file, gzip-compressed when the name
// ends in .gz.
func writeNDJSONFile(path string, docs []opensearch.Doc) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}

	if err := writeNDJSON(w, docs); err != nil {
		_ = f.Close()
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			_ = f.Close()
			return fmt.Errorf("finish gzip stream: %w", err)
		}
	}
	return f.Close()
}
