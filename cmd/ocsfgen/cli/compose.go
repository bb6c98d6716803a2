package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mranv/ocsf-opensearch/internal/ocsf/generator"
	"github.com/mranv/ocsf-opensearch/internal/opensearch"
)

// NewComposeCommand returns the "compose" command, which runs every
// registered generator and uploads each class to its own index.
func NewComposeCommand(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Generate events for every class at once",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			return runCompose(ctx, cmd, logger)
		},
	}

	cmd.Flags().Int("events-per-type", 100, "events to generate per class")
	cmd.Flags().Int("batch-size", 100, "documents per bulk request")
	cmd.Flags().Int64("seed", 0, "random seed (0 = time-based)")
	cmd.Flags().Int("concurrency", 4, "classes uploaded in parallel")

	return cmd
}

func runCompose(ctx context.Context, cmd *cobra.Command, logger *slog.Logger) error {
	events, _ := cmd.Flags().GetInt("events-per-type")
	seed, _ := cmd.Flags().GetInt64("seed")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	client, err := clientFromCmd(cmd)
	if err != nil {
		return err
	}
	if err := opensearch.Ping(ctx, client, logger); err != nil {
		return err
	}
	up := uploaderFromCmd(cmd, client, logger)

	gens := generator.All(generator.NewAttributePools())
	now := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	var mu sync.Mutex
	var total opensearch.Stats

	for i, gen := range gens {
		classSeed := seed
		if seed != 0 {
			// Distinct streams per class, still reproducible from one seed.
			classSeed = seed + int64(i)
		}
		g.Go(func() error {
			rng := newRNG(classSeed)
			index := gen.Class().Index(now)

			docs := make([]opensearch.Doc, 0, events)
			for range events {
				docs = append(docs, opensearch.Doc{Index: index, Body: gen.Generate(rng)})
			}

			stats, err := up.Upload(ctx, docs)
			if err != nil {
				return fmt.Errorf("upload %s: %w", gen.Class().Slug, err)
			}
			logger.Info("class uploaded",
				"class", gen.Class().Slug,
				"indexed", stats.Indexed,
				"failed", stats.Failed)

			mu.Lock()
			total.Indexed += stats.Indexed
			total.Failed += stats.Failed
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("compose complete",
		"classes", len(gens),
		"indexed", total.Indexed,
		"failed", total.Failed)
	if total.Failed > 0 {
		return fmt.Errorf("%d documents failed to index", total.Failed)
	}
	return nil
}
