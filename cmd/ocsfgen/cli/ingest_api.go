package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
	"github.com/mranv/ocsf-opensearch/internal/opensearch"
	"github.com/mranv/ocsf-opensearch/internal/schemaapi"
)

func newIngestOCSFAPICmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ocsf-api",
		Short: "Periodically fetch sample events from the OCSF schema server",
		Long: "Fetch a randomly generated sample event for one class from the public\n" +
			"OCSF schema server on a fixed interval and index it. Runs until\n" +
			"interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			return runIngestOCSFAPI(ctx, cmd, logger)
		},
	}

	cmd.Flags().Duration("interval", 30*time.Second, "fetch interval")
	cmd.Flags().String("class", ocsf.HTTPActivity.Slug, "event class slug to sample")
	cmd.Flags().String("schema-url", "", "override the schema server sample endpoint")

	return cmd
}

func runIngestOCSFAPI(ctx context.Context, cmd *cobra.Command, logger *slog.Logger) error {
	interval, _ := cmd.Flags().GetDuration("interval")
	slug, _ := cmd.Flags().GetString("class")
	schemaURL, _ := cmd.Flags().GetString("schema-url")

	class, ok := ocsf.ClassBySlug(slug)
	if !ok {
		known := make([]string, 0, len(ocsf.Classes()))
		for _, c := range ocsf.Classes() {
			known = append(known, c.Slug)
		}
		return fmt.Errorf("unknown event class %q (known: %s)", slug, strings.Join(known, ", "))
	}

	client, err := clientFromCmd(cmd)
	if err != nil {
		return err
	}
	if err := opensearch.Ping(ctx, client, logger); err != nil {
		return err
	}
	up := opensearch.NewUploader(client, logger)
	schema := &schemaapi.Client{BaseURL: schemaURL}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	fetchOnce := func() {
		fetchCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()

		doc, err := schema.FetchSample(fetchCtx, class.Slug)
		if err != nil {
			logger.Error("fetch sample failed", "class", class.Slug, "error", err)
			return
		}

		index := class.Index(time.Now())
		id, err := opensearch.DocID(doc)
		if err != nil {
			logger.Error("hash sample failed", "class", class.Slug, "error", err)
			return
		}
		if err := up.Index(fetchCtx, index, id, doc); err != nil {
			logger.Error("index sample failed", "index", index, "error", err)
			return
		}
		logger.Info("indexed sample event", "class", class.Slug, "index", index, "id", id)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fetchOnce),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule fetch job: %w", err)
	}

	scheduler.Start()
	logger.Info("sampling schema server", "class", class.Slug, "interval", interval)

	<-ctx.Done()
	if err := scheduler.Shutdown(); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	return nil
}
