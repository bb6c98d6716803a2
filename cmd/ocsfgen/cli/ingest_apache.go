package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mranv/ocsf-opensearch/internal/apache"
	"github.com/mranv/ocsf-opensearch/internal/geo"
	"github.com/mranv/ocsf-opensearch/internal/opensearch"
)

// followPollInterval is the fallback poll cadence while tailing, for
// filesystems where fsnotify events are unreliable.
const followPollInterval = time.Second

func newIngestApacheCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apache",
		Short: "Ingest Apache combined-format access logs as Network Activity events",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			return runIngestApache(ctx, cmd, logger)
		},
	}

	cmd.Flags().String("file", "", "access log path or doublestar glob (required)")
	cmd.Flags().Int("batch-size", 100, "documents per bulk request")
	cmd.Flags().String("geoip", "", "MaxMind MMDB path for src_endpoint geo enrichment")
	cmd.Flags().Bool("follow", false, "keep tailing the file for appended lines")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runIngestApache(ctx context.Context, cmd *cobra.Command, logger *slog.Logger) error {
	pattern, _ := cmd.Flags().GetString("file")
	geoipPath, _ := cmd.Flags().GetString("geoip")
	follow, _ := cmd.Flags().GetBool("follow")

	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return fmt.Errorf("expand glob %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files match %q", pattern)
	}
	if follow && len(paths) != 1 {
		return fmt.Errorf("--follow needs a single file, %q matches %d", pattern, len(paths))
	}

	var resolver *geo.Resolver
	if geoipPath != "" {
		resolver = geo.NewResolver(logger)
		defer resolver.Close()
		info, err := resolver.Load(geoipPath)
		if err != nil {
			return err
		}
		logger.Info("loaded geoip database",
			"path", geoipPath,
			"type", info.DatabaseType,
			"built", info.BuildTime.Format(time.DateOnly))

		// Long-running follows pick up database updates in place.
		if follow {
			if err := resolver.WatchFile(geoipPath); err != nil {
				return err
			}
		}
	}

	client, err := clientFromCmd(cmd)
	if err != nil {
		return err
	}
	if err := opensearch.Ping(ctx, client, logger); err != nil {
		return err
	}

	ing := &apacheIngestor{
		logger:   logger,
		uploader: uploaderFromCmd(cmd, client, logger),
		resolver: resolver,
	}

	for _, path := range paths {
		if err := ing.ingestFile(ctx, path); err != nil {
			return err
		}
	}

	logger.Info("apache ingest complete",
		"files", len(paths),
		"indexed", ing.stats.Indexed,
		"failed", ing.stats.Failed,
		"unparseable", ing.parseFailures)

	if follow {
		logger.Info("following file", "path", paths[0])
		if err := ing.follow(ctx, paths[0]); err != nil {
			return err
		}
	}

	if ing.stats.Failed > 0 {
		return fmt.Errorf("%d documents failed to index", ing.stats.Failed)
	}
	return nil
}

// apacheIngestor parses access log lines into OCSF documents and uploads
// them, accumulating run totals.
type apacheIngestor struct {
	logger   *slog.Logger
	uploader *opensearch.Uploader
	resolver *geo.Resolver

	stats         opensearch.Stats
	parseFailures int
}

// mapLine parses one log line into an upload-ready document. Unparseable
// lines are counted, never fatal.
func (a *apacheIngestor) mapLine(line string) (opensearch.Doc, bool) {
	entry, err := apache.ParseLine(line)
	if err != nil {
		a.parseFailures++
		a.logger.Debug("skipping unparseable line", "error", err)
		return opensearch.Doc{}, false
	}

	ev, index := apache.MapEvent(entry)
	if a.resolver != nil {
		ev.SrcEndpoint.Geo = a.resolver.Lookup(ev.SrcEndpoint.IP)
	}

	// Content-hash IDs make re-ingesting the same file idempotent.
	id, err := opensearch.DocID(ev)
	if err != nil {
		a.parseFailures++
		a.logger.Debug("skipping unhashable event", "error", err)
		return opensearch.Doc{}, false
	}
	return opensearch.Doc{Index: index, ID: id, Body: ev}, true
}

// ingestFile uploads every parseable line of one file, flushing a batch at
// a time so large files stream.
func (a *apacheIngestor) ingestFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	var docs []opensearch.Doc
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if doc, ok := a.mapLine(line); ok {
			docs = append(docs, doc)
		}
		if len(docs) >= a.uploader.BatchSize {
			if err := a.flush(ctx, docs); err != nil {
				return err
			}
			docs = docs[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %q: %w", path, err)
	}
	return a.flush(ctx, docs)
}

func (a *apacheIngestor) flush(ctx context.Context, docs []opensearch.Doc) error {
	if len(docs) == 0 {
		return nil
	}
	stats, err := a.uploader.Upload(ctx, docs)
	a.stats.Indexed += stats.Indexed
	a.stats.Failed += stats.Failed
	return err
}

// follow tails the file for appended lines until the context is canceled,
// combining fsnotify write events with a poll ticker fallback. Truncation
// resets the read offset to the start.
func (a *apacheIngestor) follow(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	// Existing content was already ingested; start from the end.
	offset, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("seek %q: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %q: %w", path, err)
	}

	ticker := time.NewTicker(followPollInterval)
	defer ticker.Stop()

	var partial []byte
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if offset, partial, err = a.readAppended(ctx, f, offset, partial); err != nil {
				return err
			}

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watch error", "error", werr)

		case <-ticker.C:
			if offset, partial, err = a.readAppended(ctx, f, offset, partial); err != nil {
				return err
			}
		}
	}
}

// readAppended ingests complete lines written past offset. A trailing
// fragment with no newline yet is carried over to the next read.
func (a *apacheIngestor) readAppended(ctx context.Context, f *os.File, offset int64, partial []byte) (int64, []byte, error) {
	info, err := f.Stat()
	if err != nil {
		return offset, partial, fmt.Errorf("stat %q: %w", f.Name(), err)
	}

	if info.Size() < offset {
		a.logger.Info("file truncated, restarting from the top", "path", f.Name())
		offset = 0
		partial = nil
	}
	if info.Size() == offset {
		return offset, partial, nil
	}

	buf := make([]byte, info.Size()-offset)
	n, err := f.ReadAt(buf, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return offset, partial, fmt.Errorf("read %q: %w", f.Name(), err)
	}
	offset += int64(n)

	var docs []opensearch.Doc
	data := append(partial, buf[:n]...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		line := string(bytes.TrimSuffix(data[:i], []byte("\r")))
		data = data[i+1:]
		if line == "" {
			continue
		}
		if doc, ok := a.mapLine(line); ok {
			docs = append(docs, doc)
		}
	}

	if err := a.flush(ctx, docs); err != nil {
		return offset, data, err
	}
	return offset, data, nil
}
