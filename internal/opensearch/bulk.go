package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	"golang.org/x/time/rate"

	"github.com/mranv/ocsf-opensearch/internal/logging"
)

const (
	defaultBatchSize  = 100
	defaultMaxRetries = 3

	// consecutiveFailureThreshold is how many failed batches in a row
	// trigger the extra exponential backoff on top of per-attempt sleeps.
	consecutiveFailureThreshold = 5
)

// Doc is one document destined for an index. ID is optional; when empty
// the cluster assigns one.
type Doc struct {
	Index string
	ID    string
	Body  any
}

// Stats summarizes an upload run.
type Stats struct {
	Indexed int
	Failed  int
}

// Uploader writes documents to the cluster in batches. Batches are
// sequential per index; a failed batch is retried with a progressive
// delay, and sustained failure adds exponential backoff. Per-item errors
// in an otherwise successful bulk response are counted, not retried.
type Uploader struct {
	client *opensearchgo.Client
	logger *slog.Logger

	BatchSize  int
	MaxRetries int
	// Limiter, when set, throttles document throughput.
	Limiter *rate.Limiter

	sleep func(context.Context, time.Duration) error
}

// NewUploader creates an Uploader with default batch size and retry count.
// A nil logger discards output.
func NewUploader(client *opensearchgo.Client, logger *slog.Logger) *Uploader {
	return &Uploader{
		client:     client,
		logger:     logging.Default(logger).With("component", "uploader"),
		BatchSize:  defaultBatchSize,
		MaxRetries: defaultMaxRetries,
		sleep:      sleepCtx,
	}
}

// Upload indexes all docs, grouped by target index. It returns the
// aggregate stats; the error is non-nil only for unrecoverable conditions
// (context cancellation, encoding failures), not for indexing failures,
// which are reported in Stats.Failed.
func (u *Uploader) Upload(ctx context.Context, docs []Doc) (Stats, error) {
	var stats Stats

	// Group by index, preserving first-seen order.
	var order []string
	grouped := make(map[string][]Doc)
	for _, d := range docs {
		if _, ok := grouped[d.Index]; !ok {
			order = append(order, d.Index)
		}
		grouped[d.Index] = append(grouped[d.Index], d)
	}

	consecutiveFailures := 0
	backoff := time.Second

	for _, index := range order {
		indexDocs := grouped[index]
		for start := 0; start < len(indexDocs); start += u.BatchSize {
			end := min(start+u.BatchSize, len(indexDocs))
			batch := indexDocs[start:end]

			if u.Limiter != nil {
				if err := u.Limiter.WaitN(ctx, len(batch)); err != nil {
					return stats, err
				}
			}

			body, err := bulkBody(batch)
			if err != nil {
				return stats, err
			}

			for attempt := 1; ; attempt++ {
				if consecutiveFailures >= consecutiveFailureThreshold {
					u.logger.Warn("too many consecutive failures, backing off", "backoff", backoff)
					if err := u.sleep(ctx, backoff); err != nil {
						return stats, err
					}
					backoff *= 2
				}

				indexed, itemFailures, err := u.doBulk(ctx, body)
				if err == nil {
					stats.Indexed += indexed
					stats.Failed += itemFailures
					consecutiveFailures = 0
					backoff = time.Second
					break
				}

				consecutiveFailures++
				u.logger.Error("bulk upload failed",
					"index", index,
					"attempt", attempt,
					"max_retries", u.MaxRetries,
					"error", err)

				if attempt >= u.MaxRetries {
					stats.Failed += len(batch)
					break
				}
				if err := u.sleep(ctx, time.Duration(attempt*2)*time.Second); err != nil {
					return stats, err
				}
			}

			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}
	}

	return stats, nil
}

// doBulk sends one bulk request and parses the per-item results. The
// returned error indicates a transport or HTTP-level failure of the whole
// request; per-item failures are returned in the second result.
func (u *Uploader) doBulk(ctx context.Context, body []byte) (indexed, failed int, err error) {
	res, err := opensearchapi.BulkRequest{
		Body:    bytes.NewReader(body),
		Timeout: 30 * time.Second,
	}.Do(ctx, u.client)
	if err != nil {
		return 0, 0, fmt.Errorf("bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, 0, fmt.Errorf("bulk request: %s", res.Status())
	}

	var parsed struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
			Error  *struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, 0, fmt.Errorf("decode bulk response: %w", err)
	}

	for _, item := range parsed.Items {
		for _, result := range item {
			if result.Error != nil || result.Status >= 300 {
				failed++
				if result.Error != nil {
					u.logger.Error("failed to index document",
						"type", result.Error.Type,
						"reason", result.Error.Reason)
				}
			} else {
				indexed++
			}
		}
	}
	return indexed, failed, nil
}

// bulkBody renders the NDJSON bulk payload for a batch.
func bulkBody(batch []Doc) ([]byte, error) {
	var buf bytes.Buffer
	for _, d := range batch {
		meta := map[string]map[string]string{
			"index": {"_index": d.Index},
		}
		if d.ID != "" {
			meta["index"]["_id"] = d.ID
		}
		if err := json.NewEncoder(&buf).Encode(meta); err != nil {
			return nil, fmt.Errorf("encode bulk action: %w", err)
		}
		if err := json.NewEncoder(&buf).Encode(d.Body); err != nil {
			return nil, fmt.Errorf("encode bulk document: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// Index writes a single document, refreshing so it is immediately
// searchable. Used by the sample ingester where idempotence matters more
// than throughput.
func (u *Uploader) Index(ctx context.Context, index, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	res, err := opensearchapi.IndexRequest{
		Index:      index,
		DocumentID: id,
		Body:       bytes.NewReader(raw),
		Refresh:    "true",
	}.Do(ctx, u.client)
	if err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index document: %s", res.Status())
	}
	return nil
}
