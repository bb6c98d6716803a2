// Package opensearch wraps the OpenSearch client: connection setup, the
// bulk uploader with bounded retry, cluster provisioning, and dashboard
// saved-object generation.
package opensearch

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// Env variable names for credential fallback.
const (
	EnvUser     = "OPENSEARCH_USER"
	EnvPassword = "OPENSEARCH_PASSWORD"
)

// Config holds cluster connection parameters.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// Insecure skips TLS certificate verification. Dev clusters run with
	// self-signed certificates, so this defaults on in the CLI.
	Insecure bool
}

// ResolveCredentials fills empty credentials from the environment and
// errors if none are available.
func (c *Config) ResolveCredentials() error {
	if c.Username == "" {
		c.Username = os.Getenv(EnvUser)
	}
	if c.Password == "" {
		c.Password = os.Getenv(EnvPassword)
	}
	if c.Username == "" || c.Password == "" {
		return fmt.Errorf("missing credentials: set --user/--password or %s/%s", EnvUser, EnvPassword)
	}
	return nil
}

// NewClient builds an OpenSearch client for the configured cluster.
func NewClient(cfg Config) (*opensearchgo.Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("opensearch host not set")
	}

	client, err := opensearchgo.NewClient(opensearchgo.Config{
		Addresses: []string{fmt.Sprintf("https://%s:%d", cfg.Host, cfg.Port)},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.Insecure, //nolint:gosec // self-signed dev clusters
			},
		},
		RetryOnStatus: []int{502, 503, 504},
		MaxRetries:    3,
	})
	if err != nil {
		return nil, fmt.Errorf("create opensearch client: %w", err)
	}
	return client, nil
}

// Ping verifies connectivity and logs the cluster identity.
func Ping(ctx context.Context, client *opensearchgo.Client, logger *slog.Logger) error {
	res, err := opensearchapi.InfoRequest{}.Do(ctx, client)
	if err != nil {
		return fmt.Errorf("connect to opensearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("cluster info: %s", res.Status())
	}

	var info struct {
		ClusterName string `json:"cluster_name"`
		Version     struct {
			Distribution string `json:"distribution"`
			Number       string `json:"number"`
		} `json:"version"`
	}
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return fmt.Errorf("decode cluster info: %w", err)
	}

	logger.Info("connected to cluster",
		"cluster", info.ClusterName,
		"distribution", info.Version.Distribution,
		"version", info.Version.Number)
	return nil
}

// sleepCtx sleeps for d or until the context is canceled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
