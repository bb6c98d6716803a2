// Package cli implements the ocsfgen subcommand tree. Each command group
// lives in its own file; the cluster connection flags are persistent on the
// root command and resolved here.
package cli

import (
	"log/slog"
	"math/rand/v2"
	"time"

	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/spf13/cobra"

	"github.com/mranv/ocsf-opensearch/internal/opensearch"
)

// clientFromCmd builds an OpenSearch client from the persistent connection
// flags on cmd, with env fallback for credentials.
func clientFromCmd(cmd *cobra.Command) (*opensearchgo.Client, error) {
	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")
	user, _ := cmd.Flags().GetString("user")
	password, _ := cmd.Flags().GetString("password")
	insecure, _ := cmd.Flags().GetBool("insecure")

	cfg := opensearch.Config{
		Host:     host,
		Port:     port,
		Username: user,
		Password: password,
		Insecure: insecure,
	}
	if err := cfg.ResolveCredentials(); err != nil {
		return nil, err
	}
	return opensearch.NewClient(cfg)
}

// uploaderFromCmd builds a bulk uploader honoring the --batch-size flag when
// the command defines one.
func uploaderFromCmd(cmd *cobra.Command, client *opensearchgo.Client, logger *slog.Logger) *opensearch.Uploader {
	up := opensearch.NewUploader(client, logger)
	if cmd.Flags().Lookup("batch-size") != nil {
		if batch, err := cmd.Flags().GetInt("batch-size"); err == nil && batch > 0 {
			up.BatchSize = batch
		}
	}
	return up
}

// newRNG seeds a generator run. Seed 0 means a fresh run each invocation.
func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}
