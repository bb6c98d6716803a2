// Command ocsfgen generates, parses, and uploads OCSF 1.1.0 security events
// for an OpenSearch cluster, and provisions the cluster to receive them.
//
// Logging:
//   - Base logger is created here with output format and level
//   - Logger is passed to all components via dependency injection
//   - No global slog configuration (no slog.SetDefault)
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mranv/ocsf-opensearch/cmd/ocsfgen/cli"
)

var version = "dev"

func main() {
	logLevel := &slog.LevelVar{}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	rootCmd := &cobra.Command{
		Use:   "ocsfgen",
		Short: "OCSF event generation and OpenSearch ingestion toolkit",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				logLevel.Set(slog.LevelDebug)
			}
		},
	}

	rootCmd.PersistentFlags().String("host", "localhost", "opensearch host")
	rootCmd.PersistentFlags().Int("port", 9200, "opensearch port")
	rootCmd.PersistentFlags().String("user", "", "opensearch username (or OPENSEARCH_USER env)")
	rootCmd.PersistentFlags().String("password", "", "opensearch password (or OPENSEARCH_PASSWORD env)")
	rootCmd.PersistentFlags().Bool("insecure", true, "skip TLS certificate verification")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	rootCmd.AddCommand(
		cli.NewGenerateCommand(logger),
		cli.NewComposeCommand(logger),
		cli.NewIngestCommand(logger),
		cli.NewInitCommand(logger),
		cli.NewDashboardsCommand(logger),
		versionCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
