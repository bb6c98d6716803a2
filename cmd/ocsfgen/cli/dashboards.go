package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
	"github.com/mranv/ocsf-opensearch/internal/opensearch"
)

// NewDashboardsCommand returns the "dashboards" command, which emits
// Dashboards saved-object NDJSON for import.
func NewDashboardsCommand(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboards",
		Short: "Build Dashboards saved-object NDJSON for an index pattern",
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, _ := cmd.Flags().GetString("index-pattern")
			output, _ := cmd.Flags().GetString("output")

			objects := opensearch.BuildDashboard(pattern)

			var w io.Writer = os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			if err := opensearch.WriteNDJSON(w, objects); err != nil {
				return err
			}
			if output != "" {
				logger.Info("wrote saved objects", "objects", len(objects), "output", output)
			}
			return nil
		},
	}

	cmd.Flags().String("index-pattern", ocsf.NetworkActivity.Pattern(), "index pattern the dashboard queries")
	cmd.Flags().String("output", "", "write NDJSON to a file (default stdout)")

	return cmd
}
