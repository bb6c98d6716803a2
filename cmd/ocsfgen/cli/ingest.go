package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// NewIngestCommand returns the "ingest" command tree.
func NewIngestCommand(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest existing logs and documents into the cluster",
	}

	cmd.AddCommand(
		newIngestApacheCmd(logger),
		newIngestSampleCmd(logger),
		newIngestOCSFAPICmd(logger),
	)

	return cmd
}
