package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
	"github.com/mranv/ocsf-opensearch/internal/opensearch"
)

// NewInitCommand returns the "init" command, which provisions the cluster
// for all event classes.
func NewInitCommand(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Provision ISM policy, templates, indices, and rollover aliases",
		Long: "Create the rollover/expiration ISM policy, shared component templates,\n" +
			"one index template per event class, the initial dated indices, and\n" +
			"their rollover aliases. Safe to re-run; existing resources are left\n" +
			"in place.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			client, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			if err := opensearch.Ping(ctx, client, logger); err != nil {
				return err
			}

			p := opensearch.NewProvisioner(client, logger, ocsf.Classes())
			if err := p.Init(ctx); err != nil {
				return err
			}
			logger.Info("cluster provisioned", "classes", len(ocsf.Classes()))
			return nil
		},
	}
}
