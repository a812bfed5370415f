package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/likelee/agency-dashboard/internal/domain/listing"
)

func newExportCmd(app *App) *cobra.Command {
	var agencyID, status, out string

	cmd := &cobra.Command{
		Use:       "export invoices|statements",
		Short:     "Write an xlsx workbook of invoices or statements",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"invoices", "statements"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := app.start(ctx)
			if err != nil {
				return err
			}
			defer shutdown(c)

			if agencyID == "" {
				agencyID = c.Config().AgencyID()
			}
			q := listing.Query{Desc: true}
			if status != "" {
				q.Filters = map[string]string{"status": status}
			}

			var export func(context.Context, string, listing.Query) ([]byte, error)
			switch args[0] {
			case "invoices":
				q.SortBy = "date"
				export = c.Services().Invoices.Export
			default:
				q.SortBy = "period"
				export = c.Services().Statements.Export
			}

			data, err := export(ctx, agencyID, q)
			if err != nil {
				return err
			}

			if out == "" {
				out = args[0] + ".xlsx"
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, len(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&agencyID, "agency", "", "Agency ID (defaults to the configured agency)")
	cmd.Flags().StringVar(&status, "status", "", "Only export records with this status")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (defaults to <kind>.xlsx)")

	return cmd
}
