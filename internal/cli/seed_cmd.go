package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCmd(app *App) *cobra.Command {
	var agencyID string
	var fake int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo data for an agency",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fake < 0 {
				return fmt.Errorf("--fake must not be negative")
			}

			c, err := app.start(cmd.Context())
			if err != nil {
				return err
			}
			defer shutdown(c)

			if agencyID == "" {
				agencyID = c.Config().AgencyID()
			}

			out := cmd.OutOrStdout()
			seeded, err := c.Seeder().Seed(cmd.Context(), agencyID)
			if err != nil {
				return err
			}
			if seeded {
				fmt.Fprintf(out, "Seeded demo data for agency %s\n", agencyID)
			} else {
				fmt.Fprintf(out, "Demo data already present for agency %s\n", agencyID)
			}

			if fake > 0 {
				if err := c.Seeder().Generate(cmd.Context(), agencyID, fake); err != nil {
					return err
				}
				fmt.Fprintf(out, "Generated %d fake record(s)\n", fake)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&agencyID, "agency", "", "Agency ID (defaults to the configured agency)")
	cmd.Flags().IntVar(&fake, "fake", 0, "Also generate this many random clients and expenses")

	return cmd
}
