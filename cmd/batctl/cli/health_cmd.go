package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bataudit/dashboard/internal/health"
)

func newHealthCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show the BatAudit API health report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := opts.api()
			if err != nil {
				return err
			}
			snap, err := health.NewClient(api).Query(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.output == "json" {
				return printJSON(out, snap)
			}
			return printTable(out, []string{"STATUS", "DB", "API_MS", "DB_MS", "ENV", "VERSION"}, [][]string{{
				snap.Status,
				snap.DBStatus,
				strconv.FormatInt(snap.APIResponseMS, 10),
				strconv.FormatInt(snap.DBResponseMS, 10),
				snap.Environment,
				snap.Version,
			}})
		},
	}
}
