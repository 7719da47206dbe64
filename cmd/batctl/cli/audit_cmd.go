package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bataudit/dashboard/internal/audit"
	"github.com/bataudit/dashboard/internal/pagination"
)

func newAuditCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Query audit events",
	}
	cmd.AddCommand(newAuditListCmd(opts))
	cmd.AddCommand(newAuditGetCmd(opts))
	return cmd
}

type listOutput struct {
	audit.PagedResult
	Controls []pagination.Control `json:"controls"`
}

func newAuditListCmd(opts *globalOptions) *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of audit events",
		Long:  "List one page of audit events. --page and --limit must be given together; without them the server applies its default paging.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := listParams(cmd.Flags(), page, limit)
			if err != nil {
				return err
			}
			api, err := opts.api()
			if err != nil {
				return err
			}
			result, err := audit.NewClient(api).List(cmd.Context(), params)
			if err != nil {
				return err
			}

			current := max(result.Pagination.Page, 1)
			var next int
			window := pagination.New(current, result.TotalPages(), func(p int) { next = p })

			out := cmd.OutOrStdout()
			if opts.output == "json" {
				return printJSON(out, listOutput{PagedResult: result, Controls: window.Controls()})
			}

			rows := make([][]string, 0, len(result.Data))
			for _, e := range result.Data {
				rows = append(rows, []string{
					e.ID.String(),
					e.Timestamp.UTC().Format(time.RFC3339),
					e.Method,
					e.Path,
					strconv.Itoa(e.StatusCode),
					e.ServiceName,
				})
			}
			if err := printTable(out, []string{"ID", "TIMESTAMP", "METHOD", "PATH", "STATUS", "SERVICE"}, rows); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d of %d events\n", len(result.Data), result.Pagination.TotalItems)
			fmt.Fprintln(out, windowText(window.Controls()))

			controls := window.Controls()
			window.Activate(controls[len(controls)-1])
			if next != current {
				pageLimit := result.Pagination.Limit
				if params != nil {
					pageLimit = params.Limit
				}
				fmt.Fprintf(out, "next: batctl audit list --page %d --limit %d\n", next, pageLimit)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "Page number, starting at 1 (requires --limit)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Events per page (requires --page)")
	return cmd
}

// listParams enforces that page and limit are sent together or not at all.
func listParams(flags *pflag.FlagSet, page, limit int) (*audit.ListParams, error) {
	pageSet := flags.Changed("page")
	limitSet := flags.Changed("limit")
	switch {
	case !pageSet && !limitSet:
		return nil, nil
	case pageSet != limitSet:
		return nil, errors.New("--page and --limit must be set together")
	case page < 1 || limit < 1:
		return nil, errors.New("--page and --limit must be at least 1")
	}
	return &audit.ListParams{Page: page, Limit: limit}, nil
}

func newAuditGetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single audit event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid event id %q: %w", args[0], err)
			}
			api, err := opts.api()
			if err != nil {
				return err
			}
			event, err := audit.NewClient(api).Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.output == "json" {
				return printJSON(out, event)
			}
			return printTable(out, []string{"FIELD", "VALUE"}, [][]string{
				{"id", event.ID.String()},
				{"timestamp", event.Timestamp.UTC().Format(time.RFC3339)},
				{"method", event.Method},
				{"path", event.Path},
				{"status_code", strconv.Itoa(event.StatusCode)},
				{"service_name", event.ServiceName},
				{"identifier", event.Identifier},
				{"user_email", event.UserEmail},
				{"user_name", event.UserName},
				{"response_time_ms", strconv.FormatInt(event.ResponseTime, 10)},
			})
		},
	}
}
