package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bataudit/dashboard/internal/platform/upstream"
)

const defaultAPIURL = "http://localhost:8080"

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type globalOptions struct {
	apiURL    string
	redisAddr string
	output    string
	timeout   time.Duration
}

func (o *globalOptions) api() (*upstream.Client, error) {
	return upstream.New(o.apiURL, upstream.WithHTTPClient(&http.Client{Timeout: o.timeout}))
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "batctl",
		Short:         "BatAudit operator CLI",
		Long:          "Command-line access to BatAudit audit events, API health and dashboard jobs.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("api-url") {
				if v := os.Getenv("BATAUDIT_API_URL"); v != "" {
					opts.apiURL = v
				}
			}
			if !cmd.Flags().Changed("redis-addr") {
				if v := os.Getenv("REDIS_ADDR"); v != "" {
					opts.redisAddr = v
				}
			}
			return validateOutputFormat(opts.output)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", defaultAPIURL, "BatAudit API base URL (env BATAUDIT_API_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.redisAddr, "redis-addr", "", "Redis address used by the job queue (env REDIS_ADDR)")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(newAuditCmd(opts))
	rootCmd.AddCommand(newHealthCmd(opts))
	rootCmd.AddCommand(newJobsCmd(opts))
	return rootCmd
}
