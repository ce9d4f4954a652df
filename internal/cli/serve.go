package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/headline-goat/goatchart/internal/server"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		port  int
		token string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dataset over HTTP",
		Long: `Load the dataset once and serve it for chart clients.

The server provides:
  - /data.json with the raw daily counts (aggregation stays client side)
  - /health for liveness checks
  - /metrics in Prometheus format

Set --token (or GC_TOKEN) to require a token for /data.json.

Example:
  goatchart serve --data ./hlg.db --test hero --port 8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := opts.loadDataset(cmd.Context())
			if err != nil {
				return err
			}

			srv, err := server.New(ds, port, token, opts.logger())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Serving %d days for %d variations at http://localhost:%d/data.json\n",
				len(ds.Data), len(ds.Variations), port)
			if srv.Token() != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Browser link: http://localhost:%d/data.json?token=%s\n", port, srv.Token())
			}
			return srv.Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", opts.cfg.Port, "port to listen on")
	cmd.Flags().StringVar(&token, "token", opts.cfg.Token, "token required to fetch /data.json")
	return cmd
}
