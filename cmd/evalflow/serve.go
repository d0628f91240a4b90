package main

import (
	"github.com/spf13/cobra"

	"github.com/askiada/go-evalflow/pkg/serve"
)

var (
	serveFlowPath        string
	serveHost            string
	servePort            int
	serveSkipOpenBrowser bool

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve a flow as a local http app",
		RunE:  serveFlow,
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveFlowPath, "flow", "", "flow directory or manifest to serve")
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "host to bind")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to bind, 0 picks a free one")
	serveCmd.Flags().BoolVar(&serveSkipOpenBrowser, "skip-open-browser", false, "do not open the system browser on start")

	_ = serveCmd.MarkFlagRequired("flow")
}

func serveFlow(cmd *cobra.Command, _ []string) error {
	helper, err := serve.New(serveFlowPath,
		serve.WithHost(serveHost),
		serve.WithPort(servePort),
		serve.WithSkipOpenBrowser(serveSkipOpenBrowser),
		serve.WithLogger(newLogger("serve")),
	)
	if err != nil {
		return err
	}

	return helper.StartInMain(cmd.Context())
}
