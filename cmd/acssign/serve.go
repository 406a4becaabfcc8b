package main

import (
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jayantasamaddar/go-acssigner/acs3"
	"github.com/jayantasamaddar/go-acssigner/client"
	"github.com/jayantasamaddar/go-acssigner/internal/logging"
	"github.com/jayantasamaddar/go-acssigner/internal/proxy"
)

func newServeCmd(g *globalOptions) *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the signing proxy",
		Long: `serve starts an HTTP proxy that accepts unsigned full-text search requests from browsers,
signs them with the local access key pair and forwards them to the service. Settings come from the
[proxy] section of --config, overridden by ACS_PROXY_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := proxy.LoadConfig(configFile, g.getenv)
			if err != nil {
				return err
			}
			cred, err := g.credentials()
			if err != nil {
				return err
			}
			g.logger.Info("credentials loaded", slog.String("access_key_id", logging.MaskAccessKeyID(cred.AccessKeyID)))
			signer, err := acs3.NewACS3Signer(cred, acs3.WithHashPayload(cfg.HashPayload), acs3.WithLogger(g.logger))
			if err != nil {
				return err
			}
			obs := proxy.NewObservability()
			c, err := client.New(signer, client.Options{
				Endpoint:    cfg.Endpoint,
				HTTPClient:  &http.Client{Timeout: cfg.UpstreamTimeout},
				MaxAttempts: cfg.MaxAttempts,
				Logger:      g.logger,
				Metrics:     client.NewMetrics(obs.Registerer(), ""),
			})
			if err != nil {
				return err
			}
			srv, err := proxy.New(*cfg, c, obs, g.logger)
			if err != nil {
				return err
			}
			return srv.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Proxy config file (ini, [proxy] section)")
	return cmd
}
