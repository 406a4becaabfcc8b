package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jayantasamaddar/go-acssigner/acs3"
	"github.com/jayantasamaddar/go-acssigner/client"
	"github.com/jayantasamaddar/go-acssigner/internal/logging"
)

func newSearchCmd(g *globalOptions) *cobra.Command {
	var (
		endpoint    string
		workspaceID string
		body        bodyFlags
		maxAttempts int
		timeout     time.Duration
		hashPayload bool
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a legal case full-text search",
		Example: `  acssign search --workspace ws1 \
    --body '{"query":"contract dispute","pageSize":10}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := g.credentials()
			if err != nil {
				return err
			}
			signer, err := acs3.NewACS3Signer(cred, acs3.WithHashPayload(hashPayload), acs3.WithLogger(g.logger))
			if err != nil {
				return err
			}
			c, err := client.New(signer, client.Options{
				Endpoint:    endpoint,
				HTTPClient:  &http.Client{Timeout: timeout},
				MaxAttempts: maxAttempts,
				Logger:      g.logger,
			})
			if err != nil {
				return err
			}
			payload, err := body.read(cmd)
			if err != nil {
				return err
			}

			resp, err := c.RunSearchCaseFullText(cmd.Context(), workspaceID, payload)
			if err != nil {
				return err
			}
			g.logger.Info("search completed",
				slog.Int("status", resp.StatusCode),
				slog.String("request_id", resp.RequestID),
				slog.String("access_key_id", logging.MaskAccessKeyID(cred.AccessKeyID)),
			)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(resp.Body))
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&endpoint, "endpoint", "farui.cn-beijing.aliyuncs.com", "Service endpoint host or base URL")
	flags.StringVar(&workspaceID, "workspace", "", "Workspace id")
	flags.IntVar(&maxAttempts, "max-attempts", client.DefaultMaxAttempts, "Attempts per call, including the first")
	flags.DurationVar(&timeout, "timeout", 30*time.Second, "Per-attempt HTTP timeout")
	flags.BoolVar(&hashPayload, "hash-payload", false, "Add x-acs-content-sha256")
	body.register(cmd)
	_ = cmd.MarkFlagRequired("workspace")
	return cmd
}
