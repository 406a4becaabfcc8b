package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jayantasamaddar/go-acssigner/acs3"
	"github.com/jayantasamaddar/go-acssigner/internal/logging"
)

func newVerifyCmd(g *globalOptions) *cobra.Command {
	var (
		method      string
		path        string
		body        bodyFlags
		queryPairs  []string
		headerPairs []string
		maxSkew     time.Duration
		secretURL   string
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the Authorization header of a captured request",
		Long: `verify recomputes the signature of a captured request with the local access key pair and
compares it with the Authorization header passed via --header. The access key id in the header must
match the local one, unless --secret-url names a secret service to resolve it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var secrets acs3.SecretProvider
			if secretURL != "" {
				remote, err := acs3.NewHTTPSecretProvider(secretURL)
				if err != nil {
					return err
				}
				secrets = remote
			} else {
				cred, err := g.credentials()
				if err != nil {
					return err
				}
				secrets = acs3.StaticSecrets{cred.AccessKeyID: cred.AccessKeySecret}
			}
			verifier, err := acs3.NewVerifier(
				secrets,
				acs3.WithMaxClockSkew(maxSkew),
				acs3.WithVerifierLogger(g.logger),
			)
			if err != nil {
				return err
			}

			headers, err := parsePairs(headerPairs, "header")
			if err != nil {
				return err
			}
			var authorization string
			for k, v := range headers {
				if strings.EqualFold(k, acs3.HeaderAuthorization) {
					authorization = v
					delete(headers, k)
				}
			}
			if authorization == "" {
				return fmt.Errorf("--header %s=... is required", acs3.HeaderAuthorization)
			}
			req := &acs3.SigningRequest{Method: method, Path: path, Headers: headers}
			if req.Body, err = body.read(cmd); err != nil {
				return err
			}
			query, err := parsePairs(queryPairs, "query")
			if err != nil {
				return err
			}
			if len(query) > 0 {
				req.Query = make(url.Values, len(query))
				for k, v := range query {
					req.Query.Set(k, v)
				}
			}

			g.logger.Debug("verifying captured request",
				slog.String("method", req.Method),
				slog.String("path", req.Path),
				logging.MaskField("authorization", authorization),
			)
			if err := verifier.Verify(cmd.Context(), authorization, req); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "signature valid")
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&method, "method", http.MethodPost, "HTTP method")
	flags.StringVar(&path, "path", "/", "Request path")
	flags.StringArrayVar(&queryPairs, "query", nil, "Query parameter key=value, repeatable")
	flags.StringArrayVar(&headerPairs, "header", nil, "Request header key=value, repeatable; include Authorization")
	flags.DurationVar(&maxSkew, "max-skew", 0, "Reject x-acs-date further than this from now (0 disables)")
	flags.StringVar(&secretURL, "secret-url", "", "Resolve the secret for the claimed access key id from this URL")
	body.register(cmd)
	return cmd
}
