package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jayantasamaddar/go-acssigner/credentials"
	"github.com/jayantasamaddar/go-acssigner/internal/logging"
)

const serviceName = "acssign"

type globalOptions struct {
	accessKeyID     string
	accessKeySecret string
	profileDir      string
	profile         string
	logLevel        string
	env             string

	logger *slog.Logger
	// Overridable in tests.
	getenv func(string) string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{getenv: os.Getenv}
	cmd := &cobra.Command{
		Use:   "acssign",
		Short: "ACS3-HMAC-SHA256 request signing toolkit",
		Long: `acssign builds and checks ACS3-HMAC-SHA256 credentials, calls the legal case full-text
search with them, and runs a signing proxy for browser clients.

Credentials come from --access-key-id/--access-key-secret, then the ALIBABA_CLOUD_ACCESS_KEY_ID and
ALIBABA_CLOUD_ACCESS_KEY_SECRET environment variables, then the profile directory ($HOME/.acs).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			opts.logger = logging.Setup(cmd.ErrOrStderr(), serviceName, opts.env, level)
			return nil
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.accessKeyID, "access-key-id", "", "Access key id")
	flags.StringVar(&opts.accessKeySecret, "access-key-secret", "", "Access key secret")
	flags.StringVar(&opts.profileDir, "profile-dir", "", "Directory holding credential profiles (default $HOME/.acs)")
	flags.StringVar(&opts.profile, "profile", "", "Profile name inside the profile directory")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.env, "env", "", "Environment name attached to every log line")

	cmd.AddCommand(
		newSignCmd(opts),
		newVerifyCmd(opts),
		newSearchCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

func (o *globalOptions) credentials() (credentials.Credentials, error) {
	return credentials.Load(credentials.LoadOptions{
		AccessKeyID:     o.accessKeyID,
		AccessKeySecret: o.accessKeySecret,
		GlobalDir:       o.profileDir,
		GlobalProfile:   o.profile,
		Getenv:          o.getenv,
		Logger:          o.logger,
	})
}

// bodyFlags is shared by commands that take a request body inline or from a file.
type bodyFlags struct {
	body     string
	bodyFile string
}

func (b *bodyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&b.body, "body", "", "Request body")
	cmd.Flags().StringVar(&b.bodyFile, "body-file", "", "Read the request body from a file ('-' for stdin)")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")
}

func (b *bodyFlags) read(cmd *cobra.Command) ([]byte, error) {
	switch b.bodyFile {
	case "":
		return []byte(b.body), nil
	case "-":
		body, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read body from stdin: %w", err)
		}
		return body, nil
	default:
		body, err := os.ReadFile(b.bodyFile)
		if err != nil {
			return nil, fmt.Errorf("read body file: %w", err)
		}
		return body, nil
	}
}

// parsePairs turns repeated "k=v" flags into a map. Keys keep their case.
func parsePairs(pairs []string, flag string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("--%s %q: expected key=value", flag, pair)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}
