// Package cli implements the uapush command line.
package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/kart-io/uapush/pkg/airship"
	"github.com/kart-io/uapush/pkg/config"
	"github.com/kart-io/uapush/pkg/logger"
	"github.com/kart-io/uapush/pkg/observability"
)

var (
	version = "dev"
	commit  = "none"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	envFile   string
	baseURL   string
	logLevel  string
	logFormat string
}

func (f *globalFlags) options() []config.Option {
	var opts []config.Option
	if f.baseURL != "" {
		opts = append(opts, config.WithBaseURL(f.baseURL))
	}
	if f.logLevel != "" {
		opts = append(opts, config.WithLogLevel(f.logLevel))
	}
	if f.logFormat != "" {
		opts = append(opts, config.WithLogFormat(f.logFormat))
	}
	return opts
}

func (f *globalFlags) loadConfig() (*config.Config, error) {
	if f.envFile != "" {
		if err := config.LoadEnvFile(f.envFile); err != nil {
			return nil, err
		}
	}
	return config.Load(f.options()...)
}

// session holds what an API command needs: configuration, logger,
// telemetry and an authenticated client.
type session struct {
	cfg       *config.Config
	log       logger.Logger
	telemetry *observability.Provider
	client    *airship.Client
}

func (f *globalFlags) openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}
	log := cfg.NewLogger(cmd.ErrOrStderr())

	telemetry, err := observability.NewProvider(ctx, cfg.Telemetry, version)
	if err != nil {
		return nil, err
	}
	client, err := airship.NewFromConfig(cfg, airship.WithLogger(log), airship.WithTelemetry(telemetry))
	if err != nil {
		_ = telemetry.Shutdown(ctx)
		return nil, err
	}
	return &session{cfg: cfg, log: log, telemetry: telemetry, client: client}, nil
}

func (s *session) close(ctx context.Context) {
	if err := s.telemetry.Shutdown(ctx); err != nil {
		s.log.Warn("telemetry shutdown failed", "error", err)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:   "uapush",
		Short: "Build, validate and send Airship push notifications",
		Long: "uapush turns YAML or JSON push files into validated Airship payloads, " +
			"sends them, and reads back response statistics.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "load UA_* variables from this .env file")
	cmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "API root (overrides UA_BASE_URL)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "silent, error, warn, info or debug (overrides UA_LOG_LEVEL)")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "console or json (overrides UA_LOG_FORMAT)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newBuildCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newSendCmd(flags))
	cmd.AddCommand(newStatsCmd(flags))
	cmd.AddCommand(newResponsesCmd(flags))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
