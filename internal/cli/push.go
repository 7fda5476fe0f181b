package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kart-io/uapush/pkg/airship"
	"github.com/kart-io/uapush/pkg/push"
)

func loadPush(path string, client *airship.Client) (*push.Push, error) {
	f, err := readPushFile(path)
	if err != nil {
		return nil, err
	}
	p := push.New(client)
	if err := f.toPush(p); err != nil {
		return nil, err
	}
	return p, nil
}

// loadPush decodes path inside a uapush.load_push span.
func (s *session) loadPush(ctx context.Context, path string) (*push.Push, error) {
	_, span := s.telemetry.TraceOperation(ctx, "uapush.load_push", attribute.String("file", path))
	defer span.End()

	p, err := loadPush(path, s.client)
	if err != nil {
		s.telemetry.SetSpanError(span, err)
		return nil, err
	}
	s.telemetry.SetSpanSuccess(span)
	return p, nil
}

func newBuildCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "build <file>",
		Short: "Print the API payload for a push file",
		Long:  "Build validates a push file locally and prints the JSON body that would be sent. Use - to read from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := flags.loadConfig(); err != nil {
				return err
			}
			p, err := loadPush(args[0], nil)
			if err != nil {
				return err
			}
			body, err := p.Payload()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), body)
		},
	}
}

func newValidateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Ask the API to validate a push file without sending it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := flags.openSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.close(ctx)

			p, err := s.loadPush(ctx, args[0])
			if err != nil {
				return err
			}
			if err := p.Validate(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func newSendCmd(flags *globalFlags) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "send <file>",
		Short: "Send a push file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := flags.openSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.close(ctx)

			p, err := s.loadPush(ctx, args[0])
			if err != nil {
				return err
			}
			if dryRun {
				if err := p.Validate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			}
			resp, err := p.Send(ctx)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate against the API instead of sending")
	return cmd
}
