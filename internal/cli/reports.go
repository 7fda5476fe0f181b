package cli

import (
	"time"

	"github.com/spf13/cobra"

	uaerrors "github.com/kart-io/uapush/pkg/errors"
	"github.com/kart-io/uapush/pkg/reports"
)

var dateLayouts = []string{reports.TimeFormat, time.RFC3339, "2006-01-02"}

func parseDate(flag, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, uaerrors.NewMissingFieldError("responses", flag, "--"+flag+" is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, uaerrors.NewValueError("responses", flag,
		"dates must look like 2006-01-02, 2006-01-02 15:04:05 or RFC 3339", v)
}

func newStatsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <push-id>",
		Short: "Show response statistics for one push",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := flags.openSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.close(ctx)

			opts := []reports.Option{reports.WithTelemetry(s.telemetry)}
			cache, err := reports.NewCache(ctx, s.cfg.Cache, s.log)
			if err != nil {
				return err
			}
			if cache != nil {
				defer cache.Close()
				opts = append(opts, reports.WithCache(cache, s.cfg.Cache.TTL))
			}

			stats, err := reports.NewIndividualResponseStats(s.client, opts...).Get(ctx, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), stats)
		},
	}
}

func newResponsesCmd(flags *globalFlags) *cobra.Command {
	var (
		start, end string
		limit      int
		startID    string
		all        bool
	)
	cmd := &cobra.Command{
		Use:   "responses",
		Short: "List push responses between two dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseDate("start", start)
			if err != nil {
				return err
			}
			to, err := parseDate("end", end)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s, err := flags.openSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.close(ctx)

			listing := reports.NewResponseListing(s.client, reports.WithTelemetry(s.telemetry))
			page, err := listing.Get(ctx, from, to, limit, startID)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), page); err != nil {
				return err
			}
			for all {
				next, ok, err := listing.Next(ctx, page)
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				if err := writeJSON(cmd.OutOrStdout(), next); err != nil {
					return err
				}
				page = next
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "start of the range")
	cmd.Flags().StringVar(&end, "end", "", "end of the range")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum responses per page")
	cmd.Flags().StringVar(&startID, "start-id", "", "push id to start listing from")
	cmd.Flags().BoolVar(&all, "all", false, "follow next_page links until exhausted")
	return cmd
}
