package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/quentinrf/sleep-service/pkg/pb"
	"github.com/quentinrf/sleep-service/pkg/tlsconfig"
)

type options struct {
	addr    string
	tls     tlsconfig.Files
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "sleepctl",
		Short:        "Query the sleep service",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.addr, "addr", "localhost:50052", "sleep service address")
	root.PersistentFlags().StringVar(&opts.tls.Cert, "tls-cert", "", "client certificate for mTLS")
	root.PersistentFlags().StringVar(&opts.tls.Key, "tls-key", "", "client private key for mTLS")
	root.PersistentFlags().StringVar(&opts.tls.CA, "tls-ca", "", "CA certificate for mTLS")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "per-request timeout")

	root.AddCommand(
		newSamplesCmd(opts),
		newBedtimeCmd(opts),
		newPurgeCmd(opts),
	)
	return root
}

// dial connects to the service and returns a client with its closer.
func (o *options) dial() (pb.SleepServiceClient, func() error, error) {
	creds := insecure.NewCredentials()
	if o.tls.Enabled() {
		tlsCfg, err := tlsconfig.LoadClientTLS(o.tls)
		if err != nil {
			return nil, nil, fmt.Errorf("load TLS config: %w", err)
		}
		creds = credentials.NewTLS(tlsCfg)
	}

	conn, err := grpc.NewClient(o.addr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to %s: %w", o.addr, err)
	}
	return pb.NewSleepServiceClient(conn), conn.Close, nil
}

func (o *options) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

func newSamplesCmd(opts *options) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "samples",
		Short: "List sleep samples starting in a range",
		Long: "List sleep samples starting in [start, end).\n" +
			"Times are RFC 3339 or a duration relative to now, e.g. -48h.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			from, err := parseTime(start, now)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			to, err := parseTime(end, now)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}

			client, closeConn, err := opts.dial()
			if err != nil {
				return err
			}
			defer closeConn()

			ctx, cancel := opts.context(cmd)
			defer cancel()

			req := &pb.GetSamplesRequest{StartTime: from.Unix()}
			if !to.IsZero() {
				req.EndTime = to.Unix()
			}
			resp, err := client.GetSamples(ctx, req)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tSTART\tEND")
			for _, e := range resp.Entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					e.Id,
					e.Category,
					time.Unix(e.StartTime, 0).Format(time.RFC3339),
					time.Unix(e.EndTime, 0).Format(time.RFC3339),
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&start, "start", "-168h", "range start")
	cmd.Flags().StringVar(&end, "end", "", "range end (empty for open)")
	return cmd
}

func newBedtimeCmd(opts *options) *cobra.Command {
	var limit int32

	cmd := &cobra.Command{
		Use:   "bedtime",
		Short: "Show the average time going to bed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeConn, err := opts.dial()
			if err != nil {
				return err
			}
			defer closeConn()

			ctx, cancel := opts.context(cmd)
			defer cancel()

			resp, err := client.GetAverageStartTime(ctx, &pb.GetAverageStartTimeRequest{SampleLimit: limit})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%02d:%02d\n", resp.Hour, resp.Minute)
			return nil
		},
	}

	cmd.Flags().Int32Var(&limit, "limit", 30, "number of most recent samples to average")
	return cmd
}

func newPurgeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <id>...",
		Short: "Remove cached entries by ID",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeConn, err := opts.dial()
			if err != nil {
				return err
			}
			defer closeConn()

			ctx, cancel := opts.context(cmd)
			defer cancel()

			resp, err := client.PurgeEntries(ctx, &pb.PurgeEntriesRequest{Ids: args})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d of %d\n", resp.Deleted, len(args))
			return nil
		},
	}
}

// parseTime accepts an RFC 3339 timestamp or a duration added to now.
// An empty value is the zero time.
func parseTime(v string, now time.Time) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither RFC 3339 nor a duration", v)
	}
	return now.Add(d), nil
}
