package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mkrebs/padwatch/internal/scheduler"
	"github.com/mkrebs/padwatch/internal/sink"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the launch tracker daemon",
	Long: `Start the tracker loop: poll the upstream API, reconcile the tracked
launch pair, publish attributes and the rendered tile, and serve them to
dashboards over HTTP (JSON snapshot, tile HTML, SSE stream).

The loop keeps running through upstream failures; the previous state stays
authoritative until the next successful fetch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}

		st, err := deps.OpenStore()
		if err != nil {
			return err
		}
		defer st.Close()

		srv := sink.NewServer(deps.Config.ListenAddr)
		sinks := sink.Multi{&sink.LogSink{}, srv}

		sched := scheduler.New(deps.Source, st, sinks, scheduler.Options{
			RefreshInterval:   deps.Config.RefreshInterval,
			HoursInactive:     deps.Config.HoursInactive,
			ClearWhenInactive: deps.Config.ClearWhenInactive,
			Tile:              deps.TileOptions(),
			Location:          deps.Config.Location,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			if err := srv.ListenAndServe(ctx); err != nil {
				slog.Error("http sink failed", "err", err)
				stop()
			}
		}()

		slog.Info("tracker starting",
			"source", deps.Config.Source,
			"refresh", deps.Config.RefreshInterval,
			"listen", deps.Config.ListenAddr,
		)
		if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
