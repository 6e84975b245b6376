package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkrebs/padwatch/internal/render"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the current latest/next launch pair once and print it",
	Long: `Perform a single upstream fetch, normalize the records, and print the
resulting launch pair. Useful for checking upstream connectivity and the
normalization of a given API source without starting the daemon.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}

		// Per-request timeouts live in the client; this bounds the whole
		// fetch including secondary lookups.
		ctx, cancel := context.WithTimeout(cmd.Context(), 4*deps.Config.Timeout)
		defer cancel()

		latest, next, err := deps.Source.FetchLatestAndNext(ctx)
		if err != nil {
			return err
		}
		return render.Launches(os.Stdout, latest, next, resolveFormat())
	},
}
