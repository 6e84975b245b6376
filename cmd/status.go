package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkrebs/padwatch/internal/render"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the last published attribute set",
	Long: `Read the last attribute set the daemon persisted and print it. Works
whether or not the daemon is currently running.`,
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

		attrs, ok, err := st.GetAttributes()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no published attributes yet (run `padwatch run` first)")
		}
		return render.Attributes(os.Stdout, attrs, resolveFormat())
	},
}
