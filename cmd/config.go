package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkrebs/padwatch/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage padwatch configuration",
	Long:  `Read and write padwatch configuration stored in config.json.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a template config.json in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigFile
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config.json already exists at %s (delete it first to re-initialise)", path)
		}
		if err := config.WriteFile(path, config.Template()); err != nil {
			return err
		}
		fmt.Printf("✓ Created %s\n", path)
		fmt.Println("  Edit it to pick a source (spacex|ll2) and your dashboard options.")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		src := "(not found)"
		if cfg.ConfigPath != "" {
			src = cfg.ConfigPath
		}

		out := map[string]interface{}{
			"config_file":      src,
			"source":           cfg.Source,
			"timeout":          cfg.Timeout.String(),
			"rate":             cfg.Rate,
			"db_path":          cfg.DBPath,
			"listen_addr":      cfg.ListenAddr,
			"timezone":         cfg.Location.String(),
			"refresh_interval": cfg.RefreshInterval.String(),
			"hours_inactive":   cfg.HoursInactive.String(),
			"clear_inactive":   cfg.ClearWhenInactive,
			"show_name":        cfg.ShowName,
			"show_locality":    cfg.ShowLocality,
			"dashboard_layout": cfg.DashboardLayout,
			"text_color":       cfg.TextColor,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)
}
