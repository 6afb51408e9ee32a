package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"dropsel/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the sample config",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolvePath(configPath)
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !initForce {
			overwrite := false
			err := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Overwrite %s?", path)).
						Description("Selections stored in it will be lost").
						Affirmative("Overwrite").
						Negative("Cancel").
						Value(&overwrite),
				),
			).Run()
			if err != nil || !overwrite {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}

		if err := writeDefault(config.NewConfigService(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing file without asking")
}

func writeDefault(svc config.ConfigService, path string) error {
	if err := svc.SaveToPath(config.DefaultConfig(), path); err != nil {
		return fmt.Errorf("writing sample config: %w", err)
	}
	return nil
}

func resolvePath(path string) string {
	if path == "" {
		return config.DefaultPath()
	}
	return path
}
