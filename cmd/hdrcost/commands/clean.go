package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/hdrcost/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached traces and timings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			all, _ := cmd.Flags().GetBool("all")

			return c.app.Clean(cmd.Context(), app.CleanOptions{
				ConfigPath: configPath,
				All:        all,
			})
		},
	}

	cmd.Flags().StringP("config", "c", "", "Path to the config file")
	cmd.Flags().BoolP("all", "a", false, "Remove the whole .hdrcost directory")

	return cmd
}
