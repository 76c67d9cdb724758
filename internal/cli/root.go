package cli

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "persona",
	Short: "Evolving per-user tag profiles",
	Long:  "Persona maintains confidence-scored user tag profiles: repeated evidence reinforces attributes, idle attributes decay. Single Go binary.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(resetCmd)
}
