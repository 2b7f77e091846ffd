package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "mudra",
	Short: "Mudra - hand gesture recognition",
	Long: `Mudra recognizes hand gestures from camera-tracked hand poses and
routes their lifecycle events to plugins, the event log and connected
clients.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.mudra/config.yaml)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replayCmd)
}

// dataDir resolves the data directory, creating it if needed. An
// explicit dir wins over the default ~/.mudra.
func dataDir(explicit string) (string, error) {
	dir := explicit
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".mudra")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// resolveConfigPath returns the effective config file path.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".mudra", "config.yaml")
}
