// Command cli is a terminal client for the Worldwide API: browse the
// feed, publish posts, and drive the generative tools.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "worldwide",
	Short: "Worldwide CLI - the single-page social app, from the terminal",
	Long: `Worldwide CLI talks to a Worldwide server. Log in, read your
ranked feed, publish posts and reels, and use the generative
image, video, speech and chat tools.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(configPath)
	},
}

func initConfig(path string) error {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dir := filepath.Join(home, ".config", "worldwide")
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetDefault("api.base_url", "http://localhost:8787/api/v1")
	viper.SetDefault("api.timeout", 60)
	viper.SetEnvPrefix("WORLDWIDE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env cover it
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return err
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/worldwide/config.yaml)")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(reelsCmd)
	rootCmd.AddCommand(aiCmd)
}
