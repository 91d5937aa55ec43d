// Package cmd is the command line entry point of the scheduler.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/config"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "scheduler",
		Short:         "Group meeting scheduler",
		Long:          "scheduler runs the group meeting scheduling service: per-session actors, the public session and chat API, and inactivity cleanup.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (any format viper understands)")

	load := func() (*config.Config, error) {
		if configFile != "" {
			v.SetConfigFile(configFile)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", configFile, err)
			}
		}
		return config.Load(v)
	}

	rootCmd.AddCommand(
		newServeCmd(v, load),
		newInspectCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
