package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	v1 "github.com/benchanjamin/cf-ai-group-scheduler/internal/transport/http/v1"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), v1.Version)
			return err
		},
	}
}
