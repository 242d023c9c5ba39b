package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-natal/internal/version"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "ls-natal %s\n", version.Version)
			return nil
		},
	}
}
