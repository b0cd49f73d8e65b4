package main

import (
	"github.com/nao1215/htmlgrade/internal/version"
	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of htmlgrade-web.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			version.Get().Fprint(cmd.OutOrStdout(), "htmlgrade-web")
		},
	}
}
