package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ambiyansyah-risyal/offerskit"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(offerskit.GetVersion())
		},
	}
}
