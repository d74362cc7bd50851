package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmadamsgit/ks-install/src/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
