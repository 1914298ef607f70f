package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	aurin "github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of aurin",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("aurin version %s\n", strings.TrimSpace(aurin.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
