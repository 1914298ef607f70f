package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/compiler"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check YAML process definitions for consistency",
	Long:  `Parses every definition in the directory and reports unknown step references, undeclared slots and missing tools.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Definitions are valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(args []string) error {
	var dir string
	var err error

	if len(args) > 0 {
		dir = args[0]
	} else {
		dir, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	defs, err := compiler.ParseDir(dir)
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		return fmt.Errorf("no process definitions found in %s", dir)
	}

	for _, def := range defs {
		fmt.Printf("  %s (%d steps)\n", def.ID, len(def.Steps))
	}
	return nil
}
