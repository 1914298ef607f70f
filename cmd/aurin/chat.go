package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/presentation/tui"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/runner"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Starts a local conversation loop against the registered processes.
Messages no process claims get a canned hint instead of a language model.`,
	Run: func(cmd *cobra.Command, args []string) {
		user, _ := cmd.Flags().GetString("user")
		name, _ := cmd.Flags().GetString("name")
		admin, _ := cmd.Flags().GetBool("admin")
		session, _ := cmd.Flags().GetString("session")

		engine, _, err := buildEngine(cmd)
		if err != nil {
			fmt.Printf("Error initializing aurin: %v\n", err)
			os.Exit(1)
		}

		opts := []runner.Option{
			runner.WithUser(user, name, admin),
			runner.WithSessionID(session),
		}

		// Only render markdown and print the banner on a real terminal.
		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner()
			opts = append(opts, runner.WithRenderer(runner.ContentRenderer(tui.NewRenderer())))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := runner.New(engine, opts...).Run(ctx); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().String("user", "local-user", "User ID for the session")
	chatCmd.Flags().String("name", "", "Display name for the session")
	chatCmd.Flags().Bool("admin", false, "Grant admin privileges to the session")
	chatCmd.Flags().String("session", "local", "Session ID")
}
