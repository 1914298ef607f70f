package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	aurin "github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/compiler"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/logging"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/taskflows"
	redisadapter "github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/adapters/redis"
)

var rootCmd = &cobra.Command{
	Use:   "aurin",
	Short: "Aurin is a structured process executor for conversational assistants",
	Long: `Aurin routes user messages through deterministic multi-step processes
(collect, validate, confirm, execute) before any language model gets involved.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("redis", "", "Redis address for session persistence (empty = in-memory)")
	rootCmd.PersistentFlags().String("redis-password", "", "Redis password")
	rootCmd.PersistentFlags().Int("redis-db", 0, "Redis database number")
	rootCmd.PersistentFlags().String("defs", "", "Directory of YAML process definitions to load")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
}

func buildLogger(cmd *cobra.Command) *slog.Logger {
	levelStr, _ := cmd.Flags().GetString("log-level")
	level := slog.LevelInfo
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return logging.New(level)
}

// buildEngine assembles an engine from the persistent flags: store backend,
// built-in task flows and any YAML definitions from --defs.
func buildEngine(cmd *cobra.Command, extra ...aurin.Option) (*aurin.Engine, *taskflows.Board, error) {
	logger := buildLogger(cmd)

	opts := []aurin.Option{aurin.WithLogger(logger)}

	if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")

		store := redisadapter.New(addr, password, db)
		opts = append(opts,
			aurin.WithStore(store),
			aurin.WithLocker(redisadapter.NewLocker(store.Client(), "aurin:lock:")),
		)
		logger.Info("using redis session store", "address", addr, "db", db)
	}

	opts = append(opts, extra...)
	engine := aurin.New(opts...)

	board, err := taskflows.Setup(engine)
	if err != nil {
		return nil, nil, fmt.Errorf("registering built-in flows: %w", err)
	}

	if dir, _ := cmd.Flags().GetString("defs"); dir != "" {
		defs, err := compiler.ParseDir(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("loading definitions from %s: %w", dir, err)
		}
		for _, def := range defs {
			if err := engine.RegisterProcess(def); err != nil {
				return nil, nil, fmt.Errorf("registering process %q: %w", def.ID, err)
			}
		}
		logger.Info("loaded process definitions", "dir", dir, "count", len(defs))
	}

	return engine, board, nil
}
