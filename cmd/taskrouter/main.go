package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/taskrouter"
	"github.com/hupe1980/taskrouter/config"
)

var (
	version = "0.1.0"
	envPath string
)

func main() {
	root := &cobra.Command{
		Use:     "taskrouter",
		Short:   "Conversational task router",
		Long:    "taskrouter routes a conversation between specialist agents for booking, scheduling, research and arithmetic.",
		Version: version,
	}

	root.PersistentFlags().StringVar(&envPath, "env", "", "path to .env file (default: ./.env when present)")
	root.AddCommand(chatCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func chatCmd() *cobra.Command {
	var (
		sessionID string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			editor, err := newLineEditor(lineEditorConfig{})
			if err != nil {
				return err
			}
			defer editor.Close()

			tr, err := taskrouter.New(cfg, func(o *taskrouter.Options) {
				if verbose {
					o.Callbacks = traceCallbacks(editor.Output())
				}
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runChat(ctx, tr, editor, sessionID)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "default", "conversation id")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print tool calls and agent switches")
	return cmd
}
