// Package cmd is the secrethelper command line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/secrethelper/secrethelper/api"
	"github.com/secrethelper/secrethelper/envconfig"
	"github.com/secrethelper/secrethelper/version"
)

func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "secrethelper",
		Short:         "Your friend in the studio",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging()
		},
		Version: version.Version,
	}

	rootCmd.AddCommand(
		cmdServe(),
		cmdGenerate(),
		cmdHelper(),
		cmdHistory(),
		cmdStatus(),
		cmdSetup(),
	)

	return rootCmd
}

func initLogging() {
	level := slog.LevelInfo
	if envconfig.Debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.SourceKey {
				source := attr.Value.Any().(*slog.Source)
				source.File = filepath.Base(source.File)
			}
			return attr
		},
	})
	slog.SetDefault(slog.New(handler))
}

// checkServerHeartbeat makes client commands fail with a usable message
// when the server is not up.
func checkServerHeartbeat(cmd *cobra.Command, _ []string) error {
	client := api.ClientFromEnvironment()
	if err := client.Heartbeat(cmd.Context()); err != nil {
		if !errors.Is(err, context.Canceled) {
			return fmt.Errorf("could not connect to the secrethelper server, start it with: secrethelper serve")
		}
		return err
	}
	return nil
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
