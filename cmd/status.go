package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/secrethelper/secrethelper/envconfig"
	"github.com/secrethelper/secrethelper/ollama"
	"github.com/secrethelper/secrethelper/synth"
	"github.com/secrethelper/secrethelper/version"
)

// cmdStatus checks the backends directly so it works whether or not the
// secrethelper server itself is running.
func cmdStatus() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the Ollama and model runner backends",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("secrethelper %s\n", version.Version)

			_, _, msg := ollama.NewClient().Status(cmd.Context(), envconfig.OllamaModel)
			fmt.Println(msg)

			_, runnerMsg := synth.NewRunner().Ping(cmd.Context())
			fmt.Println(runnerMsg)
			return nil
		},
	}
}
