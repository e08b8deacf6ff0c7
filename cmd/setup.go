package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/secrethelper/secrethelper/setup"
)

func cmdSetup() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Install the Python environment for the model runner",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := setup.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
			return setup.Run(cmd.Context(), runner, os.Stdout, setup.Options{
				GPU: must(cmd.Flags().GetBool("gpu")),
				Dir: must(cmd.Flags().GetString("dir")),
			})
		},
	}

	cmd.Flags().Bool("gpu", false, "Install the CUDA build of torch")
	cmd.Flags().String("dir", ".", "Directory for the venv and requirements.txt")
	return cmd
}
