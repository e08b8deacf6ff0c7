package cmd

import (
	"net"

	"github.com/spf13/cobra"

	"github.com/secrethelper/secrethelper/envconfig"
	"github.com/secrethelper/secrethelper/server"
	"github.com/secrethelper/secrethelper/synth"
)

func cmdServe() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Start the secrethelper server",
		Args:    cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if must(cmd.Flags().GetBool("runner")) {
				proc, err := synth.StartProcess(cmd.Context(), must(cmd.Flags().GetString("runner-dir")))
				if err != nil {
					return err
				}
				defer proc.Close()
			}

			ln, err := net.Listen("tcp", envconfig.Host())
			if err != nil {
				return err
			}
			return server.Serve(cmd.Context(), ln)
		},
	}

	cmd.Flags().Bool("runner", false, "Also start the local model runner from its venv")
	cmd.Flags().String("runner-dir", ".", "Directory holding the runner venv")
	return cmd
}
