package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/secrethelper/secrethelper/api"
	"github.com/secrethelper/secrethelper/history"
)

func cmdHistory() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the song generation history",
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List generated songs, newest first",
		Args:    cobra.ExactArgs(0),
		PreRunE: checkServerHeartbeat,
		RunE:    historyListHandler,
	}

	clearCmd := &cobra.Command{
		Use:     "clear",
		Short:   "Delete the whole history",
		Args:    cobra.ExactArgs(0),
		PreRunE: checkServerHeartbeat,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api.ClientFromEnvironment().ClearHistory(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("history cleared")
			return nil
		},
	}

	cmd.AddCommand(listCmd, clearCmd)
	return cmd
}

func historyListHandler(cmd *cobra.Command, args []string) error {
	resp, err := api.ClientFromEnvironment().History(cmd.Context())
	if err != nil {
		return err
	}

	var data [][]string
	for _, e := range resp.Entries {
		data = append(data, history.Row(e))
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"WHEN", "PROMPT", "GENRE", "LENGTH", "VOICE", "FILE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}
