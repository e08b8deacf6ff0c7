package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/secrethelper/secrethelper/api"
)

func cmdHelper() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "helper [message]",
		Short:   "Ask the Secret Helper co-writer for a song draft",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: checkServerHeartbeat,
		RunE:    helperHandler,
	}

	cmd.Flags().String("voice", "", "Voice setting passed to the co-writer")
	cmd.Flags().String("genre", "", "Genre setting passed to the co-writer")
	cmd.Flags().Int("bpm", 0, "Tempo setting passed to the co-writer")
	cmd.Flags().String("model-size", "", "Quality tier: small, medium or large")
	cmd.Flags().Bool("instrumental", false, "Ask for an instrumental concept, no lyrics")

	return cmd
}

func helperHandler(cmd *cobra.Command, args []string) error {
	client := api.ClientFromEnvironment()
	draft, err := client.Helper(cmd.Context(), &api.HelperRequest{
		Message: strings.Join(args, " "),
		Settings: api.HelperSettings{
			Voice:        must(cmd.Flags().GetString("voice")),
			Genre:        must(cmd.Flags().GetString("genre")),
			BPM:          must(cmd.Flags().GetInt("bpm")),
			ModelSize:    must(cmd.Flags().GetString("model-size")),
			Instrumental: must(cmd.Flags().GetBool("instrumental")),
		},
	})
	if err != nil {
		return err
	}

	if draft.AssistantMessage != "" {
		fmt.Println(draft.AssistantMessage)
		fmt.Println()
	}
	if draft.NeedClarification {
		fmt.Println(draft.ClarifyingQuestion)
		return nil
	}

	if draft.Song.Title != "" {
		fmt.Println(draft.Song.Title)
	}
	meta := []string{draft.Song.Genre, fmt.Sprintf("%d bpm", draft.Song.BPM), draft.Song.Voice}
	if len(draft.Song.MoodTags) > 0 {
		meta = append(meta, strings.Join(draft.Song.MoodTags, ", "))
	}
	fmt.Println(strings.Join(meta, " · "))

	if draft.Song.SoundDescription != "" {
		fmt.Printf("\nSOUND\n%s\n", draft.Song.SoundDescription)
	}
	if draft.Lyrics.Text != "" {
		fmt.Printf("\nLYRICS\n%s\n", draft.Lyrics.Text)
	}
	if draft.ProductionNotes.Arrangement != "" || draft.ProductionNotes.MixNotes != "" {
		fmt.Printf("\nPRODUCTION\n%s\n", strings.TrimSpace(draft.ProductionNotes.Arrangement+"\n\n"+draft.ProductionNotes.MixNotes))
	}
	return nil
}
