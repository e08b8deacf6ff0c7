package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/secrethelper/secrethelper/api"
	"github.com/secrethelper/secrethelper/format"
	"github.com/secrethelper/secrethelper/progress"
)

func cmdGenerate() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate [prompt]",
		Short:   "Generate a song from a prompt",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: checkServerHeartbeat,
		RunE:    generateHandler,
	}

	cmd.Flags().String("voice", "", "Voice style (male, female, sad, gothic, ...)")
	cmd.Flags().String("genre", "", "Genre override; auto-detected from the prompt when empty")
	cmd.Flags().String("genre2", "", "Second genre to blend in")
	cmd.Flags().Int("blend", 0, "Percentage of the second genre in the blend (0-100)")
	cmd.Flags().Int("bpm", 0, "Tempo override")
	cmd.Flags().Int("duration", 0, "Instrumental duration in seconds")
	cmd.Flags().String("model-size", "", "MusicGen size: small, medium or large")
	cmd.Flags().Bool("instrumental", false, "Skip lyrics and vocals")
	cmd.Flags().String("lyrics-file", "", "Use lyrics from this file instead of generating them")
	cmd.Flags().String("format", "wav", "Output format: wav or mp3")

	return cmd
}

func generateHandler(cmd *cobra.Command, args []string) error {
	req := api.GenerateRequest{
		Prompt:       strings.Join(args, " "),
		Voice:        must(cmd.Flags().GetString("voice")),
		Genre:        must(cmd.Flags().GetString("genre")),
		Genre2:       must(cmd.Flags().GetString("genre2")),
		Blend:        must(cmd.Flags().GetInt("blend")),
		BPM:          must(cmd.Flags().GetInt("bpm")),
		Duration:     must(cmd.Flags().GetInt("duration")),
		ModelSize:    must(cmd.Flags().GetString("model-size")),
		Instrumental: must(cmd.Flags().GetBool("instrumental")),
		Format:       must(cmd.Flags().GetString("format")),
	}

	if path := must(cmd.Flags().GetString("lyrics-file")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		req.Lyrics = string(data)
	}

	p := progress.NewProgress(os.Stderr)
	stage := progress.NewStage("starting")
	p.Add(stage)

	var song *api.Song
	client := api.ClientFromEnvironment()
	err := client.Generate(cmd.Context(), &req, func(resp api.ProgressResponse) error {
		stage.Set(resp.Progress, resp.Status)
		if resp.Done {
			song = resp.Song
		}
		return nil
	})
	p.StopAndClear()
	if err != nil {
		return err
	}
	if song == nil {
		return fmt.Errorf("the server never sent a finished song")
	}

	if song.Lyrics != "" {
		fmt.Println(song.Lyrics)
		fmt.Println()
	}
	if song.Narration != "" {
		fmt.Println(song.Narration)
	}
	fmt.Printf("%s %s, %d bpm, %s voice\n", song.Genre, song.Mood, song.BPM, song.Voice)
	if len(song.Suggestions) > 0 {
		fmt.Printf("Try next: %s\n", strings.Join(song.Suggestions, " · "))
	}
	if info, err := os.Stat(song.Path); err == nil {
		fmt.Printf("%s (%s)\n", song.Path, format.HumanBytes(info.Size()))
	} else {
		fmt.Println(song.Path)
	}
	return nil
}
