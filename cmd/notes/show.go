package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/notes/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a note",
	Long:  `Display a note's full content with rendered markdown.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := apiClient.GetNote(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}

		fmt.Print(ui.FormatNoteHeader(note))
		fmt.Print(ui.FormatNoteContent(note.Content))
		return nil
	},
}
