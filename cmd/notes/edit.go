package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/notes/internal/client"
	"github.com/sakif/notes/internal/model"
	"github.com/sakif/notes/internal/ui"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a note",
	Long:  `Change a note's title, content, or both. Fields not given are left as they are.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch model.NotePatch

		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			patch.Title = &title
		}
		if cmd.Flags().Changed("content") || cmd.Flags().Changed("file") {
			content, err := readContent(cmd)
			if err != nil {
				return err
			}
			patch.Content = &content
		}
		if patch.Empty() {
			return fmt.Errorf("nothing to change (use --title, --content or --file)")
		}

		note, err := client.NewBoard(apiClient).Update(cmd.Context(), args[0], patch)
		if err != nil {
			return fmt.Errorf("failed to update note: %w", err)
		}

		fmt.Println(ui.Success(fmt.Sprintf("Updated note %s", note.ID)))
		return nil
	},
}

func init() {
	editCmd.Flags().StringP("title", "t", "", "new title")
	editCmd.Flags().StringP("content", "c", "", "new content")
	editCmd.Flags().StringP("file", "f", "", "read new content from file")
}
