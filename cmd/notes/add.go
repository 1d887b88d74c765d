package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/notes/internal/client"
	"github.com/sakif/notes/internal/ui"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new note",
	Long:  `Create a note with the given title. Content can be provided via --content or --file.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readContent(cmd)
		if err != nil {
			return err
		}

		board := client.NewBoard(apiClient)
		note, err := board.Create(cmd.Context(), args[0], content)
		if err != nil {
			return fmt.Errorf("failed to create note: %w", err)
		}

		fmt.Println(ui.Success(fmt.Sprintf("Created note %s (%d total)", note.ID, board.Stats().Total)))
		return nil
	},
}

// readContent returns --content, or the contents of --file.
func readContent(cmd *cobra.Command) (string, error) {
	contentFlag, _ := cmd.Flags().GetString("content")
	fileFlag, _ := cmd.Flags().GetString("file")

	if fileFlag == "" {
		return contentFlag, nil
	}
	data, err := os.ReadFile(fileFlag) //nolint:gosec // user-specified path
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

func init() {
	addCmd.Flags().StringP("content", "c", "", "note content")
	addCmd.Flags().StringP("file", "f", "", "read content from file")
}
