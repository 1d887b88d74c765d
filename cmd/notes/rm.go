package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/notes/internal/client"
	"github.com/sakif/notes/internal/ui"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.NewBoard(apiClient).Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete note: %w", err)
		}
		fmt.Println(ui.Success("Deleted note " + args[0]))
		return nil
	},
}
