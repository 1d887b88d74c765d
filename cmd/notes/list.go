package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/notes/internal/client"
	"github.com/sakif/notes/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List notes",
	Long:    `List your notes, optionally filtered by a search term and sorted by updatedAt, createdAt or title.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		searchFlag, _ := cmd.Flags().GetString("search")
		sortFlag, _ := cmd.Flags().GetString("sort")
		viewFlag, _ := cmd.Flags().GetString("view")

		sortKey, ok := client.ParseSortKey(sortFlag)
		if !ok {
			return fmt.Errorf("unknown sort %q (want updatedAt, createdAt or title)", sortFlag)
		}
		view, ok := client.ParseViewMode(viewFlag)
		if !ok {
			return fmt.Errorf("unknown view %q (want grid or list)", viewFlag)
		}

		board := client.NewBoard(apiClient)
		board.SetSearch(searchFlag)
		board.SetSort(sortKey)
		board.SetView(view)

		if err := board.Refresh(cmd.Context()); err != nil {
			return err
		}

		notes := board.Visible()
		stats := board.Stats()

		if len(notes) == 0 {
			if stats.Total == 0 {
				fmt.Println("No notes yet. Add one with: notes add <title>")
			} else {
				fmt.Println("No notes found.")
			}
			return nil
		}

		switch board.View() {
		case client.ViewList:
			for _, n := range notes {
				fmt.Print(ui.FormatNoteListItem(n))
			}
		default:
			fmt.Print(ui.FormatNoteGrid(notes))
		}
		fmt.Print(ui.FormatStats(stats.Visible, stats.Total, searchFlag))
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("search", "s", "", "filter by title or content")
	listCmd.Flags().String("sort", string(client.SortUpdated), "sort by updatedAt, createdAt or title")
	listCmd.Flags().String("view", string(client.ViewGrid), "grid or list")
}
