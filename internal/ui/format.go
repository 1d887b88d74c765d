// Package ui formats notes for the terminal.
//
// SANITIZATION:
// Titles and content are stored exactly as sent. Anything shown here that
// came from the server passes through a bluemonday strict policy first, so
// markup in a title or preview never reaches the terminal as markup.
// Full content goes to glamour as markdown.
package ui

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/microcosm-cc/bluemonday"

	"github.com/sakif/notes/internal/model"
)

const (
	timeLayout   = "2006-01-02 15:04"
	previewRunes = 60
	cardWidth    = 36
	gridColumns  = 2
)

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()

	strict = bluemonday.StrictPolicy()
)

// Plain strips all markup from s and collapses it to a single line.
func Plain(s string) string {
	s = html.UnescapeString(strict.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

// Preview is the first few words of content as plain text.
func Preview(content string) string {
	return truncate(Plain(content), previewRunes)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

// FormatNoteListItem is one row of the list view.
func FormatNoteListItem(note model.Note) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("  %s  %s\n", faint(note.ID), bold(Plain(note.Title))))
	if p := Preview(note.Content); p != "" {
		sb.WriteString(fmt.Sprintf("      %s\n", p))
	}
	sb.WriteString(fmt.Sprintf("      %s %s\n",
		faint("Updated:"),
		faint(note.UpdatedAt.Local().Format(timeLayout))))

	return sb.String()
}

// FormatNoteGrid lays notes out as cards, two per row.
func FormatNoteGrid(notes []model.Note) string {
	var sb strings.Builder

	for i := 0; i < len(notes); i += gridColumns {
		end := min(i+gridColumns, len(notes))
		row := notes[i:end]

		lines := [3][]string{}
		for _, n := range row {
			lines[0] = append(lines[0], bold(pad(truncate(Plain(n.Title), cardWidth), cardWidth)))
			lines[1] = append(lines[1], pad(truncate(Preview(n.Content), cardWidth), cardWidth))
			lines[2] = append(lines[2], faint(pad(n.ID, cardWidth)))
		}
		for _, l := range lines {
			sb.WriteString("  " + strings.Join(l, "  ") + "\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// pad right-pads s with spaces to n runes.
func pad(s string, n int) string {
	if c := utf8.RuneCountInString(s); c < n {
		return s + strings.Repeat(" ", n-c)
	}
	return s
}

// FormatNoteHeader is the title block of the detail view.
func FormatNoteHeader(note *model.Note) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s\n", bold(Plain(note.Title))))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("ID:"), faint(note.ID)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Created:"), faint(note.CreatedAt.Local().Format(timeLayout))))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Updated:"), faint(note.UpdatedAt.Local().Format(timeLayout))))

	sb.WriteString(Separator())
	return sb.String()
}

// FormatNoteContent renders content as markdown. Rendering failures fall
// back to the raw text.
func FormatNoteContent(content string) string {
	if strings.TrimSpace(content) == "" {
		return faint("(empty)") + "\n"
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return content + "\n"
	}

	out, err := renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return out
}

// FormatStats is the footer under a list.
func FormatStats(visible, total int, search string) string {
	if search == "" {
		return faint(fmt.Sprintf("%d notes", total)) + "\n"
	}
	return faint(fmt.Sprintf("%d of %d notes match %q", visible, total, search)) + "\n"
}

// FormatUser is the whoami output.
func FormatUser(name, email string) string {
	return fmt.Sprintf("%s %s\n", bold(Plain(name)), cyan("<"+email+">"))
}

func Separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}
