package cmd

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kerbaras/mangatrack/pkg/app/styles"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked manga",
	Long:  "Display all tracked manga and your reading progress in a formatted table",
	RunE: func(cmd *cobra.Command, args []string) error {
		library, err := controller.Library()
		if err != nil {
			return err
		}

		if len(library) == 0 {
			fmt.Println(styles.MutedStyle.Render("No manga tracked. Use 'mangatrack search' to find manga to track."))
			return nil
		}

		columns := []table.Column{
			{Title: "Title", Width: 40},
			{Title: "ID", Width: 36},
			{Title: "Read", Width: 6},
			{Title: "Total", Width: 6},
			{Title: "Last Read", Width: 16},
		}

		rows := []table.Row{}
		for _, manga := range library {
			lastRead := "never"
			if manga.LastRead != nil {
				lastRead = manga.LastRead.Local().Format("2006-01-02 15:04")
			}
			total := "?"
			if manga.TotalChapters > 0 {
				total = fmt.Sprintf("%d", manga.TotalChapters)
			}

			rows = append(rows, table.Row{
				truncateString(manga.Title, 38),
				manga.ID,
				fmt.Sprintf("%d", len(manga.ReadChapters)),
				total,
				lastRead,
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
		t.SetStyles(s)

		fmt.Println(styles.TitleStyle.Render(fmt.Sprintf("Library (%d manga)", len(library))))
		fmt.Println(t.View())
		return nil
	},
}

func truncateString(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
