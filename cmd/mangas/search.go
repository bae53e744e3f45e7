package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kerbaras/mangatrack/pkg/app/styles"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for manga",
	Long:  "Search for manga on MangaDex, pick one to track and start reading from its first chapter",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		limit, _ := cmd.Flags().GetInt("limit")

		results, err := controller.Search(cmd.Context(), query, limit)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if len(results) == 0 {
			fmt.Println(styles.ErrorStyle.Render("No results found"))
			return nil
		}

		var (
			purple = lipgloss.Color("99")

			headerStyle = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
			cellStyle   = lipgloss.NewStyle().Padding(0, 1)
		)

		t := table.New().
			Border(lipgloss.HiddenBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(purple)).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				default:
					return cellStyle
				}
			}).
			Headers("#", "Name", "Tags", "ID")

		for i, manga := range results {
			t.Row(fmt.Sprintf("%d", i+1), truncateString(manga.Name, 48), truncateString(strings.Join(manga.Tags, ", "), 36), manga.ID)
		}
		fmt.Println(t)

		idx, err := pickIndex(prompter, "Pick manga", len(results))
		if err != nil {
			return nil
		}
		selected := results[idx]

		if confirm(prompter, "Track manga") {
			_, added, err := controller.Track(cmd.Context(), selected.ID)
			if err != nil {
				return err
			}
			if added {
				fmt.Println(styles.SuccessStyle.Render("Tracking " + selected.Name))
			} else {
				fmt.Println(styles.MutedStyle.Render("Already tracking " + selected.Name))
			}
		}

		if !confirm(prompter, "Start reading from first chapter") {
			return nil
		}
		strategy, err := chooseStrategy(prompter, "")
		if err != nil {
			return err
		}
		logger.Debug("Reading from search", zap.String("manga", selected.ID))
		return readChapter(cmd, selected.ID, "", strategy, conf.MaxPages)
	},
}

func init() {
	searchCmd.Flags().IntP("limit", "l", 10, "Maximum number of results")
}
