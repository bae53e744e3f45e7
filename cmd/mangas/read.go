package cmd

import (
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read <manga-id> [chapter]",
	Short: "Read a chapter page by page",
	Long: `Read a chapter in the terminal. Without a chapter number the first chapter
is opened; an unknown chapter number also falls back to the first chapter.

Display methods:
  1, native   full screen terminal viewer (default)
  2, system   system image viewer
  3, browser  web browser
  4, ascii    ASCII art

A method that fails on a page falls back to ASCII for that page only.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chapter := ""
		if len(args) > 1 {
			chapter = args[1]
		}
		maxPages, _ := cmd.Flags().GetInt("max-pages")
		if !cmd.Flags().Changed("max-pages") {
			maxPages = conf.MaxPages
		}
		display, _ := cmd.Flags().GetString("display")

		strategy, err := chooseStrategy(prompter, display)
		if err != nil {
			return err
		}
		return readChapter(cmd, args[0], chapter, strategy, maxPages)
	},
}

func init() {
	readCmd.Flags().IntP("max-pages", "m", 5, "Maximum number of pages to read")
	readCmd.Flags().StringP("display", "d", "", "Display method: 1-4, native, system, browser or ascii")
}
