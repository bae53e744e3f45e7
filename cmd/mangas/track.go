package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kerbaras/mangatrack/pkg/app/styles"
)

var trackCmd = &cobra.Command{
	Use:   "track <manga-id>",
	Short: "Add a manga to your library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manga, added, err := controller.Track(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !added {
			fmt.Println(styles.MutedStyle.Render("Already tracking " + manga.Name))
			return nil
		}
		fmt.Println(styles.SuccessStyle.Render("Tracking " + manga.Name))
		return nil
	},
}

var untrackCmd = &cobra.Command{
	Use:   "untrack <manga-id>",
	Short: "Remove a manga and its progress from your library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			if !confirmAndExit(fmt.Sprintf("Stop tracking %s and forget its progress", args[0])) {
				return nil
			}
		}
		if err := controller.Untrack(args[0]); err != nil {
			return err
		}
		fmt.Println(styles.SuccessStyle.Render("Stopped tracking " + args[0]))
		return nil
	},
}

var markReadCmd = &cobra.Command{
	Use:   "mark-read <manga-id> <chapter>",
	Short: "Mark a chapter of a tracked manga as read",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := controller.MarkRead(args[0], args[1]); err != nil {
			return err
		}
		fmt.Println(styles.SuccessStyle.Render(fmt.Sprintf("Chapter %s marked as read", args[1])))
		return nil
	},
}

func init() {
	untrackCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
