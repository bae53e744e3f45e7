package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/kerbaras/mangatrack/pkg/app/styles"
	"github.com/kerbaras/mangatrack/pkg/integrations"
	"github.com/kerbaras/mangatrack/pkg/services"
)

var exportCmd = &cobra.Command{
	Use:   "export [manga-id] [chapter]",
	Short: "Export a chapter to EPUB",
	Long: `Download a chapter and write it as an EPUB file.

Use --device to fit pages to an e-reader screen. Grayscale devices also get
contrast and sharpening tuned for e-ink. Use --list-devices to see the
supported profiles. Without a manga id, pick one from your library.`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list-devices"); list {
			printDeviceList()
			return nil
		}
		if len(args) == 0 {
			id, err := pickTracked()
			if err != nil {
				return err
			}
			args = []string{id}
		}

		opts := services.ExportOptions{MangaID: args[0]}
		if len(args) > 1 {
			opts.Chapter = args[1]
		}
		opts.Device, _ = cmd.Flags().GetString("device")
		if output, _ := cmd.Flags().GetString("output"); output != "" {
			conf.ExportDir = output
		}

		p := mpb.New(
			mpb.WithWidth(52),
			mpb.WithOutput(os.Stdout),
			mpb.WithRefreshRate(120*time.Millisecond),
		)
		bar := p.New(0,
			mpb.BarStyle().Rbound("]"),
			mpb.PrependDecorators(
				decor.Name("Downloading  "),
			),
			mpb.AppendDecorators(
				decor.Percentage(decor.WCSyncWidth),
				decor.CountersNoUnit(" | %d/%d pages", decor.WCSyncWidth),
			),
		)

		path, err := controller.Export(cmd.Context(), opts, func(pr services.DownloadProgress) {
			switch pr.Status {
			case "downloading":
				bar.SetTotal(int64(pr.TotalPages), false)
				bar.SetCurrent(int64(pr.CurrentPage - 1))
			case "complete":
				bar.SetCurrent(int64(pr.TotalPages))
				bar.SetTotal(int64(pr.TotalPages), true)
			}
		})
		if !bar.Completed() {
			bar.Abort(false)
		}
		p.Wait()

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Println(styles.SuccessStyle.Render("EPUB created: " + path))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Output directory (default from config)")
	exportCmd.Flags().StringP("device", "d", "", "E-reader profile to optimize pages for")
	exportCmd.Flags().Bool("list-devices", false, "List supported e-reader profiles")
}

func printDeviceList() {
	fmt.Println(styles.TitleStyle.Render("Supported devices"))
	for _, id := range integrations.DeviceIDs() {
		d, _ := integrations.LookupDevice(id)
		mode := "color"
		if d.Grayscale {
			mode = "grayscale"
		}
		fmt.Printf("  %-20s %s (%dx%d, %s)\n", id, d.Name, d.Width, d.Height, mode)
	}
}

// pickTracked lets the user choose a manga from the library.
func pickTracked() (string, error) {
	library, err := controller.Library()
	if err != nil {
		return "", err
	}
	if len(library) == 0 {
		return "", fmt.Errorf("your library is empty, pass a manga id")
	}

	titles := make([]string, len(library))
	for i, m := range library {
		titles[i] = m.Title
	}
	prompt := promptui.Select{Label: "Export from", Items: titles, Size: 10}
	idx, _, err := prompt.Run()
	if err != nil {
		return "", errCancelled
	}
	return library[idx].ID, nil
}
