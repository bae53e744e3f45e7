package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/kerbaras/mangatrack/pkg/app/styles"
	"github.com/kerbaras/mangatrack/pkg/reader"
	"github.com/kerbaras/mangatrack/pkg/services"
)

var errCancelled = errors.New("selection cancelled")

// stdin is shared by the line prompts and the reading loop. promptui leaves
// a goroutine blocked on os.Stdin after Run returns, so it is only used when
// nothing reads the terminal afterwards.
var (
	stdin    = bufio.NewReader(os.Stdin)
	prompter = reader.NewConsole(stdin, os.Stdout)
)

// chooseStrategy resolves the display method from the flag, then the config,
// and finally asks the user.
func chooseStrategy(in *reader.Console, flag string) (reader.Strategy, error) {
	if flag != "" {
		return reader.ParseStrategy(flag)
	}
	if conf.Display != "" {
		return reader.ParseStrategy(conf.Display)
	}

	in.Styled(styles.TitleStyle, "Display method")
	for i, s := range reader.Strategies {
		in.Println(fmt.Sprintf("  %d. %s", i+1, s.Describe()))
	}
	for {
		input, err := in.Ask(fmt.Sprintf("Choose [1-%d] (1)", len(reader.Strategies)))
		if err != nil {
			return 0, errCancelled
		}
		if input == "" {
			input = "1"
		}
		s, err := reader.ParseStrategy(input)
		if err == nil {
			return s, nil
		}
		in.Error("%v", err)
	}
}

// confirm asks a y/N question. Anything but yes, including EOF, is no.
func confirm(in *reader.Console, label string) bool {
	answer, err := in.Ask(label + " [y/N]")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

// pickIndex asks for a 1-based position among n entries and returns it
// 0-based. An empty answer cancels.
func pickIndex(in *reader.Console, label string, n int) (int, error) {
	for {
		answer, err := in.Ask(fmt.Sprintf("%s [1-%d]", label, n))
		if err != nil || answer == "" {
			return 0, errCancelled
		}
		idx, err := strconv.Atoi(answer)
		if err == nil && idx >= 1 && idx <= n {
			return idx - 1, nil
		}
		in.Error("Enter a number between 1 and %d", n)
	}
}

// confirmAndExit asks with promptui. Only for commands that end right after.
func confirmAndExit(label string) bool {
	prompt := promptui.Prompt{Label: label, IsConfirm: true}
	_, err := prompt.Run()
	return err == nil
}

func readChapter(cmd *cobra.Command, mangaID, chapter string, strategy reader.Strategy, maxPages int) error {
	ok, err := controller.ReadChapter(cmd.Context(), services.ReadOptions{
		MangaID:  mangaID,
		Chapter:  chapter,
		Strategy: strategy,
		MaxPages: maxPages,
		In:       stdin,
		Out:      os.Stdout,
	})
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("no page could be displayed")
	}
	fmt.Println(styles.SuccessStyle.Render("Finished reading session"))
	return nil
}
