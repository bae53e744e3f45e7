package reader

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"go.uber.org/multierr"

	"github.com/kerbaras/mangatrack/pkg/utils"
)

// linuxViewers are tried in order until one of them succeeds.
var linuxViewers = []string{"xdg-open", "feh", "display", "eog"}

// Opener hands a file to the host's default image viewer.
type Opener struct {
	goos string
	run  func(ctx context.Context, name string, args ...string) error
}

func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS, run: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Commands lists the candidate command lines for path on this platform.
func (o *Opener) Commands(path string) [][]string {
	switch o.goos {
	case "darwin":
		return [][]string{{"open", path}}
	case "windows":
		return [][]string{{"cmd", "/c", "start", "", path}}
	default:
		cmds := make([][]string, len(linuxViewers))
		for i, v := range linuxViewers {
			cmds[i] = []string{v, path}
		}
		return cmds
	}
}

// Open runs the candidates in order and stops at the first success.
func (o *Opener) Open(ctx context.Context, path string) error {
	var errs error
	for _, cmd := range o.Commands(path) {
		err := o.run(ctx, cmd[0], cmd[1:]...)
		if err == nil {
			return nil
		}
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", cmd[0], err))
	}
	return fmt.Errorf("%w: no viewer could open %s: %v", utils.ErrDisplay, path, errs)
}
