package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/mangatrack/pkg/app/styles"
)

const clearScreen = "\x1b[H\x1b[2J"

// Console is the line based terminal the reading loop talks to.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// ReadLine returns the next line without its terminator. A final line
// without a newline is returned before io.EOF.
func (c *Console) ReadLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Ask prints label as a prompt and reads the answer line.
func (c *Console) Ask(label string) (string, error) {
	fmt.Fprintf(c.out, "%s: ", label)
	line, err := c.ReadLine()
	return strings.TrimSpace(line), err
}

func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) Styled(style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(c.out, style.Render(fmt.Sprintf(format, args...)))
}

func (c *Console) Success(format string, args ...any) {
	c.Styled(styles.SuccessStyle, format, args...)
}

func (c *Console) Warn(format string, args ...any) {
	c.Styled(styles.WarningStyle, format, args...)
}

func (c *Console) Error(format string, args ...any) {
	c.Styled(styles.ErrorStyle, format, args...)
}

func (c *Console) Clear() {
	io.WriteString(c.out, clearScreen)
}
