package cmd

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerbaras/mangatrack/pkg/config"
	"github.com/kerbaras/mangatrack/pkg/reader"
)

func newPrompter(input string) (*reader.Console, *bufio.Reader, *bytes.Buffer) {
	in := bufio.NewReader(strings.NewReader(input))
	out := &bytes.Buffer{}
	return reader.NewConsole(in, out), in, out
}

func TestChooseStrategy(t *testing.T) {
	conf = config.DefaultConfig()

	tests := []struct {
		name  string
		flag  string
		input string
		want  reader.Strategy
	}{
		{"flag wins", "ascii", "", reader.ASCII},
		{"default on empty answer", "", "\n", reader.Native},
		{"by number", "", "3\n", reader.Browser},
		{"retries invalid answers", "", "9\nfoo\n2\n", reader.SystemViewer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, _, _ := newPrompter(tt.input)
			got, err := chooseStrategy(in, tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("config", func(t *testing.T) {
		conf.Display = "ascii"
		defer func() { conf.Display = "" }()
		in, _, _ := newPrompter("")
		got, err := chooseStrategy(in, "")
		require.NoError(t, err)
		assert.Equal(t, reader.ASCII, got)
	})

	t.Run("eof cancels", func(t *testing.T) {
		in, _, _ := newPrompter("")
		_, err := chooseStrategy(in, "")
		assert.ErrorIs(t, err, errCancelled)
	})
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		in, _, _ := newPrompter(tt.input)
		assert.Equal(t, tt.want, confirm(in, "Track manga"), "input %q", tt.input)
	}
}

func TestPickIndex(t *testing.T) {
	in, _, out := newPrompter("0\nabc\n3\n")
	idx, err := pickIndex(in, "Pick manga", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Equal(t, 2, strings.Count(out.String(), "Enter a number between 1 and 3"))

	in, _, _ = newPrompter("\n")
	_, err = pickIndex(in, "Pick manga", 3)
	assert.ErrorIs(t, err, errCancelled)
}

func TestPromptsLeaveNextLineForTheReader(t *testing.T) {
	conf = config.DefaultConfig()
	in, shared, _ := newPrompter("y\n4\n\nq\n")

	assert.True(t, confirm(in, "Start reading from first chapter"))
	s, err := chooseStrategy(in, "")
	require.NoError(t, err)
	assert.Equal(t, reader.ASCII, s)

	walker := reader.NewConsole(shared, &bytes.Buffer{})
	line, err := walker.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "", line)
	line, err = walker.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "q", line)
}
