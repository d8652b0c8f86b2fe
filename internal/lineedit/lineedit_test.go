package lineedit

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipeInput(t *testing.T, input string) *os.File {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString(input)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func devNull(t *testing.T) *os.File {
	t.Helper()
	f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestEditor_PlainLines(t *testing.T) {
	in := pipeInput(t, "first\r\nsecond\nlast")
	ed := New(in, devNull(t), WithTerminal(false))

	for _, want := range []string{"first", "second", "last"} {
		line, err := ed.ReadLine("> ")
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}

	_, err := ed.ReadLine("> ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestEditor_EmptyLinesAreReturned(t *testing.T) {
	ed := New(pipeInput(t, "\n\n"), devNull(t), WithTerminal(false))
	line, err := ed.ReadLine("")
	require.NoError(t, err)
	assert.Empty(t, line)
}

func TestHistory_Bounded(t *testing.T) {
	h := NewHistory(2)
	h.Add("a")
	h.Add("b")
	h.Add("c")
	assert.Equal(t, []string{"b", "c"}, h.Entries())
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "c", h.At(0))
	assert.Equal(t, "b", h.At(1))

	none := NewHistory(0)
	none.Add("x")
	assert.Zero(t, none.Len())
}

func TestTermHistory_AddIsNavigationOnly(t *testing.T) {
	h := NewHistory(10)
	th := termHistory{h}
	th.Add("typed")
	assert.Zero(t, h.Len())

	h.Add("kept")
	assert.Equal(t, 1, th.Len())
	assert.Equal(t, "kept", th.At(0))
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "history.db")
	s, err := OpenStore(path)
	require.NoError(t, err)

	for i, cmd := range []string{"one", "two", "three"} {
		seq, err := s.AddCmd(cmd)
		require.NoError(t, err)
		assert.Equal(t, i+1, seq)
	}

	cmds, err := s.LastCmds(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "three"}, cmds)

	cmds, err = s.LastCmds(0)
	require.NoError(t, err)
	assert.Empty(t, cmds)
	require.NoError(t, s.Close())

	s, err = OpenStore(path)
	require.NoError(t, err)
	defer s.Close()
	cmds, err = s.LastCmds(10)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, cmds)
}

func TestEditor_PersistsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := OpenStore(path)
	require.NoError(t, err)
	_, err = s.AddCmd("old")
	require.NoError(t, err)

	ed := New(pipeInput(t, ""), devNull(t), WithTerminal(false),
		WithHistoryLimit(5), WithHistoryStore(s))
	assert.Equal(t, []string{"old"}, ed.History().Entries())

	require.NoError(t, ed.AddHistory("new"))
	assert.Equal(t, []string{"old", "new"}, ed.History().Entries())
	require.NoError(t, ed.Close())

	s, err = OpenStore(path)
	require.NoError(t, err)
	defer s.Close()
	cmds, err := s.LastCmds(10)
	require.NoError(t, err)
	assert.Equal(t, []string{"old", "new"}, cmds)
}

func TestEditor_RawModeHistoryNavigation(t *testing.T) {
	master, slave, err := pty.Open()
	if err != nil {
		t.Skipf("pseudo-terminals unavailable: %v", err)
	}
	defer master.Close()
	defer slave.Close()

	// Drain echoed output so the editor never blocks on a full buffer.
	go func() { _, _ = io.Copy(io.Discard, master) }()

	ed := New(slave, slave, WithTerminal(true))
	require.NoError(t, ed.AddHistory("remembered"))

	_, err = master.WriteString("hidden\r")
	require.NoError(t, err)
	line, err := ed.ReadLine("9sh> ")
	require.NoError(t, err)
	assert.Equal(t, "hidden", line)

	// Up arrow recalls the last explicitly added line, not the last read.
	_, err = master.WriteString("\x1b[A\r")
	require.NoError(t, err)
	line, err = ed.ReadLine("9sh> ")
	require.NoError(t, err)
	assert.Equal(t, "remembered", line)

	// Ctrl-D on an empty line ends input.
	_, err = master.WriteString("\x04")
	require.NoError(t, err)
	_, err = ed.ReadLine("9sh> ")
	assert.ErrorIs(t, err, io.EOF)
}
