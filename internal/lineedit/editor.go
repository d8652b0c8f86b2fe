// Package lineedit is the line-editing provider. On a terminal it runs a
// raw-mode editor with history navigation; otherwise it reads plain lines.
package lineedit

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/ninesh-dev/ninesh/domain/ports"
)

// Editor reads lines from in and echoes prompts to out.
type Editor struct {
	in      *os.File
	out     io.Writer
	history *History
	store   ports.HistoryStore
	logger  *slog.Logger
	tty     bool

	reader *bufio.Reader
	term   *term.Terminal
}

var _ ports.LineEditor = (*Editor)(nil)

// Option configures an Editor.
type Option func(*Editor)

// WithHistoryLimit bounds the in-memory history.
func WithHistoryLimit(n int) Option {
	return func(e *Editor) {
		e.history = NewHistory(n)
	}
}

// WithHistoryStore persists history. The most recent entries are loaded
// when the editor is created.
func WithHistoryStore(s ports.HistoryStore) Option {
	return func(e *Editor) {
		e.store = s
	}
}

// WithLogger sets the logger used for history persistence problems.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = l
	}
}

// WithTerminal forces or disables the raw-mode editor regardless of what
// in is connected to.
func WithTerminal(on bool) Option {
	return func(e *Editor) {
		e.tty = on
	}
}

// New creates an Editor over in and out.
func New(in, out *os.File, opts ...Option) *Editor {
	e := &Editor{
		in:      in,
		out:     out,
		history: NewHistory(1000),
		logger:  slog.Default(),
		tty:     isatty.IsTerminal(in.Fd()) && isatty.IsTerminal(out.Fd()),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.store != nil {
		cmds, err := e.store.LastCmds(e.history.limit)
		if err != nil {
			e.logger.Warn("lineedit: cannot load history", "error", err)
		}
		for _, c := range cmds {
			e.history.Add(c)
		}
	}

	if e.tty {
		e.term = term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{in, out}, "")
		e.term.History = termHistory{e.history}
	} else {
		e.reader = bufio.NewReader(in)
	}
	return e
}

// History returns the in-memory history.
func (e *Editor) History() *History {
	return e.history
}

// ReadLine displays prompt and reads one line. It returns io.EOF when the
// input is exhausted with nothing left to return.
func (e *Editor) ReadLine(prompt string) (string, error) {
	if e.term != nil {
		return e.readRaw(prompt)
	}
	fmt.Fprint(e.out, prompt)
	line, err := e.reader.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return chopLineEnding(line), err
}

func (e *Editor) readRaw(prompt string) (string, error) {
	fd := int(e.in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return "", fmt.Errorf("lineedit: %w", err)
	}
	defer func() { _ = term.Restore(fd, state) }()

	if w, h, err := term.GetSize(fd); err == nil {
		_ = e.term.SetSize(w, h)
	}
	e.term.SetPrompt(prompt)
	return e.term.ReadLine()
}

// AddHistory records line in memory and, when configured, in the store.
func (e *Editor) AddHistory(line string) error {
	e.history.Add(line)
	if e.store == nil {
		return nil
	}
	if _, err := e.store.AddCmd(line); err != nil {
		return fmt.Errorf("lineedit: persist history: %w", err)
	}
	return nil
}

// Close closes the history store, if any.
func (e *Editor) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

func chopLineEnding(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
