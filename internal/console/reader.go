// Package console connects a shell to a terminal: a line-editing reader when
// stdin is interactive, a buffered reader otherwise, and an output sink that
// knows whether it may emit colour.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
)

// ErrInterrupt is returned by ReadLine when the operator pressed Ctrl-C.
var ErrInterrupt = readline.ErrInterrupt

// Reader reads one line of input per call.
type Reader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// Config describes where a Reader takes input from.
type Config struct {
	In  *os.File
	Out io.Writer

	// HistoryFile persists line-editor history between sessions. Optional.
	HistoryFile string
	// HistoryLimit caps line-editor history. Zero keeps the readline default.
	HistoryLimit int
}

// Open returns a line editor when cfg.In is a terminal and a plain buffered
// reader otherwise.
func Open(cfg Config) (Reader, error) {
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	if !IsTerminal(cfg.In) {
		return NewPlainReader(cfg.In, cfg.Out), nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Stdin:           cfg.In,
		Stdout:          cfg.Out,
		HistoryFile:     cfg.HistoryFile,
		HistoryLimit:    cfg.HistoryLimit,
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize line editor: %w", err)
	}
	return &lineEditor{rl: rl}, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type lineEditor struct {
	rl *readline.Instance
}

func (e *lineEditor) ReadLine(prompt string) (string, error) {
	e.rl.SetPrompt(prompt)
	line, err := e.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupt
	}
	return line, err
}

func (e *lineEditor) Close() error {
	return e.rl.Close()
}

// PlainReader reads newline-terminated lines from any io.Reader. The prompt
// is written to out before each read.
type PlainReader struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewPlainReader wraps in. A nil out suppresses the prompt.
func NewPlainReader(in io.Reader, out io.Writer) *PlainReader {
	return &PlainReader{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// ReadLine returns the next line without its line terminator. A final line
// lacking a newline is returned before io.EOF.
func (r *PlainReader) ReadLine(prompt string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.out != nil && prompt != "" {
		if _, err := io.WriteString(r.out, prompt); err != nil {
			return "", err
		}
	}

	line, err := r.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close is a no-op; the caller owns the underlying reader.
func (r *PlainReader) Close() error {
	return nil
}
