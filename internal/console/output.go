package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// Output is a concurrency-safe sink for command output. When the underlying
// writer cannot render colour, escape sequences are stripped from everything
// written through it.
type Output struct {
	mu    sync.Mutex
	w     io.Writer
	term  *termenv.Output
	color bool
}

// NewOutput wraps w, detecting its colour support once.
func NewOutput(w io.Writer) *Output {
	if w == nil {
		w = os.Stdout
	}
	term := termenv.NewOutput(w)
	return &Output{
		w:     w,
		term:  term,
		color: term.EnvColorProfile() != termenv.Ascii,
	}
}

// Colored reports whether styled text reaches the writer intact.
func (o *Output) Colored() bool {
	return o.color
}

func (o *Output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.color {
		return o.w.Write(p)
	}
	if _, err := io.WriteString(o.w, ansi.Strip(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Println writes its operands followed by a newline.
func (o *Output) Println(a ...any) {
	_, _ = fmt.Fprintln(o, a...)
}

// Printf writes formatted text.
func (o *Output) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(o, format, a...)
}

// Error writes "Error: msg" on its own line, in red when colour is available.
func (o *Output) Error(msg string) {
	text := "Error: " + msg
	if o.color {
		text = o.term.String(text).Foreground(o.term.Color("1")).String()
	}
	o.Println(text)
}
