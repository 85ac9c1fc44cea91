package shell

import (
	"io"

	"github.com/charmbracelet/log"

	"clish/internal/console"
	"clish/pkg/parser"
)

// Option configures a Shell.
type Option func(*Shell)

// WithName sets the leading part of the prompt.
func WithName(name string) Option {
	return func(s *Shell) {
		s.prompt.Name = name
	}
}

// WithInfo sets the parenthesised part of the prompt.
func WithInfo(info string) Option {
	return func(s *Shell) {
		s.prompt.Info = info
	}
}

// WithFinalSymbol sets the symbol that ends the prompt. Empty is ignored.
func WithFinalSymbol(final string) Option {
	return func(s *Shell) {
		if final != "" {
			s.prompt.Final = final
		}
	}
}

// WithPrompt replaces the whole prompt.
func WithPrompt(p Prompt) Option {
	return func(s *Shell) {
		s.prompt = p
	}
}

// WithTokenizer sets the tokenizer used to parse input lines.
func WithTokenizer(t *parser.Tokenizer) Option {
	return func(s *Shell) {
		if t != nil {
			s.tokenizer = t
		}
	}
}

// WithReader sets the line source. Without it Run opens stdin.
func WithReader(r LineReader) Option {
	return func(s *Shell) {
		s.reader = r
	}
}

// WithOutput sets where command output and error reports go.
func WithOutput(w io.Writer) Option {
	return func(s *Shell) {
		if w != nil {
			s.out = console.NewOutput(w)
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Shell) {
		if l != nil {
			s.log = l
		}
	}
}

// WithHistoryFile persists line-editor history when Run opens a terminal.
func WithHistoryFile(path string, limit int) Option {
	return func(s *Shell) {
		s.historyFile = path
		s.historyLimit = limit
	}
}

// WithoutBuiltins skips registering quit, help and history.
func WithoutBuiltins() Option {
	return func(s *Shell) {
		s.builtins = false
	}
}
