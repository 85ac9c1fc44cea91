// Package shell runs the read, parse, dispatch loop over a registry of
// commands. Each invocation runs in its own goroutine; the loop waits for it
// unless the command is concurrent.
package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc"

	"clish/internal/console"
	"clish/internal/logger"
	"clish/pkg/command"
	"clish/pkg/parser"
)

// ErrInterrupt is returned by a LineReader when the current line was
// abandoned with Ctrl-C. The shell discards it and prompts again.
var ErrInterrupt = console.ErrInterrupt

// LineReader supplies input lines. io.EOF ends the loop.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Shell is the command dispatcher. Register commands before calling Run;
// registration while the loop is running is safe but not ordered with
// respect to lines already read.
type Shell struct {
	mu       sync.RWMutex
	registry map[string]*command.Command
	commands map[string]*command.Command
	synonyms map[string][]string
	order    []string
	prompt   Prompt

	histMu  sync.Mutex
	history []string

	running atomic.Bool
	tasks   conc.WaitGroup

	tokenizer    *parser.Tokenizer
	reader       LineReader
	out          *console.Output
	log          *log.Logger
	builtins     bool
	historyFile  string
	historyLimit int
}

// New creates a shell in the running state with the builtin commands
// registered.
func New(opts ...Option) *Shell {
	s := &Shell{
		registry:  make(map[string]*command.Command),
		commands:  make(map[string]*command.Command),
		synonyms:  make(map[string][]string),
		prompt:    Prompt{Final: DefaultFinal},
		tokenizer: parser.NewTokenizer(),
		out:       console.NewOutput(nil),
		builtins:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.NewStyledLogger("Shell")
	}
	if s.builtins {
		s.registerBuiltins()
	}
	s.running.Store(true)
	return s
}

// Register makes cmd reachable by its name and by every synonym. A name or
// synonym already in use is taken over by cmd.
func (s *Shell) Register(cmd *command.Command, synonyms ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := cmd.Name()
	keys := append([]string{name}, synonyms...)
	for _, key := range keys {
		prev, ok := s.registry[key]
		if !ok || prev.Name() == name {
			continue
		}
		if key == prev.Name() {
			s.dropCommand(key)
		} else {
			s.dropSynonym(prev.Name(), key)
		}
	}

	if old, ok := s.commands[name]; ok {
		for _, syn := range s.synonyms[name] {
			if s.registry[syn] == old {
				delete(s.registry, syn)
			}
		}
	} else {
		s.order = append(s.order, name)
	}
	s.commands[name] = cmd
	for _, key := range keys {
		s.registry[key] = cmd
	}
	s.synonyms[name] = append([]string(nil), synonyms...)

	s.log.Debug("Registered command", "command", name, "synonyms", strings.Join(synonyms, ","))
}

// dropCommand forgets a command whose canonical name was taken over, along
// with the synonyms that still resolve to it.
func (s *Shell) dropCommand(name string) {
	old := s.commands[name]
	for _, syn := range s.synonyms[name] {
		if s.registry[syn] == old {
			delete(s.registry, syn)
		}
	}
	delete(s.commands, name)
	delete(s.synonyms, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.log.Debug("Dropped command", "command", name)
}

func (s *Shell) dropSynonym(owner, key string) {
	syns := s.synonyms[owner]
	kept := syns[:0]
	for _, syn := range syns {
		if syn != key {
			kept = append(kept, syn)
		}
	}
	s.synonyms[owner] = kept
}

// Lookup resolves a command name or synonym.
func (s *Shell) Lookup(name string) (*command.Command, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cmd, ok := s.registry[name]
	return cmd, ok
}

// Commands returns the registered commands by canonical name, in
// registration order.
func (s *Shell) Commands() []*command.Command {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cmds := make([]*command.Command, 0, len(s.order))
	for _, name := range s.order {
		cmds = append(cmds, s.commands[name])
	}
	return cmds
}

// Synonyms returns the synonyms registered with the named command.
func (s *Shell) Synonyms(name string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.synonyms[name]...)
}

// Tokenizer returns the tokenizer input lines are parsed with.
func (s *Shell) Tokenizer() *parser.Tokenizer {
	return s.tokenizer
}

// Prompt returns the current prompt.
func (s *Shell) Prompt() Prompt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prompt
}

// SetInfo changes the parenthesised part of the prompt.
func (s *Shell) SetInfo(info string) {
	s.mu.Lock()
	s.prompt.Info = info
	s.mu.Unlock()
}

// Run reads and executes lines until quit, io.EOF or a read failure. It
// returns once every background invocation has finished.
func (s *Shell) Run() error {
	reader := s.reader
	if reader == nil {
		r, err := console.Open(console.Config{
			Out:          s.out,
			HistoryFile:  s.historyFile,
			HistoryLimit: s.historyLimit,
		})
		if err != nil {
			return err
		}
		defer r.Close()
		reader = r
	}

	defer s.tasks.Wait()

	s.log.Debug("Shell started")
	for s.Running() {
		line, err := reader.ReadLine(s.Prompt().String())
		if errors.Is(err, ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			s.Stop()
			break
		}
		if err != nil {
			s.Stop()
			return fmt.Errorf("failed to read input: %w", err)
		}
		_ = s.Execute(line)
	}
	s.log.Debug("Shell stopped")
	return nil
}

// Execute runs one input line the way the loop does. Every failure is
// reported on the output; for sequential commands it is also returned.
// Blank lines, syntax errors and unknown commands are not recorded in
// history.
func (s *Shell) Execute(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	rec, err := s.tokenizer.Parse(line)
	if err != nil {
		s.report(err)
		return err
	}

	cmd, ok := s.Lookup(rec.Command)
	if !ok {
		err := &CommandNotFoundError{Name: rec.Command}
		s.report(err)
		return err
	}

	// The invocation is held until the line is in history so the handler
	// always sees it there.
	release := make(chan struct{})
	done := make(chan error, 1)
	s.tasks.Go(func() {
		var result error = &command.HandlerError{Command: cmd.Name(), Panic: "invocation aborted"}
		defer func() { done <- result }()
		<-release
		result = s.invoke(cmd, rec)
	})
	s.appendHistory(line)
	close(release)

	if cmd.IsConcurrent() {
		return nil
	}
	return <-done
}

func (s *Shell) invoke(cmd *command.Command, rec *parser.LineRecord) error {
	mode := "sequential"
	if cmd.IsConcurrent() {
		mode = "concurrent"
	}

	b := command.NewBinding(cmd.Arguments())
	s.log.Debug("Invoking command", "command", cmd.Name(), "invocation", b.ID(), "mode", mode)

	err := cmd.InvokeWith(rec, s, b)
	if err != nil {
		s.log.Debug("Command failed", "command", cmd.Name(), "invocation", b.ID(), "error", err)
		s.report(err)
	}
	return err
}

func (s *Shell) report(err error) {
	s.out.Error(err.Error())
}

func (s *Shell) appendHistory(line string) {
	s.histMu.Lock()
	s.history = append(s.history, line)
	s.histMu.Unlock()
}

// Wait blocks until every started invocation has finished.
func (s *Shell) Wait() {
	s.tasks.Wait()
}

// Running reports whether the loop will read another line.
func (s *Shell) Running() bool {
	return s.running.Load()
}

// Stop makes the loop exit after the current iteration.
func (s *Shell) Stop() {
	s.running.Store(false)
}

// History returns the recorded input lines, oldest first.
func (s *Shell) History() []string {
	s.histMu.Lock()
	defer s.histMu.Unlock()
	return append([]string(nil), s.history...)
}

// ClearHistory forgets every recorded line.
func (s *Shell) ClearHistory() {
	s.histMu.Lock()
	s.history = nil
	s.histMu.Unlock()
}

// Out returns the output sink handed to commands.
func (s *Shell) Out() io.Writer {
	return s.out
}

// Println writes to the output sink.
func (s *Shell) Println(a ...any) {
	s.out.Println(a...)
}

// Printf writes to the output sink.
func (s *Shell) Printf(format string, a ...any) {
	s.out.Printf(format, a...)
}

var _ command.Session = (*Shell)(nil)
