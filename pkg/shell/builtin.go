package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"clish/pkg/command"
)

const helpColumnWidth = 20

func (s *Shell) registerBuiltins() {
	s.Register(QuitCommand(), "q")
	s.Register(HistoryCommand())
	s.Register(HelpCommand(s), "h", "?")
}

// QuitCommand stops the loop.
func QuitCommand() *command.Command {
	return command.New("quit", "Exit this interface",
		command.HandlerFunc(func(s command.Session, _ *command.Command, _ *command.Binding) error {
			s.Stop()
			return nil
		}))
}

var (
	historyTail = command.Named("t", "tail",
		"takes value n - positive integer, show last n parameter", false,
		command.WithConverter(command.ToInt),
		command.WithValidator(command.NonNegative))
	historyClear = command.Named("c", "clear", "clear history", false,
		command.WithValidator(command.EmptyValue))
)

// HistoryCommand lists recorded lines, the last -tail N of them, or clears
// them with -clear.
func HistoryCommand() *command.Command {
	cmd := command.New("history", "Show command history", command.HandlerFunc(runHistory))
	mustAdd(cmd, historyTail)
	mustAdd(cmd, historyClear)
	return cmd
}

func runHistory(s command.Session, _ *command.Command, b *command.Binding) error {
	if b.IsFilled(historyClear) {
		s.ClearHistory()
		return nil
	}

	lines := s.History()
	if n, ok := historyTail.From(b); ok && n < len(lines) {
		lines = lines[len(lines)-n:]
	}
	for _, line := range lines {
		s.Println(line)
	}
	return nil
}

var helpTopic = command.Free[string]("command for detail information", false)

// HelpCommand lists the commands registered in sh, or describes one of them.
func HelpCommand(sh *Shell) *command.Command {
	cmd := command.New("help", "Show help",
		command.HandlerFunc(func(s command.Session, _ *command.Command, b *command.Binding) error {
			if name, ok := helpTopic.From(b); ok {
				return sh.describe(s, name)
			}
			sh.listCommands(s)
			return nil
		}))
	mustAdd(cmd, helpTopic)
	return cmd
}

func (s *Shell) listCommands(out command.Session) {
	out.Println("Supported command:")
	out.Println()

	style := lipgloss.NewRenderer(out.Out()).NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	for _, cmd := range s.Commands() {
		label := cmd.Name()
		if syns := s.Synonyms(cmd.Name()); len(syns) > 0 {
			label += ", " + strings.Join(syns, ", ")
		}
		out.Printf(" %s  %s\n", pad(style.Render(label), helpColumnWidth), cmd.Description())
	}
}

func (s *Shell) describe(out command.Session, name string) error {
	cmd, ok := s.Lookup(name)
	if !ok {
		return &CommandNotFoundError{Name: name}
	}

	prefix := s.tokenizer.Prefix()
	out.Printf("%s - %s\n", cmd.Name(), cmd.Description())
	out.Printf("Usage: %s\n", cmd.Usage(prefix))
	if syns := s.Synonyms(cmd.Name()); len(syns) > 0 {
		out.Printf("Synonyms: %s\n", strings.Join(syns, ", "))
	}
	if cmd.IsConcurrent() {
		out.Println("Mode: concurrent")
	} else {
		out.Println("Mode: sequential")
	}

	args := cmd.Arguments()
	if len(args) == 0 {
		return nil
	}
	out.Println("Arguments:")
	for _, a := range args {
		out.Printf("  %s  %s\n", pad(argumentKeys(a, prefix), helpColumnWidth), argumentSummary(a))
	}
	return nil
}

func argumentKeys(a command.Argument, prefix string) string {
	if a.IsFree() {
		return "<" + a.TypeName() + ">"
	}
	var keys []string
	if a.ShortName() != "" {
		keys = append(keys, prefix+a.ShortName())
	}
	if a.FullName() != "" {
		keys = append(keys, prefix+a.FullName())
	}
	return strings.Join(keys, ", ")
}

func argumentSummary(a command.Argument) string {
	if a.Required() {
		return a.Description() + " (required)"
	}
	return a.Description()
}

// pad right-fills s to width display cells, ignoring escape sequences.
func pad(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func mustAdd(cmd *command.Command, a command.Argument) {
	if err := cmd.AddArgument(a); err != nil {
		panic(fmt.Sprintf("builtin %s: %v", cmd.Name(), err))
	}
}
