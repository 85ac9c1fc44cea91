// Package command declares commands and their argument schemas, and runs the
// validate, bind, execute and cleanup pipeline for one invocation.
package command

import (
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/panics"

	"clish/pkg/parser"
)

// Option configures a Command.
type Option func(*Command)

// Concurrent makes the shell read the next line without waiting for the
// command to finish.
func Concurrent() Option {
	return func(c *Command) {
		c.concurrent = true
	}
}

// Command pairs a name with an argument schema and a handler. Its identity
// is its name. A Command is built once during setup; its schema must not
// change once the shell is running.
type Command struct {
	name        string
	description string
	concurrent  bool
	handler     Handler
	args        []Argument
}

// New creates a sequential command unless Concurrent is given.
func New(name, description string, handler Handler, opts ...Option) *Command {
	c := &Command{
		name:        name,
		description: description,
		handler:     handler,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the canonical command name.
func (c *Command) Name() string {
	return c.name
}

// Description returns the one-line summary shown by help.
func (c *Command) Description() string {
	return c.description
}

// IsConcurrent reports whether the command runs in the background.
func (c *Command) IsConcurrent() bool {
	return c.concurrent
}

// AddArgument appends a to the schema. Free arguments are bound in the order
// they are added.
func (c *Command) AddArgument(a Argument) error {
	for _, existing := range c.args {
		if Equal(existing, a) {
			return &DuplicateArgumentError{Command: c.name, Argument: a}
		}
	}
	if err := a.checkConverter(); err != nil {
		return err
	}
	c.args = append(c.args, a)
	return nil
}

// Arguments returns the declared arguments in declaration order.
func (c *Command) Arguments() []Argument {
	return append([]Argument(nil), c.args...)
}

// FreeArguments returns the positional arguments in declaration order.
func (c *Command) FreeArguments() []Argument {
	var free []Argument
	for _, a := range c.args {
		if a.IsFree() {
			free = append(free, a)
		}
	}
	return free
}

// Argument returns the named argument matching name, or nil.
func (c *Command) Argument(name string) Argument {
	for _, a := range c.args {
		if a.Matches(name) {
			return a
		}
	}
	return nil
}

// Arity returns how many free values the command accepts.
func (c *Command) Arity() (minCount, maxCount int) {
	for _, a := range c.args {
		if !a.IsFree() {
			continue
		}
		maxCount++
		if a.Required() {
			minCount++
		}
	}
	return minCount, maxCount
}

// Invoke validates line against the schema, binds its values into a fresh
// Binding and runs the handler. The binding is cleared before Invoke returns,
// whatever the outcome. A failing handler, or a panic anywhere in the
// pipeline, yields a HandlerError.
func (c *Command) Invoke(line *parser.LineRecord, s Session) error {
	return c.InvokeWith(line, s, NewBinding(c.args))
}

// InvokeWith is Invoke with a caller-supplied binding, so the caller can
// correlate the invocation by b.ID(). b is cleared before InvokeWith returns.
func (c *Command) InvokeWith(line *parser.LineRecord, s Session, b *Binding) error {
	defer b.Clear()

	var (
		err     error
		catcher panics.Catcher
	)
	catcher.Try(func() {
		err = c.pipeline(line, s, b)
	})
	if r := catcher.Recovered(); r != nil {
		return &HandlerError{Command: c.name, Panic: r.Value}
	}
	return err
}

func (c *Command) pipeline(line *parser.LineRecord, s Session, b *Binding) error {
	if err := c.validate(line); err != nil {
		return err
	}
	if err := c.fill(line, b); err != nil {
		return err
	}
	return c.run(s, b)
}

func (c *Command) validate(line *parser.LineRecord) error {
	minCount, maxCount := c.Arity()
	if got := line.FreeCount(); got < minCount || got > maxCount {
		return &ArityError{Command: c.name, Got: got, Min: minCount, Max: maxCount}
	}

	for _, a := range c.args {
		if a.IsFree() || !a.Required() {
			continue
		}
		if !line.HasAny(a.ShortName(), a.FullName()) {
			return &MissingArgumentError{Command: c.name, Argument: a}
		}
	}

	for _, key := range line.NamedKeys() {
		if c.Argument(key) == nil {
			return &UnknownArgumentError{Command: c.name, Key: key}
		}
	}

	return nil
}

func (c *Command) fill(line *parser.LineRecord, b *Binding) error {
	free := c.FreeArguments()
	for i, raw := range line.Free {
		if err := b.Set(free[i], raw); err != nil {
			return err
		}
	}

	for _, key := range line.NamedKeys() {
		raw, _ := line.Value(key)
		if err := b.Set(c.Argument(key), raw); err != nil {
			return err
		}
	}

	return nil
}

func (c *Command) run(s Session, b *Binding) error {
	if c.handler == nil {
		return nil
	}
	if err := c.handler.Run(s, c, b); err != nil {
		return &HandlerError{Command: c.name, Err: err}
	}
	return nil
}

// Usage renders a synopsis such as "history [-t|-tail <int>] [-c|-clear <string>]".
func (c *Command) Usage(prefix string) string {
	parts := []string{c.name}

	for _, a := range c.args {
		if !a.IsFree() {
			continue
		}
		if a.Required() {
			parts = append(parts, "<"+a.Description()+">")
		} else {
			parts = append(parts, "["+a.Description()+"]")
		}
	}

	for _, a := range c.args {
		if a.IsFree() {
			continue
		}
		var keys []string
		if a.ShortName() != "" {
			keys = append(keys, prefix+a.ShortName())
		}
		if a.FullName() != "" {
			keys = append(keys, prefix+a.FullName())
		}
		part := fmt.Sprintf("%s <%s>", strings.Join(keys, "|"), a.TypeName())
		if !a.Required() {
			part = "[" + part + "]"
		}
		parts = append(parts, part)
	}

	return strings.Join(parts, " ")
}

func (c *Command) String() string {
	return c.name
}
