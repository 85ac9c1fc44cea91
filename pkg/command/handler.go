package command

import "io"

// Session is what a running command can reach of the shell that dispatched it.
type Session interface {
	Out() io.Writer
	Println(a ...any)
	Printf(format string, a ...any)
	History() []string
	ClearHistory()
	Stop()
}

// Handler implements a command's behaviour. It reads its arguments from b.
type Handler interface {
	Run(s Session, c *Command, b *Binding) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(s Session, c *Command, b *Binding) error

// Run calls f.
func (f HandlerFunc) Run(s Session, c *Command, b *Binding) error {
	return f(s, c, b)
}
