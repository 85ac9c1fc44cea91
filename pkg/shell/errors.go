package shell

import "fmt"

// CommandNotFoundError is reported when a line names no registered command.
type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string {
	if e.Name == "" {
		return `command not found. Type "help" for help.`
	}
	return fmt.Sprintf(`command %q not found. Type "help" for help.`, e.Name)
}
