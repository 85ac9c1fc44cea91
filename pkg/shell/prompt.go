package shell

// DefaultFinal ends the prompt when no final symbol is configured.
const DefaultFinal = ">"

// Prompt renders as <name><(info)?><final> followed by a space.
type Prompt struct {
	Name  string
	Info  string
	Final string
}

func (p Prompt) String() string {
	s := p.Name
	if p.Info != "" {
		s += "(" + p.Info + ")"
	}
	return s + p.Final + " "
}
