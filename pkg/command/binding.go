package command

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Binding holds the values bound for one invocation. Each Invoke creates its
// own, so concurrent runs of the same Command never share state.
type Binding struct {
	mu     sync.RWMutex
	id     uuid.UUID
	args   []Argument
	values map[Argument]any
}

// NewBinding creates an empty binding over the given declared arguments.
func NewBinding(args []Argument) *Binding {
	return &Binding{
		id:     uuid.New(),
		args:   args,
		values: make(map[Argument]any, len(args)),
	}
}

// ID identifies the invocation that owns the binding.
func (b *Binding) ID() uuid.UUID {
	return b.id
}

// Set binds raw to a, converting and validating it first.
func (b *Binding) Set(a Argument, raw string) error {
	v, err := a.bindRaw(raw)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.values[a] = v
	b.mu.Unlock()
	return nil
}

// IsFilled reports whether a has a bound value.
func (b *Binding) IsFilled(a Argument) bool {
	_, ok := b.value(a)
	return ok
}

// Filled reports whether the argument with the given short or full name has
// a bound value.
func (b *Binding) Filled(name string) bool {
	_, ok := b.Get(name)
	return ok
}

// Get returns the value bound to the argument with the given short or full name.
func (b *Binding) Get(name string) (any, bool) {
	for _, a := range b.args {
		if a.Matches(name) {
			return b.value(a)
		}
	}
	return nil, false
}

// Free returns the value bound to the i-th free argument.
func (b *Binding) Free(i int) (any, bool) {
	n := 0
	for _, a := range b.args {
		if !a.IsFree() {
			continue
		}
		if n == i {
			return b.value(a)
		}
		n++
	}
	return nil, false
}

// String returns the named value formatted as text, or "" when unset.
func (b *Binding) String(name string) string {
	v, ok := b.Get(name)
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

// Len returns the number of filled arguments.
func (b *Binding) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.values)
}

// Clear drops every bound value. Calling it repeatedly is harmless.
func (b *Binding) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.values)
}

func (b *Binding) value(a Argument) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[a]
	return v, ok
}
