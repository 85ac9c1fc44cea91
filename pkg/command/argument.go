package command

import (
	"fmt"
	"reflect"
)

// Argument is the type-erased view of an Arg that a Command stores. It is
// implemented only by *Arg[T].
type Argument interface {
	ShortName() string
	FullName() string
	Description() string
	Required() bool
	IsFree() bool
	Matches(name string) bool
	TypeName() string

	bindRaw(raw string) (any, error)
	checkConverter() error
}

// Converter parses raw text into an argument's semantic type.
type Converter[T any] func(raw string) (T, error)

// Validator checks a converted value. A non-nil error rejects it.
type Validator[T any] func(value T) error

// ArgOption configures an Arg at construction.
type ArgOption[T any] func(*Arg[T])

// WithConverter sets the converter. Without one the argument only accepts
// string values.
func WithConverter[T any](c Converter[T]) ArgOption[T] {
	return func(a *Arg[T]) {
		a.converter = c
	}
}

// WithValidator sets the validator run after a successful conversion.
func WithValidator[T any](v Validator[T]) ArgOption[T] {
	return func(a *Arg[T]) {
		a.validator = v
	}
}

// Arg declares one argument slot. It holds no bound value and is never
// modified after construction; bound values live in a Binding.
type Arg[T any] struct {
	short       string
	full        string
	description string
	required    bool
	converter   Converter[T]
	validator   Validator[T]
}

// Free declares a positional argument.
func Free[T any](description string, required bool, opts ...ArgOption[T]) *Arg[T] {
	return newArg("", "", description, required, opts)
}

// Named declares an argument addressed by a short and/or full key. With both
// names empty the argument is free.
func Named[T any](short, full, description string, required bool, opts ...ArgOption[T]) *Arg[T] {
	return newArg(short, full, description, required, opts)
}

func newArg[T any](short, full, description string, required bool, opts []ArgOption[T]) *Arg[T] {
	a := &Arg[T]{
		short:       short,
		full:        full,
		description: description,
		required:    required,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Arg[T]) ShortName() string   { return a.short }
func (a *Arg[T]) FullName() string    { return a.full }
func (a *Arg[T]) Description() string { return a.description }
func (a *Arg[T]) Required() bool      { return a.required }

// IsFree reports whether the argument is identified by position only.
func (a *Arg[T]) IsFree() bool {
	return a.short == "" && a.full == ""
}

// Matches reports whether name is the argument's short or full key.
// Free arguments match nothing.
func (a *Arg[T]) Matches(name string) bool {
	if a.IsFree() {
		return false
	}
	return (a.short != "" && a.short == name) || (a.full != "" && a.full == name)
}

// TypeName returns the Go type of the converted value.
func (a *Arg[T]) TypeName() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// Bind converts raw and then validates the result. The validator never sees
// a value the converter did not produce.
func (a *Arg[T]) Bind(raw string) (T, error) {
	var zero T

	value, err := a.convert(raw)
	if err != nil {
		return zero, &ConversionError{Argument: a, Raw: raw, Err: err}
	}

	if a.validator != nil {
		if err := a.validator(value); err != nil {
			return zero, &ValidationError{Argument: a, Raw: raw, Err: err}
		}
	}

	return value, nil
}

// From returns the value bound to this argument in b.
func (a *Arg[T]) From(b *Binding) (T, bool) {
	var zero T
	if b == nil {
		return zero, false
	}
	v, ok := b.value(a)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

func (a *Arg[T]) String() string {
	return Label(a)
}

func (a *Arg[T]) convert(raw string) (T, error) {
	if a.converter != nil {
		return a.converter(raw)
	}
	if s, ok := any(raw).(T); ok {
		return s, nil
	}
	var zero T
	return zero, ErrNoConverter
}

func (a *Arg[T]) bindRaw(raw string) (any, error) {
	return a.Bind(raw)
}

func (a *Arg[T]) checkConverter() error {
	if a.converter != nil {
		return nil
	}
	if _, ok := any("").(T); !ok {
		return fmt.Errorf("argument %s of type %s: %w", Label(a), a.TypeName(), ErrNoConverter)
	}
	return nil
}

// Equal reports whether two arguments share an identity: the same short and
// full names. Two free arguments are equal only if their descriptions match too.
func Equal(a, b Argument) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ShortName() != b.ShortName() || a.FullName() != b.FullName() {
		return false
	}
	if a.IsFree() {
		return a.Description() == b.Description()
	}
	return true
}

// Label renders an argument for messages: "full(short)" for named arguments,
// the description for free ones.
func Label(a Argument) string {
	switch {
	case a == nil:
		return `""`
	case a.IsFree():
		return fmt.Sprintf("%q", a.Description())
	case a.ShortName() == "":
		return fmt.Sprintf("%q", a.FullName())
	case a.FullName() == "":
		return fmt.Sprintf("%q", a.ShortName())
	default:
		return fmt.Sprintf("%q", a.FullName()+"("+a.ShortName()+")")
	}
}
