package command

import (
	"fmt"
)

// ArityError reports a free-argument count outside the accepted range.
type ArityError struct {
	Command string
	Got     int
	Min     int
	Max     int
}

func (e *ArityError) Error() string {
	if e.Min == e.Max {
		return fmt.Sprintf("unsupported arguments amount for %q: got %d, expected %d", e.Command, e.Got, e.Min)
	}
	return fmt.Sprintf("unsupported arguments amount for %q: got %d, expected %d to %d", e.Command, e.Got, e.Min, e.Max)
}

// MissingArgumentError reports a required named argument absent from the line.
type MissingArgumentError struct {
	Command  string
	Argument Argument
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("required argument %s of %q not found", Label(e.Argument), e.Command)
}

// UnknownArgumentError reports a named key no argument of the command declares.
type UnknownArgumentError struct {
	Command string
	Key     string
}

func (e *UnknownArgumentError) Error() string {
	return fmt.Sprintf("unexpected argument %q for %q", e.Key, e.Command)
}

// ConversionError reports raw text the argument's converter could not parse.
type ConversionError struct {
	Argument Argument
	Raw      string
	Err      error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("value %q of %s did not convert: %v", e.Raw, Label(e.Argument), e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// ValidationError reports a converted value the argument's validator rejected.
type ValidationError struct {
	Argument Argument
	Raw      string
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("value %q of %s failed validation: %v", e.Raw, Label(e.Argument), e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// DuplicateArgumentError is returned by AddArgument when the command already
// holds an argument with the same identity.
type DuplicateArgumentError struct {
	Command  string
	Argument Argument
}

func (e *DuplicateArgumentError) Error() string {
	return fmt.Sprintf("argument %s already exists in %q", Label(e.Argument), e.Command)
}

// HandlerError wraps a failure raised by a command's own logic. Panic holds
// the recovered value when the handler panicked instead of returning.
type HandlerError struct {
	Command string
	Err     error
	Panic   any
}

func (e *HandlerError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("command %q panicked: %v", e.Command, e.Panic)
	}
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
