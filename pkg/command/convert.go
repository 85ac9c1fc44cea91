package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNoConverter is returned for a non-string argument declared without a converter.
var ErrNoConverter = errors.New("no converter set for a non-string argument")

// Identity returns raw unchanged.
func Identity(raw string) (string, error) {
	return raw, nil
}

// ToInt parses a base-10 integer.
func ToInt(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.New("integer value expected")
	}
	return n, nil
}

// ToFloat parses a floating-point number.
func ToFloat(raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, errors.New("number expected")
	}
	return f, nil
}

// ToBool parses a boolean. An empty value, as supplied by a bare flag, is true.
func ToBool(raw string) (bool, error) {
	if raw == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, errors.New("boolean value expected")
	}
	return b, nil
}

// ToDuration parses a Go duration such as "1.5s" or "2m".
func ToDuration(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.New("duration expected, e.g. 500ms or 2s")
	}
	return d, nil
}

// NonNegative rejects integers below zero.
func NonNegative(v int) error {
	if v < 0 {
		return fmt.Errorf("%d is negative, positive integer expected", v)
	}
	return nil
}

// EmptyValue rejects anything but the empty string. It suits flags that
// must not consume a value.
func EmptyValue(v string) error {
	if v != "" {
		return fmt.Errorf("unexpected value %q, flag takes no value", v)
	}
	return nil
}

// OneOf accepts only the listed strings.
func OneOf(allowed ...string) Validator[string] {
	return func(v string) error {
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fmt.Errorf("expected one of %s", strings.Join(allowed, ", "))
	}
}

// Check adapts a predicate into a Validator that fails with msg.
func Check[T any](pred func(T) bool, msg string) Validator[T] {
	return func(v T) error {
		if !pred(v) {
			return errors.New(msg)
		}
		return nil
	}
}
