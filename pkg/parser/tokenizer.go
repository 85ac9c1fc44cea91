// Package parser splits raw shell input into typed tokens and groups them into
// a LineRecord holding the command name, free values and named arguments.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	// DefaultPrefix marks a word as a named-argument key.
	DefaultPrefix = "-"
	// DefaultDelimiter encloses a value that must be taken verbatim.
	DefaultDelimiter = '"'
)

// TokenKind classifies a token structurally.
type TokenKind int

const (
	// Value is a bare word, a quoted string or a numeric literal.
	Value TokenKind = iota
	// Marker is a word carrying the argument prefix. Its Text is the key.
	Marker
)

func (k TokenKind) String() string {
	switch k {
	case Value:
		return "value"
	case Marker:
		return "marker"
	default:
		return "unknown"
	}
}

// Token is a single classified word of an input line.
// Text holds plain content: the literal for values, the key for markers.
type Token struct {
	Kind   TokenKind
	Text   string
	Quoted bool
}

// IsMarker reports whether the token names an argument.
func (t Token) IsMarker() bool {
	return t.Kind == Marker
}

// SyntaxError reports a line whose quote delimiters are unbalanced.
type SyntaxError struct {
	Line      string
	Delimiter rune
	Count     int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("unexpected string delimiter: found %d %q in line, expected an even count", e.Count, e.Delimiter)
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithPrefix sets the argument-marker prefix. Empty values are ignored.
func WithPrefix(prefix string) Option {
	return func(t *Tokenizer) {
		if prefix != "" {
			t.prefix = prefix
		}
	}
}

// WithDelimiter sets the quote delimiter. Whitespace is rejected and ignored.
func WithDelimiter(delim rune) Option {
	return func(t *Tokenizer) {
		if delim != 0 && !unicode.IsSpace(delim) {
			t.delimiter = delim
		}
	}
}

// Tokenizer turns input lines into tokens. It holds no per-line state and is
// safe for concurrent use.
type Tokenizer struct {
	prefix    string
	delimiter rune
}

// NewTokenizer creates a Tokenizer using the default prefix and delimiter
// unless overridden by options.
func NewTokenizer(opts ...Option) *Tokenizer {
	t := &Tokenizer{
		prefix:    DefaultPrefix,
		delimiter: DefaultDelimiter,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Prefix returns the argument-marker prefix.
func (t *Tokenizer) Prefix() string {
	return t.prefix
}

// Delimiter returns the quote delimiter.
func (t *Tokenizer) Delimiter() rune {
	return t.delimiter
}

// Tokenize splits line into tokens. A quoted segment always becomes a single
// value token, even when it looks like a marker.
func (t *Tokenizer) Tokenize(line string) ([]Token, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return []Token{}, nil
	}

	delim := string(t.delimiter)
	if !strings.Contains(line, delim) {
		return t.splitWords(line), nil
	}

	count := strings.Count(line, delim)
	if count%2 != 0 {
		return nil, &SyntaxError{Line: line, Delimiter: t.delimiter, Count: count}
	}

	segments := strings.Split(line, delim)
	tokens := make([]Token, 0, len(segments))
	for i, segment := range segments {
		if i%2 == 0 {
			tokens = append(tokens, t.splitWords(segment)...)
			continue
		}
		tokens = append(tokens, Token{Kind: Value, Text: segment, Quoted: true})
	}
	return tokens, nil
}

// Parse tokenizes line and groups the tokens into a LineRecord.
func (t *Tokenizer) Parse(line string) (*LineRecord, error) {
	tokens, err := t.Tokenize(line)
	if err != nil {
		return nil, err
	}
	return ToLineRecord(tokens), nil
}

func (t *Tokenizer) splitWords(segment string) []Token {
	words := strings.Fields(segment)
	tokens := make([]Token, 0, len(words))
	for _, w := range words {
		tokens = append(tokens, t.classify(w))
	}
	return tokens
}

// classify applies numeric sniffing before the prefix check, so "-5" is a value.
func (t *Tokenizer) classify(word string) Token {
	if isNumeric(word) || !strings.HasPrefix(word, t.prefix) {
		return Token{Kind: Value, Text: word}
	}
	return Token{Kind: Marker, Text: strings.TrimPrefix(word, t.prefix)}
}

// isNumeric accepts anything strconv can read as a float, out of range
// included, as long as it spells at least one digit. "-inf" and "-nan" stay markers.
func isNumeric(word string) bool {
	if !strings.ContainsAny(word, "0123456789") {
		return false
	}
	_, err := strconv.ParseFloat(word, 64)
	return err == nil || errors.Is(err, strconv.ErrRange)
}
