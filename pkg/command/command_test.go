package command

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clish/internal/testutils"
	"clish/pkg/parser"
)

func parse(t *testing.T, line string) *parser.LineRecord {
	t.Helper()
	rec, err := parser.NewTokenizer().Parse(line)
	require.NoError(t, err)
	return rec
}

func TestCommand_New(t *testing.T) {
	seq := New("echo", "Print words", nil)
	assert.Equal(t, "echo", seq.Name())
	assert.Equal(t, "Print words", seq.Description())
	assert.False(t, seq.IsConcurrent())
	assert.Equal(t, "echo", seq.String())

	bg := New("sleep", "Wait", nil, Concurrent())
	assert.True(t, bg.IsConcurrent())
}

func TestCommand_AddArgument(t *testing.T) {
	cmd := New("history", "Show history", nil)

	require.NoError(t, cmd.AddArgument(Named("t", "tail", "last n", false, WithConverter(ToInt))))
	require.NoError(t, cmd.AddArgument(Named[string]("c", "clear", "clear history", false)))
	require.NoError(t, cmd.AddArgument(Free[string]("first", false)))
	require.NoError(t, cmd.AddArgument(Free[string]("second", false)))

	t.Run("duplicate named identity", func(t *testing.T) {
		err := cmd.AddArgument(Named("t", "tail", "another description", true, WithConverter(ToInt)))

		var dup *DuplicateArgumentError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, "history", dup.Command)
		assert.Contains(t, err.Error(), `"tail(t)"`)
	})

	t.Run("duplicate free description", func(t *testing.T) {
		err := cmd.AddArgument(Free[string]("first", true))
		assert.IsType(t, &DuplicateArgumentError{}, err)
	})

	t.Run("non-string without converter", func(t *testing.T) {
		err := cmd.AddArgument(Named[int]("n", "number", "a number", false))
		assert.ErrorIs(t, err, ErrNoConverter)
	})

	assert.Len(t, cmd.Arguments(), 4)
	assert.Len(t, cmd.FreeArguments(), 2)
	assert.NotNil(t, cmd.Argument("t"))
	assert.NotNil(t, cmd.Argument("clear"))
	assert.Nil(t, cmd.Argument("first"))

	minCount, maxCount := cmd.Arity()
	assert.Equal(t, 0, minCount)
	assert.Equal(t, 2, maxCount)
}

func TestCommand_Invoke_FreeRoundTrip(t *testing.T) {
	first := Free[string]("first", true)
	second := Free[string]("second", true)

	var (
		seen    []string
		binding *Binding
	)
	cmd := New("pair", "Two values", HandlerFunc(func(_ Session, _ *Command, b *Binding) error {
		binding = b
		v1, ok1 := first.From(b)
		v2, ok2 := second.From(b)
		require.True(t, ok1)
		require.True(t, ok2)
		seen = []string{v1, v2}
		return nil
	}))
	require.NoError(t, cmd.AddArgument(first))
	require.NoError(t, cmd.AddArgument(second))

	err := cmd.Invoke(parse(t, "pair v1 v2"), testutils.NewMockSession())

	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2"}, seen)
	assert.False(t, binding.IsFilled(first))
	assert.False(t, binding.IsFilled(second))
	assert.Equal(t, 0, binding.Len())
}

func TestCommand_Invoke_ClearsAfterHandlerFailure(t *testing.T) {
	word := Free[string]("word", true)

	var binding *Binding
	cmd := New("fail", "Always fails", HandlerFunc(func(_ Session, _ *Command, b *Binding) error {
		binding = b
		assert.True(t, b.IsFilled(word))
		return errors.New("boom")
	}))
	require.NoError(t, cmd.AddArgument(word))

	err := cmd.Invoke(parse(t, "fail x"), testutils.NewMockSession())

	var herr *HandlerError
	require.True(t, errors.As(err, &herr))
	assert.EqualError(t, herr.Err, "boom")
	assert.Equal(t, `command "fail" failed: boom`, err.Error())
	assert.False(t, binding.IsFilled(word))
}

func TestCommand_InvokeWith_UsesCallerBinding(t *testing.T) {
	count := Named[int]("n", "count", "how many", true, WithConverter(ToInt))

	var seen *Binding
	cmd := New("repeat", "Repeats", HandlerFunc(func(_ Session, _ *Command, b *Binding) error {
		seen = b
		n, ok := count.From(b)
		assert.True(t, ok)
		assert.Equal(t, 3, n)
		return nil
	}))
	require.NoError(t, cmd.AddArgument(count))

	b := NewBinding(cmd.Arguments())
	require.NoError(t, cmd.InvokeWith(parse(t, "repeat -count 3"), testutils.NewMockSession(), b))

	assert.Same(t, b, seen)
	assert.Equal(t, 0, b.Len())
}

func TestCommand_Invoke_RecoversPanic(t *testing.T) {
	cmd := New("explode", "Panics", HandlerFunc(func(_ Session, _ *Command, _ *Binding) error {
		panic("kaboom")
	}))

	err := cmd.Invoke(parse(t, "explode"), testutils.NewMockSession())

	var herr *HandlerError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, "kaboom", herr.Panic)
	assert.Contains(t, err.Error(), "panicked: kaboom")
}

func TestCommand_Invoke_RecoversBindingPanic(t *testing.T) {
	var lookup map[string]int
	tests := []struct {
		name string
		arg  *Arg[int]
	}{
		{"converter", Free[int]("n", true, WithConverter(func(raw string) (int, error) {
			lookup[raw] = 1
			return 1, nil
		}))},
		{"validator", Free[int]("n", true, WithConverter(ToInt), WithValidator(func(int) error {
			panic("validator broke")
		}))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			cmd := New("conv", "Converts", HandlerFunc(func(_ Session, _ *Command, _ *Binding) error {
				called = true
				return nil
			}))
			require.NoError(t, cmd.AddArgument(tt.arg))

			b := NewBinding(cmd.Arguments())
			err := cmd.InvokeWith(parse(t, "conv 1"), testutils.NewMockSession(), b)

			var herr *HandlerError
			require.ErrorAs(t, err, &herr)
			assert.NotNil(t, herr.Panic)
			assert.False(t, called)
			assert.Equal(t, 0, b.Len())
		})
	}
}

func TestCommand_Invoke_ValidationPhases(t *testing.T) {
	newCmd := func(called *bool) *Command {
		cmd := New("greet", "Greets", HandlerFunc(func(_ Session, _ *Command, _ *Binding) error {
			*called = true
			return nil
		}))
		require.NoError(t, cmd.AddArgument(Named[string]("n", "name", "who", true)))
		require.NoError(t, cmd.AddArgument(Named("t", "times", "repeat", false,
			WithConverter(ToInt), WithValidator(NonNegative))))
		require.NoError(t, cmd.AddArgument(Free[string]("greeting", true)))
		require.NoError(t, cmd.AddArgument(Free[string]("suffix", false)))
		return cmd
	}

	tests := []struct {
		name    string
		line    string
		errType any
		errMsg  string
	}{
		{
			name:    "too few free values",
			line:    "greet -n bob",
			errType: &ArityError{},
			errMsg:  `unsupported arguments amount for "greet": got 0, expected 1 to 2`,
		},
		{
			name:    "too many free values",
			line:    "greet -n bob a b c",
			errType: &ArityError{},
		},
		{
			name:    "required named missing",
			line:    "greet hello",
			errType: &MissingArgumentError{},
			errMsg:  `required argument "name(n)" of "greet" not found`,
		},
		{
			name:    "unknown key",
			line:    "greet hello -n bob -loud",
			errType: &UnknownArgumentError{},
			errMsg:  `unexpected argument "loud" for "greet"`,
		},
		{
			name:    "conversion failure",
			line:    "greet hello -n bob -t abc",
			errType: &ConversionError{},
			errMsg:  `value "abc" of "times(t)" did not convert: integer value expected`,
		},
		{
			name:    "validation failure",
			line:    "greet hello -n bob -times -2",
			errType: &ValidationError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			err := newCmd(&called).Invoke(parse(t, tt.line), testutils.NewMockSession())

			require.Error(t, err)
			assert.IsType(t, tt.errType, err)
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, err.Error())
			}
			assert.False(t, called, "handler must not run when validation fails")
		})
	}

	t.Run("valid line reaches handler", func(t *testing.T) {
		called := false
		err := newCmd(&called).Invoke(parse(t, "greet hello -name bob -t 2 !"), testutils.NewMockSession())
		require.NoError(t, err)
		assert.True(t, called)
	})
}

func TestCommand_Invoke_ArityBounds(t *testing.T) {
	cmd := New("sum", "Adds", nil)
	require.NoError(t, cmd.AddArgument(Free("a", true, WithConverter(ToInt))))
	require.NoError(t, cmd.AddArgument(Free("b", true, WithConverter(ToInt))))
	require.NoError(t, cmd.AddArgument(Free("c", false, WithConverter(ToInt))))

	for count := 0; count <= 5; count++ {
		rec := parser.NewLineRecord("sum")
		for i := 0; i < count; i++ {
			rec.AddFree("1")
		}
		err := cmd.Invoke(rec, testutils.NewMockSession())
		if count < 2 || count > 3 {
			assert.IsType(t, &ArityError{}, err, "count %d", count)
		} else {
			assert.NoError(t, err, "count %d", count)
		}
	}
}

func TestCommand_Invoke_ConversionNeverCallsHandler(t *testing.T) {
	called := false
	n := Free("n", true, WithConverter(ToInt))
	cmd := New("double", "Doubles", HandlerFunc(func(_ Session, _ *Command, _ *Binding) error {
		called = true
		return nil
	}))
	require.NoError(t, cmd.AddArgument(n))

	err := cmd.Invoke(parse(t, `double "abc"`), testutils.NewMockSession())

	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, "abc", convErr.Raw)
	assert.False(t, called)
}

func TestCommand_Invoke_NamedByEitherKey(t *testing.T) {
	tail := Named("t", "tail", "last n", false, WithConverter(ToInt))
	clearFlag := Named("c", "clear", "clear", false, WithValidator(EmptyValue))

	var got []any
	cmd := New("history", "History", HandlerFunc(func(s Session, _ *Command, b *Binding) error {
		n, ok := tail.From(b)
		got = append(got, n, ok, b.Filled("clear"), b.Filled("c"))
		s.Printf("tail=%s\n", b.String("tail"))
		return nil
	}))
	require.NoError(t, cmd.AddArgument(tail))
	require.NoError(t, cmd.AddArgument(clearFlag))

	sess := testutils.NewMockSession()
	require.NoError(t, cmd.Invoke(parse(t, "history -tail 3 -c"), sess))
	assert.Equal(t, []any{3, true, true, true}, got)
	assert.Equal(t, "tail=3\n", sess.String())

	err := cmd.Invoke(parse(t, "history -c now"), sess)
	assert.IsType(t, &ValidationError{}, err)
}

func TestCommand_ConcurrentInvocationsDoNotShareState(t *testing.T) {
	word := Free[string]("word", true)

	var (
		mu   sync.Mutex
		seen = map[string]string{}
	)
	start := make(chan struct{})
	cmd := New("tag", "Records its argument", HandlerFunc(func(_ Session, _ *Command, b *Binding) error {
		<-start
		v, _ := word.From(b)
		mu.Lock()
		seen[b.ID().String()] = v
		mu.Unlock()
		return nil
	}), Concurrent())
	require.NoError(t, cmd.AddArgument(word))

	var wg sync.WaitGroup
	values := []string{"alpha", "beta", "gamma", "delta"}
	for _, v := range values {
		rec := parse(t, "tag "+v)
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, cmd.Invoke(rec, testutils.NewMockSession()))
		}()
	}
	close(start)
	wg.Wait()

	var collected []string
	for _, v := range seen {
		collected = append(collected, v)
	}
	assert.ElementsMatch(t, values, collected)
}

func TestCommand_Usage(t *testing.T) {
	cmd := New("history", "Show history", nil)
	require.NoError(t, cmd.AddArgument(Named("t", "tail", "last n", false, WithConverter(ToInt))))
	require.NoError(t, cmd.AddArgument(Named[string]("", "name", "label", true)))
	require.NoError(t, cmd.AddArgument(Free[string]("file", true)))
	require.NoError(t, cmd.AddArgument(Free[string]("mode", false)))

	assert.Equal(t, "history <file> [mode] [-t|-tail <int>] -name <string>", cmd.Usage("-"))
}
