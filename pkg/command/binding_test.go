package command

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinding_SetAndRead(t *testing.T) {
	tail := Named("t", "tail", "last n", false, WithConverter(ToInt))
	first := Free[string]("first", false)
	second := Free[string]("second", false)
	b := NewBinding([]Argument{tail, first, second})

	assert.NotEqual(t, uuid.Nil, b.ID())
	assert.Equal(t, 0, b.Len())

	require.NoError(t, b.Set(tail, "5"))
	require.NoError(t, b.Set(second, "two"))

	v, ok := b.Get("tail")
	assert.True(t, ok)
	assert.Equal(t, 5, v)
	assert.Equal(t, "5", b.String("t"))
	assert.Equal(t, "", b.String("missing"))
	assert.True(t, b.Filled("t"))
	assert.False(t, b.Filled("missing"))

	_, ok = b.Free(0)
	assert.False(t, ok)
	v, ok = b.Free(1)
	assert.True(t, ok)
	assert.Equal(t, "two", v)
	_, ok = b.Free(2)
	assert.False(t, ok)

	assert.Equal(t, 2, b.Len())
}

func TestBinding_SetRejectsBadValue(t *testing.T) {
	tail := Named("t", "tail", "last n", false, WithConverter(ToInt))
	b := NewBinding([]Argument{tail})

	err := b.Set(tail, "x")

	assert.IsType(t, &ConversionError{}, err)
	assert.False(t, b.IsFilled(tail))
}

func TestBinding_ClearIsIdempotent(t *testing.T) {
	word := Free[string]("word", true)
	b := NewBinding([]Argument{word})
	require.NoError(t, b.Set(word, "w"))

	b.Clear()
	afterOne := b.Len()
	b.Clear()
	b.Clear()

	assert.Equal(t, 0, afterOne)
	assert.Equal(t, afterOne, b.Len())
	assert.False(t, b.IsFilled(word))

	fresh := NewBinding([]Argument{word})
	fresh.Clear()
	assert.Equal(t, 0, fresh.Len())
}

func TestBinding_DistinctIDs(t *testing.T) {
	assert.NotEqual(t, NewBinding(nil).ID(), NewBinding(nil).ID())
}
