package trace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keyrate/internal/clock"
	"github.com/verte-zerg/keyrate/internal/model"
)

func TestObserveRecordsTrailingChar(t *testing.T) {
	fc := clock.NewFake(time.UnixMilli(1000))
	r := NewRecorder(fc)

	r.Observe("a")
	fc.Advance(150 * time.Millisecond)
	r.Observe("ab")
	fc.Advance(100 * time.Millisecond)
	r.Observe("a")

	assert.Equal(t, []model.TraceEntry{
		{Char: "a", TimeMs: 1000},
		{Char: "b", TimeMs: 1150},
		{Char: "a", TimeMs: 1250},
	}, r.Entries())
}

func TestObserveSkipsRepeatedSpace(t *testing.T) {
	r := NewRecorder(clock.NewFake(time.Unix(0, 0)))
	r.Observe("a")
	r.Observe("a ")
	r.Observe("a ")
	r.Observe("a b")
	r.Observe("a b ")

	chars := make([]string, 0, r.Len())
	for _, e := range r.Entries() {
		chars = append(chars, e.Char)
	}
	assert.Equal(t, []string{"a", " ", "b", " "}, chars)
}

func TestObserveEmptyBufferAndMultibyte(t *testing.T) {
	r := NewRecorder(clock.NewFake(time.Unix(0, 0)))
	r.Observe("né")
	r.Observe("")
	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "é", entries[0].Char)
	assert.Equal(t, "", entries[1].Char)
}

func TestFinishAndReset(t *testing.T) {
	fc := clock.NewFake(time.UnixMilli(5))
	r := NewRecorder(fc)
	r.Observe("x")
	r.Finish()
	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.True(t, entries[1].IsEnd())
	assert.Equal(t, int64(5), entries[1].TimeMs)

	r.Reset()
	assert.Zero(t, r.Len())
	assert.Empty(t, r.Entries())
}

func TestEntriesReturnsCopy(t *testing.T) {
	r := NewRecorder(clock.NewFake(time.Unix(0, 0)))
	r.Observe("a")
	entries := r.Entries()
	entries[0].Char = "z"
	assert.Equal(t, "a", r.Entries()[0].Char)
}
