/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package buzzer

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequence(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		code := codes[i%len(codes)]
		i++
		return code, nil
	}
}

func TestRegistry_CreateGetDestroy(t *testing.T) {
	r := &recorder{}
	ledger := NewLedger()
	reg := NewRegistry(r, ledger, zerolog.Nop())

	room, err := reg.Create("host")
	require.NoError(t, err)
	assert.Equal(t, "host", room.Host)
	assert.True(t, room.Connected("host"))
	assert.Equal(t, 1, reg.Len())

	got, ok := reg.Get(room.Code)
	require.True(t, ok)
	assert.Same(t, room, got)

	_, ok = reg.Get("ZZZZZZ")
	assert.False(t, ok)

	ledger.Record(room.Code, "d1", 10)
	assert.True(t, reg.Destroy(room.Code))
	assert.False(t, reg.Destroy(room.Code))

	assert.Equal(t, 1, r.count(MsgRoomClosed))
	assert.Equal(t, 0, ledger.Len(room.Code))
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_CreateSkipsTakenCodes(t *testing.T) {
	reg := NewRegistry(&recorder{}, NewLedger(), zerolog.Nop())
	reg.generate = sequence("AAAAAA", "AAAAAA", "BBBBBB")

	first, err := reg.Create("h1")
	require.NoError(t, err)
	second, err := reg.Create("h2")
	require.NoError(t, err)

	assert.Equal(t, "AAAAAA", first.Code)
	assert.Equal(t, "BBBBBB", second.Code)
	assert.ElementsMatch(t, []string{"AAAAAA", "BBBBBB"}, reg.Codes())
}

func TestRegistry_CodeSpaceExhausted(t *testing.T) {
	reg := NewRegistry(&recorder{}, NewLedger(), zerolog.Nop())
	reg.generate = sequence("AAAAAA")

	_, err := reg.Create("h1")
	require.NoError(t, err)

	_, err = reg.Create("h2")
	assert.ErrorIs(t, err, ErrCodeSpace)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_GeneratorFailure(t *testing.T) {
	boom := errors.New("entropy")
	reg := NewRegistry(&recorder{}, NewLedger(), zerolog.Nop())
	reg.generate = func() (string, error) { return "", boom }

	_, err := reg.Create("h1")
	assert.ErrorIs(t, err, boom)
}
