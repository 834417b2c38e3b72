/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package buzzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedger(t *testing.T) {
	l := NewLedger()

	_, ok := l.Lookup("ROOM22", "d1")
	assert.False(t, ok)

	l.Record("ROOM22", "d1", 50)
	l.Record("ROOM22", "d1", -5)
	l.Record("ROOM22", "", 99)
	l.Record("OTHER2", "d1", 7)

	pts, ok := l.Lookup("ROOM22", "d1")
	assert.True(t, ok)
	assert.Equal(t, -5, pts)

	_, ok = l.Lookup("ROOM22", "")
	assert.False(t, ok)
	assert.Equal(t, 1, l.Len("ROOM22"))

	l.Forget("ROOM22")
	_, ok = l.Lookup("ROOM22", "d1")
	assert.False(t, ok)

	pts, _ = l.Lookup("OTHER2", "d1")
	assert.Equal(t, 7, pts, "other rooms are untouched")
}
