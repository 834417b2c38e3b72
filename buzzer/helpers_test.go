/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package buzzer

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type sent struct {
	conn string
	msg  Message
}

// recorder is a Transport that keeps every message it is asked to send.
type recorder struct {
	mu      sync.Mutex
	sent    []sent
	panicOn string
}

func (r *recorder) Send(conn string, msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.panicOn != "" && msg.Type == r.panicOn {
		r.panicOn = ""
		panic("transport exploded")
	}
	r.sent = append(r.sent, sent{conn: conn, msg: msg})
}

// to returns messages of type typ delivered to conn.
func (r *recorder) to(conn, typ string) []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Message
	for _, s := range r.sent {
		if s.conn == conn && s.msg.Type == typ {
			out = append(out, s.msg)
		}
	}
	return out
}

func (r *recorder) count(typ string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sent {
		if s.msg.Type == typ {
			n++
		}
	}
	return n
}

func (r *recorder) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}

// livePresence is a recorder that also reports which connections are open.
type livePresence struct {
	recorder
	dead map[string]bool
}

func (p *livePresence) Live(conn string) bool {
	return !p.dead[conn]
}

func newTestCoordinator(t *testing.T, transport Transport, opts ...func(*Options)) *Coordinator {
	t.Helper()
	o := Options{Logger: zerolog.Nop(), Names: NewNamePool("Fallback")}
	for _, fn := range opts {
		fn(&o)
	}
	return New(transport, o)
}

func mustCreate(t *testing.T, c *Coordinator, host string) (string, *Session) {
	t.Helper()
	sess := &Session{}
	c.handle(host, sess, CreateRoom{PlayerName: "Host"})
	require.NotEmpty(t, sess.RoomCode, "create-room did not set a session")
	return sess.RoomCode, sess
}

func mustJoin(t *testing.T, c *Coordinator, conn, code, name, device string) *Session {
	t.Helper()
	sess := &Session{}
	c.handle(conn, sess, JoinRoom{RoomCode: code, PlayerName: name, DeviceID: device})
	require.Equal(t, code, sess.RoomCode, "join-room did not set a session")
	return sess
}

func lastError(t *testing.T, r *recorder, conn string) string {
	t.Helper()
	errs := r.to(conn, MsgRoomError)
	require.NotEmpty(t, errs, "expected a room-error for %s", conn)
	return errs[len(errs)-1].Data.(ErrorData).Message
}

func roster(t *testing.T, msgs []Message) map[string]Player {
	t.Helper()
	require.NotEmpty(t, msgs, "expected a player-list-update")
	return msgs[len(msgs)-1].Data.(map[string]Player)
}

func notesOf(t *testing.T, msgs []Message) map[string]Note {
	t.Helper()
	require.NotEmpty(t, msgs, "expected a notes-update")
	return msgs[len(msgs)-1].Data.(map[string]Note)
}
