/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package buzzer

import (
	"time"
)

// Player is a non-host participant of a room.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Points   int    `json:"points"`
	IsHost   bool   `json:"isHost"`
	AvatarID string `json:"avatarId"`
	DeviceID string `json:"deviceId"`
}

// Note is a player's scratchpad, visible to the host.
type Note struct {
	Text       string `json:"text"`
	PlayerName string `json:"playerName"`
	Locked     bool   `json:"locked"`
}

// Timer holds the last started countdown. Generation increments on every
// start or reset so stale expiries can be told apart.
type Timer struct {
	Duration   int
	Active     bool
	Generation uint64
}

// Room is one game session. Only the Registry holds Room pointers between
// actions.
type Room struct {
	Code           string
	Host           string
	Players        map[string]*Player
	Notes          map[string]*Note
	BuzzerActive   bool
	GamemasterNote string
	CreatedAt      time.Time
	Timer          Timer
	LockedAnswers  map[string]bool

	conns map[string]bool
}

func newRoom(code, host string, now time.Time) *Room {
	return &Room{
		Code:          code,
		Host:          host,
		Players:       make(map[string]*Player),
		Notes:         make(map[string]*Note),
		BuzzerActive:  true,
		CreatedAt:     now,
		LockedAnswers: make(map[string]bool),
		conns:         map[string]bool{host: true},
	}
}

// Connected reports whether conn is part of the room's connection set.
func (r *Room) Connected(conn string) bool {
	return r.conns[conn]
}

// ConnectionCount is the number of live connections in the room.
func (r *Room) ConnectionCount() int {
	return len(r.conns)
}

// Connections returns the room's connection ids in no particular order.
func (r *Room) Connections() []string {
	ids := make([]string, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	return ids
}

func (r *Room) addPlayer(p *Player) {
	r.Players[p.ID] = p
	r.Notes[p.ID] = &Note{PlayerName: p.Name}
	r.conns[p.ID] = true
}

func (r *Room) removeConnection(conn string) {
	delete(r.Players, conn)
	delete(r.Notes, conn)
	delete(r.LockedAnswers, conn)
	delete(r.conns, conn)
}

func (r *Room) lockAnswer(id string) {
	r.LockedAnswers[id] = true
	if n, ok := r.Notes[id]; ok {
		n.Locked = true
	}
}

func (r *Room) lockAllAnswers() {
	for id := range r.Players {
		if id != r.Host {
			r.lockAnswer(id)
		}
	}
}

func (r *Room) unlockAllAnswers() {
	clear(r.LockedAnswers)
	for _, n := range r.Notes {
		n.Locked = false
	}
}

func (r *Room) roster() map[string]Player {
	out := make(map[string]Player, len(r.Players))
	for id, p := range r.Players {
		out[id] = *p
	}
	return out
}

func (r *Room) notes() map[string]Note {
	out := make(map[string]Note, len(r.Notes))
	for id, n := range r.Notes {
		out[id] = *n
	}
	return out
}
