/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package buzzer

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const codeAttempts = 10

// Registry owns every live Room. It is not safe for concurrent use; the
// Coordinator serialises all access.
type Registry struct {
	rooms     map[string]*Room
	ledger    *Ledger
	transport Transport
	log       zerolog.Logger

	now      func() time.Time
	generate func() (string, error)
}

func NewRegistry(transport Transport, ledger *Ledger, logger zerolog.Logger) *Registry {
	return &Registry{
		rooms:     make(map[string]*Room),
		ledger:    ledger,
		transport: transport,
		log:       logger,
		now:       time.Now,
		generate:  GenerateCode,
	}
}

// Create opens a room hosted by the given connection.
func (reg *Registry) Create(host string) (*Room, error) {
	for range codeAttempts {
		code, err := reg.generate()
		if err != nil {
			return nil, fmt.Errorf("generating room code: %w", err)
		}
		if _, exists := reg.rooms[code]; exists {
			continue
		}

		room := newRoom(code, host, reg.now())
		reg.rooms[code] = room
		reg.log.Info().Str("room", code).Str("host", host).Msg("room created")
		return room, nil
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrCodeSpace, codeAttempts)
}

func (reg *Registry) Get(code string) (*Room, bool) {
	room, ok := reg.rooms[code]
	return room, ok
}

// Destroy closes the room, notifying every connection still in it. It
// reports whether a room was removed.
func (reg *Registry) Destroy(code string) bool {
	room, ok := reg.rooms[code]
	if !ok {
		return false
	}

	for _, conn := range room.Connections() {
		reg.transport.Send(conn, Message{Type: MsgRoomClosed})
	}

	if n := reg.ledger.Len(code); n > 0 {
		reg.log.Debug().Str("room", code).Int("entries", n).Msg("points cache cleared")
	}
	reg.ledger.Forget(code)
	delete(reg.rooms, code)

	reg.log.Info().Str("room", code).Msg("room destroyed")
	return true
}

func (reg *Registry) Codes() []string {
	codes := make([]string, 0, len(reg.rooms))
	for code := range reg.rooms {
		codes = append(codes, code)
	}
	return codes
}

func (reg *Registry) Len() int {
	return len(reg.rooms)
}
