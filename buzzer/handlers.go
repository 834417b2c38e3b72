/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package buzzer

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"
	"unicode"
)

const (
	internalError = "Internal server error"

	// Largest integer a browser client can represent exactly.
	maxSafeInteger = 1<<53 - 1
)

func (c *Coordinator) handle(conn string, sess *Session, a Action) {
	if sess == nil {
		sess = &Session{}
	}

	defer func() {
		if r := recover(); r != nil {
			c.log.Error().
				Str("conn", conn).
				Str("action", a.Name()).
				Interface("panic", r).
				Msg("action aborted")
			c.toConn(conn, ErrorMessage(internalError))
		}
	}()

	c.report(conn, a, c.route(conn, sess, a))
}

func (c *Coordinator) report(conn string, a Action, err error) {
	if err == nil {
		return
	}

	var rej *Rejection
	switch {
	case errors.Is(err, ErrStaleRoom):
		c.log.Debug().Str("conn", conn).Str("action", a.Name()).Msg("ignoring action for closed room")
	case errors.As(err, &rej):
		c.log.Debug().
			Str("conn", conn).
			Str("action", a.Name()).
			Stringer("kind", rej.Kind).
			Msg(rej.Message)
		c.toConn(conn, ErrorMessage(rej.Message))
	default:
		c.log.Error().Err(err).Str("conn", conn).Str("action", a.Name()).Msg("action failed")
		c.toConn(conn, ErrorMessage(internalError))
	}
}

func (c *Coordinator) route(conn string, sess *Session, a Action) error {
	switch a := a.(type) {
	case CreateRoom:
		return c.createRoom(conn, sess, a)
	case JoinRoom:
		return c.joinRoom(conn, sess, a)
	case PressBuzzer:
		return c.pressBuzzer(conn, a)
	case ReleaseBuzzers:
		return c.setBuzzers(conn, a.RoomCode, true)
	case LockBuzzers:
		return c.setBuzzers(conn, a.RoomCode, false)
	case UpdateNote:
		return c.updateNote(conn, a)
	case UpdateGamemasterNote:
		return c.updateGamemasterNote(conn, a)
	case UpdatePoints:
		return c.updatePoints(conn, a)
	case StartTimer:
		return c.startTimer(conn, a)
	case ResetTimer:
		return c.resetTimer(conn, a)
	case GenerateNumber:
		return c.generateNumber(conn, a)
	case LockPlayerAnswer:
		return c.lockPlayerAnswer(conn, a)
	case LockAllAnswers:
		return c.lockAllAnswers(conn, a)
	case UnlockAllAnswers:
		return c.unlockAllAnswers(conn, a)
	case Disconnect:
		return c.disconnect(conn, sess)
	}
	return fmt.Errorf("unhandled action %T", a)
}

func (c *Coordinator) roomFor(code string) (*Room, error) {
	room, ok := c.rooms.Get(code)
	if !ok {
		return nil, ErrStaleRoom
	}
	return room, nil
}

// hostRoom resolves code and checks that conn is its host.
func (c *Coordinator) hostRoom(conn, code, what string) (*Room, error) {
	room, err := c.roomFor(code)
	if err != nil {
		return nil, err
	}
	if !IsHost(conn, room) {
		return nil, unauthorized("only the gamemaster can " + what)
	}
	return room, nil
}

// playerRoom resolves code and checks that conn is one of its players.
func (c *Coordinator) playerRoom(conn, code, what string) (*Room, error) {
	room, err := c.roomFor(code)
	if err != nil {
		return nil, err
	}
	if !IsPlayer(conn, room) {
		return nil, unauthorized("only players can " + what)
	}
	return room, nil
}

// inRoom reports whether the session points at a live room conn is part of.
func (c *Coordinator) inRoom(conn string, sess *Session) bool {
	if sess.RoomCode == "" {
		return false
	}
	room, ok := c.rooms.Get(sess.RoomCode)
	return ok && room.Connected(conn)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, code))
}

func (c *Coordinator) createRoom(conn string, sess *Session, a CreateRoom) error {
	if strings.TrimSpace(a.PlayerName) == "" {
		return invalid("Invalid player name")
	}
	if c.inRoom(conn, sess) {
		return invalid("Already in a room")
	}

	room, err := c.rooms.Create(conn)
	if err != nil {
		return err
	}
	sess.RoomCode = room.Code
	c.scheduleIdleCheck(room.Code)

	c.toConn(conn, Message{Type: MsgRoomCreated, Data: RoomCodeData{RoomCode: room.Code}})
	return nil
}

func (c *Coordinator) joinRoom(conn string, sess *Session, a JoinRoom) error {
	code := normalizeCode(a.RoomCode)
	if code == "" {
		return invalid("Invalid room code")
	}
	if c.inRoom(conn, sess) {
		return invalid("Already in a room")
	}

	room, ok := c.rooms.Get(code)
	if !ok {
		return invalid("Room does not exist")
	}
	if len(room.Players) >= c.opts.MaxPlayers {
		return invalid(fmt.Sprintf("Room is full (max %d players)", c.opts.MaxPlayers))
	}

	name := strings.TrimSpace(a.PlayerName)
	if name == "" {
		name = c.opts.Names.Random()
	}
	points, _ := c.ledger.Lookup(code, a.DeviceID)

	room.addPlayer(&Player{
		ID:       conn,
		Name:     name,
		Points:   points,
		AvatarID: string(a.AvatarID),
		DeviceID: a.DeviceID,
	})
	sess.RoomCode = code

	c.toConn(conn, Message{Type: MsgJoinSuccess, Data: RoomCodeData{RoomCode: code}})
	c.sendRoster(room)
	c.toConn(conn, Message{Type: MsgGamemasterNoteUpdate, Data: TextData{Text: room.GamemasterNote}})
	c.sendNotes(room)

	c.log.Info().Str("room", code).Str("conn", conn).Str("name", name).Msg("player joined")
	return nil
}

// pressBuzzer only registers the first press while the buzzer is armed.
func (c *Coordinator) pressBuzzer(conn string, a PressBuzzer) error {
	room, err := c.playerRoom(conn, a.RoomCode, "press the buzzer")
	if err != nil {
		return err
	}
	if !room.BuzzerActive {
		return nil
	}

	room.BuzzerActive = false
	c.toRoom(room, Message{Type: MsgBuzzerPressed, Data: BuzzerPressedData{
		PlayerID:   conn,
		PlayerName: room.Players[conn].Name,
	}})
	return nil
}

func (c *Coordinator) setBuzzers(conn, code string, active bool) error {
	what, msg := "lock buzzers", MsgBuzzersLocked
	if active {
		what, msg = "release buzzers", MsgBuzzersReleased
	}

	room, err := c.hostRoom(conn, code, what)
	if err != nil {
		return err
	}

	room.BuzzerActive = active
	c.toRoom(room, Message{Type: msg})
	return nil
}

func (c *Coordinator) updateNote(conn string, a UpdateNote) error {
	room, err := c.playerRoom(conn, a.RoomCode, "update notes")
	if err != nil {
		return err
	}

	note, ok := room.Notes[conn]
	if !ok {
		note = &Note{PlayerName: room.Players[conn].Name}
		room.Notes[conn] = note
	}
	if note.Locked {
		return invalid("Your answer is locked")
	}

	note.Text = a.Text
	c.sendNotes(room)
	return nil
}

func (c *Coordinator) updateGamemasterNote(conn string, a UpdateGamemasterNote) error {
	room, err := c.hostRoom(conn, a.RoomCode, "update gamemaster notes")
	if err != nil {
		return err
	}

	room.GamemasterNote = a.Text
	c.toRoom(room, Message{Type: MsgGamemasterNoteUpdate, Data: TextData{Text: a.Text}})
	return nil
}

func (c *Coordinator) lockPlayerAnswer(conn string, a LockPlayerAnswer) error {
	room, err := c.playerRoom(conn, a.RoomCode, "lock their answers")
	if err != nil {
		return err
	}

	room.lockAnswer(conn)
	c.toRoom(room, Message{Type: MsgPlayerAnswerLocked, Data: PlayerIDData{PlayerID: conn}})
	c.sendNotes(room)
	return nil
}

func (c *Coordinator) lockAllAnswers(conn string, a LockAllAnswers) error {
	room, err := c.hostRoom(conn, a.RoomCode, "lock all answers")
	if err != nil {
		return err
	}

	room.lockAllAnswers()
	c.toRoom(room, Message{Type: MsgAllAnswersLocked})
	c.sendNotes(room)
	return nil
}

func (c *Coordinator) unlockAllAnswers(conn string, a UnlockAllAnswers) error {
	room, err := c.hostRoom(conn, a.RoomCode, "unlock answers")
	if err != nil {
		return err
	}

	room.unlockAllAnswers()
	c.toRoom(room, Message{Type: MsgAllAnswersUnlocked})
	c.sendNotes(room)
	return nil
}

// updatePoints applies a signed delta; totals may go negative but stay
// within what a browser client can represent exactly.
func (c *Coordinator) updatePoints(conn string, a UpdatePoints) error {
	room, err := c.hostRoom(conn, a.RoomCode, "update points")
	if err != nil {
		return err
	}

	player, ok := room.Players[a.PlayerID]
	if !ok {
		return invalid("Player not found")
	}

	delta := int64(a.Points)
	if delta < -maxSafeInteger || delta > maxSafeInteger {
		return invalid("Invalid points value")
	}
	total := int64(player.Points) + delta
	if total < -maxSafeInteger || total > maxSafeInteger {
		return invalid("Invalid points value")
	}

	player.Points = int(total)
	c.ledger.Record(room.Code, player.DeviceID, player.Points)
	c.sendRoster(room)
	return nil
}

func (c *Coordinator) startTimer(conn string, a StartTimer) error {
	room, err := c.hostRoom(conn, a.RoomCode, "start the timer")
	if err != nil {
		return err
	}
	if a.Duration <= 0 {
		return invalid("Invalid timer duration")
	}

	room.Timer.Duration = a.Duration
	room.Timer.Active = true
	room.Timer.Generation++
	if c.opts.AuthoritativeTimer {
		c.scheduleCountdown(room.Code, time.Duration(a.Duration)*time.Second, room.Timer.Generation)
	}

	c.toRoom(room, Message{Type: MsgTimerStarted, Data: TimerData{Duration: a.Duration}})
	return nil
}

func (c *Coordinator) resetTimer(conn string, a ResetTimer) error {
	room, err := c.hostRoom(conn, a.RoomCode, "reset the timer")
	if err != nil {
		return err
	}

	room.Timer.Active = false
	room.Timer.Generation++
	c.cancelCountdown(room.Code)

	c.toRoom(room, Message{Type: MsgTimerReset})
	return nil
}

// expireTimer ends an authoritative countdown by locking every answer.
func (c *Coordinator) expireTimer(exp timerExpiry) {
	room, ok := c.rooms.Get(exp.code)
	if !ok || !room.Timer.Active || room.Timer.Generation != exp.generation {
		return
	}
	delete(c.countdowns, exp.code)

	room.Timer.Active = false
	room.lockAllAnswers()
	c.toRoom(room, Message{Type: MsgAllAnswersLocked})
	c.sendNotes(room)

	c.log.Debug().Str("room", exp.code).Msg("timer expired, answers locked")
}

func (c *Coordinator) generateNumber(conn string, a GenerateNumber) error {
	room, err := c.hostRoom(conn, a.RoomCode, "generate numbers")
	if err != nil {
		return err
	}

	lo, hi := math.Ceil(a.Min), math.Floor(a.Max)
	if math.IsNaN(lo) || math.IsNaN(hi) || lo < -maxSafeInteger || hi > maxSafeInteger || lo > hi {
		return invalid("Invalid number range")
	}

	n := randomInRange(int64(lo), int64(hi))
	c.toRoom(room, Message{Type: MsgNumberGenerated, Data: NumberData{Number: n}})
	return nil
}

// randomInRange draws uniformly from [lo, hi].
func randomInRange(lo, hi int64) int64 {
	return lo + rand.Int64N(hi-lo+1)
}

// disconnect drops conn from its room. A departing host, or the last
// connection leaving, closes the room.
func (c *Coordinator) disconnect(conn string, sess *Session) error {
	code := sess.RoomCode
	if code == "" {
		return nil
	}
	sess.RoomCode = ""

	room, ok := c.rooms.Get(code)
	if !ok || !room.Connected(conn) {
		return nil
	}

	wasHost := IsHost(conn, room)
	wasPlayer := IsPlayer(conn, room)
	room.removeConnection(conn)

	if wasPlayer {
		c.sendRoster(room)
		c.sendNotes(room)
		c.log.Info().Str("room", code).Str("conn", conn).Msg("player left")
	}

	if wasHost {
		c.log.Info().Str("room", code).Msg("host left")
		c.destroy(code)
		return nil
	}

	if room.ConnectionCount() == 0 {
		c.destroy(code)
	}
	return nil
}
