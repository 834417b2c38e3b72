/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package buzzer

// Outbound message types.
const (
	MsgRoomCreated          = "room-created"
	MsgJoinSuccess          = "join-success"
	MsgRoomError            = "room-error"
	MsgPlayerListUpdate     = "player-list-update"
	MsgNotesUpdate          = "notes-update"
	MsgGamemasterNoteUpdate = "gamemaster-note-update"
	MsgBuzzerPressed        = "buzzer-pressed"
	MsgBuzzersReleased      = "buzzers-released"
	MsgBuzzersLocked        = "buzzers-locked"
	MsgTimerStarted         = "timer-started"
	MsgTimerReset           = "timer-reset"
	MsgNumberGenerated      = "number-generated"
	MsgPlayerAnswerLocked   = "player-answer-locked"
	MsgAllAnswersLocked     = "all-answers-locked"
	MsgAllAnswersUnlocked   = "all-answers-unlocked"
	MsgRoomClosed           = "room-closed"
)

// Message is a single frame sent to a connection.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// ErrorMessage builds the room-error frame sent to a rejected connection.
func ErrorMessage(text string) Message {
	return Message{Type: MsgRoomError, Data: ErrorData{Message: text}}
}

type RoomCodeData struct {
	RoomCode string `json:"roomCode"`
}

type ErrorData struct {
	Message string `json:"message"`
}

type TextData struct {
	Text string `json:"text"`
}

type BuzzerPressedData struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type TimerData struct {
	Duration int `json:"duration"`
}

type NumberData struct {
	Number int64 `json:"number"`
}

type PlayerIDData struct {
	PlayerID string `json:"playerId"`
}

// Transport delivers messages to individual connections. Send must not block.
type Transport interface {
	Send(conn string, msg Message)
}

func (c *Coordinator) toConn(conn string, msg Message) {
	c.transport.Send(conn, msg)
}

func (c *Coordinator) toRoom(r *Room, msg Message) {
	for _, conn := range r.Connections() {
		c.transport.Send(conn, msg)
	}
}

func (c *Coordinator) toHost(r *Room, msg Message) {
	if r.Connected(r.Host) {
		c.transport.Send(r.Host, msg)
	}
}

func (c *Coordinator) sendRoster(r *Room) {
	c.toRoom(r, Message{Type: MsgPlayerListUpdate, Data: r.roster()})
}

func (c *Coordinator) sendNotes(r *Room) {
	c.toHost(r, Message{Type: MsgNotesUpdate, Data: r.notes()})
}
