/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package buzzer

import (
	"encoding/json"
	"fmt"
)

// Action is an inbound request from a connection. The set is closed: only
// the types in this file implement it.
type Action interface {
	Name() string
	sealed()
}

// AvatarID is an opaque avatar selector. Clients send it either as a string
// or as a number; both decode to the same text.
type AvatarID string

func (a *AvatarID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = AvatarID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("avatarId must be a string or a number: %w", err)
	}
	*a = AvatarID(n.String())
	return nil
}

type CreateRoom struct {
	PlayerName string `json:"playerName"`
	AvatarID   AvatarID `json:"avatarId"`
	DeviceID   string `json:"deviceId"`
}

type JoinRoom struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
	AvatarID   AvatarID `json:"avatarId"`
	DeviceID   string `json:"deviceId"`
}

type PressBuzzer struct {
	RoomCode string `json:"roomCode"`
}

type ReleaseBuzzers struct {
	RoomCode string `json:"roomCode"`
}

type LockBuzzers struct {
	RoomCode string `json:"roomCode"`
}

type UpdateNote struct {
	RoomCode string `json:"roomCode"`
	Text     string `json:"text"`
}

type UpdateGamemasterNote struct {
	RoomCode string `json:"roomCode"`
	Text     string `json:"text"`
}

type UpdatePoints struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
	Points   int    `json:"points"`
}

type StartTimer struct {
	RoomCode string `json:"roomCode"`
	Duration int    `json:"duration"`
}

type ResetTimer struct {
	RoomCode string `json:"roomCode"`
}

type GenerateNumber struct {
	RoomCode string  `json:"roomCode"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

type LockPlayerAnswer struct {
	RoomCode string `json:"roomCode"`
}

type LockAllAnswers struct {
	RoomCode string `json:"roomCode"`
}

type UnlockAllAnswers struct {
	RoomCode string `json:"roomCode"`
}

// Disconnect is produced by the transport when a connection goes away.
type Disconnect struct{}

func (CreateRoom) Name() string           { return "create-room" }
func (JoinRoom) Name() string             { return "join-room" }
func (PressBuzzer) Name() string          { return "press-buzzer" }
func (ReleaseBuzzers) Name() string       { return "release-buzzers" }
func (LockBuzzers) Name() string          { return "lock-buzzers" }
func (UpdateNote) Name() string           { return "update-note" }
func (UpdateGamemasterNote) Name() string { return "update-gamemaster-note" }
func (UpdatePoints) Name() string         { return "update-points" }
func (StartTimer) Name() string           { return "start-timer" }
func (ResetTimer) Name() string           { return "reset-timer" }
func (GenerateNumber) Name() string       { return "generate-number" }
func (LockPlayerAnswer) Name() string     { return "lock-player-answer" }
func (LockAllAnswers) Name() string       { return "lock-all-answers" }
func (UnlockAllAnswers) Name() string     { return "unlock-all-answers" }
func (Disconnect) Name() string           { return "disconnect" }

func (CreateRoom) sealed()           {}
func (JoinRoom) sealed()             {}
func (PressBuzzer) sealed()          {}
func (ReleaseBuzzers) sealed()       {}
func (LockBuzzers) sealed()          {}
func (UpdateNote) sealed()           {}
func (UpdateGamemasterNote) sealed() {}
func (UpdatePoints) sealed()         {}
func (StartTimer) sealed()           {}
func (ResetTimer) sealed()           {}
func (GenerateNumber) sealed()       {}
func (LockPlayerAnswer) sealed()     {}
func (LockAllAnswers) sealed()       {}
func (UnlockAllAnswers) sealed()     {}
func (Disconnect) sealed()           {}

var decoders = map[string]func([]byte) (Action, error){
	"create-room":            decodeAs[CreateRoom],
	"join-room":              decodeAs[JoinRoom],
	"press-buzzer":           decodeAs[PressBuzzer],
	"release-buzzers":        decodeAs[ReleaseBuzzers],
	"lock-buzzers":           decodeAs[LockBuzzers],
	"update-note":            decodeAs[UpdateNote],
	"update-gamemaster-note": decodeAs[UpdateGamemasterNote],
	"update-points":          decodeAs[UpdatePoints],
	"start-timer":            decodeAs[StartTimer],
	"reset-timer":            decodeAs[ResetTimer],
	"generate-number":        decodeAs[GenerateNumber],
	"lock-player-answer":     decodeAs[LockPlayerAnswer],
	"lock-all-answers":       decodeAs[LockAllAnswers],
	"unlock-all-answers":     decodeAs[UnlockAllAnswers],
}

func decodeAs[T Action](data []byte) (Action, error) {
	var a T
	err := json.Unmarshal(data, &a)
	return a, err
}

// DecodeAction parses a client frame of the form {"type": "...", ...}.
func DecodeAction(data []byte) (Action, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	decode, ok := decoders[envelope.Type]
	if !ok {
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformed, envelope.Type)
	}

	a, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, envelope.Type, err)
	}

	return a, nil
}
