/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package buzzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		frame string
		want  Action
	}{
		{`{"type":"create-room","playerName":"Host","avatarId":"2","deviceId":"d0"}`, CreateRoom{PlayerName: "Host", AvatarID: "2", DeviceID: "d0"}},
		{`{"type":"join-room","roomCode":"ABC234","playerName":"Ana","deviceId":"d1"}`, JoinRoom{RoomCode: "ABC234", PlayerName: "Ana", DeviceID: "d1"}},
		{`{"type":"press-buzzer","roomCode":"ABC234"}`, PressBuzzer{RoomCode: "ABC234"}},
		{`{"type":"release-buzzers","roomCode":"ABC234"}`, ReleaseBuzzers{RoomCode: "ABC234"}},
		{`{"type":"lock-buzzers","roomCode":"ABC234"}`, LockBuzzers{RoomCode: "ABC234"}},
		{`{"type":"update-note","roomCode":"ABC234","text":"Paris"}`, UpdateNote{RoomCode: "ABC234", Text: "Paris"}},
		{`{"type":"update-gamemaster-note","roomCode":"ABC234","text":"Hi"}`, UpdateGamemasterNote{RoomCode: "ABC234", Text: "Hi"}},
		{`{"type":"update-points","roomCode":"ABC234","playerId":"p1","points":-10}`, UpdatePoints{RoomCode: "ABC234", PlayerID: "p1", Points: -10}},
		{`{"type":"start-timer","roomCode":"ABC234","duration":30}`, StartTimer{RoomCode: "ABC234", Duration: 30}},
		{`{"type":"reset-timer","roomCode":"ABC234"}`, ResetTimer{RoomCode: "ABC234"}},
		{`{"type":"generate-number","roomCode":"ABC234","min":1.5,"max":6}`, GenerateNumber{RoomCode: "ABC234", Min: 1.5, Max: 6}},
		{`{"type":"lock-player-answer","roomCode":"ABC234"}`, LockPlayerAnswer{RoomCode: "ABC234"}},
		{`{"type":"lock-all-answers","roomCode":"ABC234"}`, LockAllAnswers{RoomCode: "ABC234"}},
		{`{"type":"unlock-all-answers","roomCode":"ABC234"}`, UnlockAllAnswers{RoomCode: "ABC234"}},
	}

	for _, tt := range tests {
		t.Run(tt.want.Name(), func(t *testing.T) {
			got, err := DecodeAction([]byte(tt.frame))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Len(t, tests, len(decoders), "every decodable action is covered")
}

func TestDecodeAction_Malformed(t *testing.T) {
	frames := []string{
		`not json`,
		`{"type":"dance"}`,
		`{"type":"disconnect"}`,
		`{"roomCode":"ABC234"}`,
		`{"type":"update-points","roomCode":"ABC234","points":"lots"}`,
		`{"type":"join-room","roomCode":"ABC234","avatarId":true}`,
	}

	for _, frame := range frames {
		_, err := DecodeAction([]byte(frame))
		assert.ErrorIs(t, err, ErrMalformed, frame)
	}
}

func TestDecodeAction_NumericAvatar(t *testing.T) {
	got, err := DecodeAction([]byte(`{"type":"join-room","roomCode":"ABC234","playerName":"Ana","avatarId":3,"deviceId":"d1"}`))
	require.NoError(t, err)
	assert.Equal(t, JoinRoom{RoomCode: "ABC234", PlayerName: "Ana", AvatarID: "3", DeviceID: "d1"}, got)

	got, err = DecodeAction([]byte(`{"type":"create-room","playerName":"Host","avatarId":12}`))
	require.NoError(t, err)
	assert.Equal(t, CreateRoom{PlayerName: "Host", AvatarID: "12"}, got)

	got, err = DecodeAction([]byte(`{"type":"create-room","playerName":"Host","avatarId":null}`))
	require.NoError(t, err)
	assert.Equal(t, CreateRoom{PlayerName: "Host"}, got)
}
