/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package buzzer

// IsHost reports whether conn is the gamemaster of r.
func IsHost(conn string, r *Room) bool {
	return r != nil && r.Host == conn
}

// IsPlayer reports whether conn joined r as a player.
func IsPlayer(conn string, r *Room) bool {
	if r == nil || r.Host == conn {
		return false
	}
	_, ok := r.Players[conn]
	return ok
}
