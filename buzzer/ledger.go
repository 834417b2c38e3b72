/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package buzzer

// Ledger remembers point totals per device so returning players keep their
// score. Entries live as long as the owning room.
type Ledger struct {
	points map[string]map[string]int // room code -> device id -> points
}

func NewLedger() *Ledger {
	return &Ledger{
		points: make(map[string]map[string]int),
	}
}

func (l *Ledger) Lookup(code, device string) (int, bool) {
	if device == "" {
		return 0, false
	}
	pts, ok := l.points[code][device]
	return pts, ok
}

// Record stores the total for a device. Blank devices are not tracked.
func (l *Ledger) Record(code, device string, points int) {
	if device == "" {
		return
	}
	room, ok := l.points[code]
	if !ok {
		room = make(map[string]int)
		l.points[code] = room
	}
	room[device] = points
}

// Forget drops every entry of a room.
func (l *Ledger) Forget(code string) {
	delete(l.points, code)
}

func (l *Ledger) Len(code string) int {
	return len(l.points[code])
}
