/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package buzzer

import (
	"errors"
	"fmt"
)

var (
	// ErrStaleRoom is returned when an action names a room that no longer
	// exists. It is never reported to clients.
	ErrStaleRoom = errors.New("room no longer exists")

	// ErrMalformed is returned by DecodeAction for frames it cannot parse.
	ErrMalformed = errors.New("malformed action")

	// ErrCodeSpace is returned when no unused room code could be generated.
	ErrCodeSpace = errors.New("unable to generate unique room code")
)

type RejectionKind int

const (
	Validation RejectionKind = iota
	Authorization
)

func (k RejectionKind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Authorization:
		return "authorization"
	}
	return fmt.Sprintf("RejectionKind(%d)", int(k))
}

// Rejection is an error reported only to the acting connection. Message is
// user-facing.
type Rejection struct {
	Kind    RejectionKind
	Message string
}

func (r *Rejection) Error() string {
	return r.Kind.String() + ": " + r.Message
}

func invalid(msg string) error {
	return &Rejection{Kind: Validation, Message: msg}
}

func unauthorized(msg string) error {
	return &Rejection{Kind: Authorization, Message: "Unauthorized: " + msg}
}
