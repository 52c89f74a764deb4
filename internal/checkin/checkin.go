package checkin

import (
	"errors"
	"time"
)

// CheckIn records a committee member scanning an attendee's QR code at
// an event. QR encoding/decoding happens on the client; the server
// receives the decoded uid/event pair.
type CheckIn struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	UID         string    `json:"uid"`
	ScannedBy   string    `json:"scanned_by"`
	CheckedInAt time.Time `json:"checked_in_at"`
}

var (
	ErrUnknownEvent  = errors.New("unknown event")
	ErrNotRegistered = errors.New("user is not registered for this event")
)
