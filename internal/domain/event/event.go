package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Event interface {
	Op() string
}

type EventRequest struct {
	ID   string    `json:"id"`
	Op   string    `json:"o"`
	Data any       `json:"d"`
	Time time.Time `json:"t"`
}

func New(ev Event) *EventRequest {
	return &EventRequest{
		ID:   uuid.NewString(),
		Op:   ev.Op(),
		Data: ev,
		Time: time.Now().UTC(),
	}
}

// RawEventRequest is the decoding side of EventRequest, the data is decoded
// later depending on Op.
type RawEventRequest struct {
	ID   string          `json:"id"`
	Op   string          `json:"o"`
	Data json.RawMessage `json:"d"`
	Time time.Time       `json:"t"`
}
