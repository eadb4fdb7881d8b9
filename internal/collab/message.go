package collab

import (
	"encoding/json"
	"errors"

	"github.com/bytedance/sonic"
)

const (
	EventCodeChange  = "code-change"
	EventReceiveCode = "receive-code"
)

var ErrUnknownEvent = errors.New("unknown event")

// Envelope is the JSON frame exchanged over the collaboration socket.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Relay turns an inbound code-change frame into the receive-code frame peers
// get. Data is carried through byte for byte.
func Relay(frame []byte) ([]byte, error) {
	var in Envelope
	if err := sonic.Unmarshal(frame, &in); err != nil {
		return nil, err
	}
	if in.Event != EventCodeChange {
		return nil, ErrUnknownEvent
	}
	if len(in.Data) == 0 {
		in.Data = json.RawMessage("null")
	}
	return sonic.Marshal(Envelope{Event: EventReceiveCode, Data: in.Data})
}
