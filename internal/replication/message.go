// Package replication shares one puzzle between peers over websockets.
//
// Every message carries moves as canonical tokens and cameras as plain
// 3-tuples, so any peer that speaks the token grammar can join.
package replication

import (
	"fmt"

	"github.com/SeamusWaldron/nxncube"
)

// MessageType identifies a replication message.
type MessageType string

const (
	TypeMove   MessageType = "move"
	TypeCamera MessageType = "camera"
	TypeState  MessageType = "state"
)

// Message is the single wire envelope for all replication traffic.
type Message struct {
	Type   MessageType `json:"type"`
	Token  string      `json:"token,omitempty"`
	TsMs   int64       `json:"ts_ms,omitempty"`
	Peer   string      `json:"peer,omitempty"`
	Camera *[3]float64 `json:"camera,omitempty"`
	State  string      `json:"state,omitempty"`
	Size   int         `json:"size,omitempty"`
}

// MoveMessage builds a move message.
func MoveMessage(m nxncube.Move, tsMs int64) Message {
	return Message{Type: TypeMove, Token: m.Notation(), TsMs: tsMs}
}

// CameraMessage builds a camera message.
func CameraMessage(pos nxncube.Vec3, tsMs int64) Message {
	return Message{Type: TypeCamera, Camera: &[3]float64{pos.X, pos.Y, pos.Z}, TsMs: tsMs}
}

// StateMessage builds a snapshot of e.
func StateMessage(e *nxncube.Engine) Message {
	return Message{Type: TypeState, State: e.State(), Size: e.Size()}
}

// Position returns the camera position carried by a camera message.
func (m Message) Position() (nxncube.Vec3, bool) {
	if m.Camera == nil {
		return nxncube.Vec3{}, false
	}
	return nxncube.Vec3{X: m.Camera[0], Y: m.Camera[1], Z: m.Camera[2]}, true
}

// Apply replays a received move or snapshot onto e. Camera messages are
// left to the caller.
func Apply(e *nxncube.Engine, m Message) error {
	switch m.Type {
	case TypeMove:
		return e.Submit(m.Token)
	case TypeState:
		if m.Size != e.Size() {
			c, err := nxncube.NewCube(m.Size)
			if err != nil {
				return err
			}
			if err := c.SetState(m.State); err != nil {
				return err
			}
			if err := e.Resize(m.Size); err != nil {
				return err
			}
		}
		return e.Load(m.State)
	case TypeCamera:
		return nil
	default:
		return fmt.Errorf("unknown message type %q", m.Type)
	}
}
