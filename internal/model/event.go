package model

import "encoding/json"

// Event is the websocket envelope for live entry events
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
