// Package realtime defines the wire envelope carried by the pub/sub
// transport. Payload bytes are opaque here; the events package owns
// their shape.
package realtime

import "encoding/json"

type Message struct {
	Topic string          `json:"topic"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}
