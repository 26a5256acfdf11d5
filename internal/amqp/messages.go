package amqp

import (
	"encoding/json"
	"time"
)

// SnapshotMessage announces that a state snapshot was written under the
// given key. The mirror worker fetches the snapshot from storage, so the
// message stays small.
type SnapshotMessage struct {
	Key       string    `json:"key"`
	Revision  int64     `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSnapshotMessage(key string, revision int64) *SnapshotMessage {
	return &SnapshotMessage{
		Key:       key,
		Revision:  revision,
		Timestamp: time.Now(),
	}
}

func (m *SnapshotMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SnapshotMessageFromJSON(data []byte) (*SnapshotMessage, error) {
	var msg SnapshotMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
