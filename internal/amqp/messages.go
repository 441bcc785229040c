package amqp

import (
	"encoding/json"
	"time"

	"finanzas/internal/core"
)

// Change operations carried on the wire.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// LedgerChangeMessage notifies consumers that the ledger file changed.
// The ledger is persisted wholesale, so the message carries no record
// payload; consumers reload the file and take a fresh snapshot.
type LedgerChangeMessage struct {
	Op        string          `json:"op"`
	Kind      core.RecordKind `json:"kind"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewLedgerChangeMessage(op string, kind core.RecordKind) *LedgerChangeMessage {
	return &LedgerChangeMessage{
		Op:        op,
		Kind:      kind,
		Timestamp: time.Now(),
	}
}

func (m *LedgerChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangeMessageFromJSON(data []byte) (*LedgerChangeMessage, error) {
	var msg LedgerChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
