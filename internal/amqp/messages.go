package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Sync actions carried by mirror messages.
const (
	ActionCreate = "create"
	ActionDelete = "delete"
)

// TransactionSyncMessage tells the mirror worker that a transaction changed.
// It carries only the ID and action; the worker fetches the full record from
// the local store before mirroring it.
type TransactionSyncMessage struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(id, action string) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (m *TransactionSyncMessage) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("sync message missing transaction id")
	}
	switch m.Action {
	case ActionCreate, ActionDelete:
		return nil
	default:
		return fmt.Errorf("unknown sync action %q", m.Action)
	}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
