package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Actions carried by credit event messages.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionSettled = "settled"
	ActionDeleted = "deleted"
)

// CreditEventMessage tells the snapshot worker that a credit changed. It
// carries only the id and action; the worker reloads the credit from the
// database before recomputing aggregates.
type CreditEventMessage struct {
	CreditID  string    `json:"credit_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewCreditEventMessage(creditID, action string) *CreditEventMessage {
	return &CreditEventMessage{
		CreditID:  creditID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (m *CreditEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func CreditEventMessageFromJSON(data []byte) (*CreditEventMessage, error) {
	var msg CreditEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Action {
	case ActionCreated, ActionUpdated, ActionSettled, ActionDeleted:
	default:
		return nil, fmt.Errorf("unknown credit event action: %q", msg.Action)
	}
	return &msg, nil
}
