package amqp

import (
	"testing"
	"time"
)

func TestCreditEventMessageRoundTrip(t *testing.T) {
	msg := NewCreditEventMessage("cr-42", ActionSettled)

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	back, err := CreditEventMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if back.CreditID != "cr-42" || back.Action != ActionSettled {
		t.Errorf("round trip = %+v", back)
	}
	if back.Timestamp.IsZero() || time.Since(back.Timestamp) > time.Minute {
		t.Errorf("timestamp not preserved: %v", back.Timestamp)
	}
}

func TestCreditEventMessageRejectsUnknownAction(t *testing.T) {
	if _, err := CreditEventMessageFromJSON([]byte(`{"credit_id":"cr-1","action":"archived"}`)); err == nil {
		t.Error("unknown action should be rejected")
	}
	if _, err := CreditEventMessageFromJSON([]byte(`not json`)); err == nil {
		t.Error("malformed payload should be rejected")
	}
}
