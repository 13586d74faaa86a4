//go:build integration

package mqtt

import (
	"testing"
	"time"
)

// These tests require a running MQTT broker at 127.0.0.1:1883.
//
// Run with:
//
//	go test -tags=integration ./internal/infrastructure/mqtt/...

func TestIntegration_RoundTrip(t *testing.T) {
	client, err := Connect(testConfig(), "it-node")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	got := make(chan []byte, 1)
	err = client.Subscribe(client.Topics().Set(), 1, func(_ string, payload []byte) error {
		got <- payload
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if client.SubscriptionCount() != 1 {
		t.Errorf("SubscriptionCount() = %d", client.SubscriptionCount())
	}

	if err := client.Publish(client.Topics().Set(), []byte(`{"elements":{}}`), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case payload := <-got:
		if string(payload) != `{"elements":{}}` {
			t.Errorf("payload = %s", payload)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("message not received")
	}
}
