// Package mqtt provides MQTT client connectivity for a Gray Logic node.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions, restored after a reconnect
//   - Last Will and Testament (LWT) for offline detection
//
// # Topics
//
// Every node owns one subtree keyed by its id:
//
//	graylogic/node/{id}/values   ← node publishes the values document
//	graylogic/node/{id}/set      → values document applied to the graph
//	graylogic/node/{id}/command  → lifecycle command (init, reinit, ...)
//	graylogic/node/{id}/result   ← outcome of the last command
//	graylogic/node/{id}/status   ← online/offline (retained, LWT)
//
// # Security Considerations
//
//   - Enable TLS outside the lab (cfg.Broker.TLS=true)
//   - The set and command topics drive physical outputs; restrict them
//     in the broker ACL
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT, cfg.Node.ID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Subscribe(client.Topics().Command(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("command: %s", payload)
//	        return nil
//	    })
package mqtt
