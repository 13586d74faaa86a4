package influxdb_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/influxdb"
)

// testConfig returns a configuration for a local dev InfluxDB.
func testConfig() config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           "http://127.0.0.1:8086",
		Token:         "graylogic-dev-token",
		Org:           "graylogic",
		Bucket:        "metrics",
		BatchSize:     100,
		FlushInterval: 1,
	}
}

// connectOrSkip skips the test unless InfluxDB is reachable.
func connectOrSkip(t *testing.T) *influxdb.Client {
	t.Helper()
	if os.Getenv("RUN_INTEGRATION") == "" {
		t.Skip("set RUN_INTEGRATION to run against a local InfluxDB")
	}
	client, err := influxdb.Connect(testConfig(), "test-node")
	if err != nil {
		t.Skipf("InfluxDB not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestConnectDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	_, err := influxdb.Connect(cfg, "n1")
	if !errors.Is(err, influxdb.ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestPoints(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	elements := map[string]map[string]any{
		"tank": {"Value": float32(42.5), "Alarm": true, "Unit": "%"},
		"pump": {"Value": false, "DelayCounter": uint16(3)},
	}

	points := influxdb.Points("n1", elements, ts)

	want := []struct {
		function, tag string
		value         float64
	}{
		{"pump", "DelayCounter", 3},
		{"pump", "Value", 0},
		{"tank", "Alarm", 1},
		{"tank", "Value", 42.5},
	}
	if len(points) != len(want) {
		t.Fatalf("len(points) = %d, want %d", len(points), len(want))
	}
	for i, w := range want {
		p := points[i]
		if p.Name() != influxdb.Measurement {
			t.Errorf("point %d measurement = %q", i, p.Name())
		}
		tags := map[string]string{}
		for _, tg := range p.TagList() {
			tags[tg.Key] = tg.Value
		}
		if tags["node"] != "n1" || tags["function"] != w.function || tags["tag"] != w.tag {
			t.Errorf("point %d tags = %v, want %s/%s", i, tags, w.function, w.tag)
		}
		fields := p.FieldList()
		if len(fields) != 1 || fields[0].Key != "value" || fields[0].Value != w.value {
			t.Errorf("point %d fields = %v, want value=%v", i, fields, w.value)
		}
		if !p.Time().Equal(ts) {
			t.Errorf("point %d time = %v", i, p.Time())
		}
	}
}

func TestWriteTagValuesDisconnected(t *testing.T) {
	var c influxdb.Client
	if n := c.WriteTagValues(map[string]map[string]any{"f": {"v": 1.0}}, time.Now()); n != 0 {
		t.Errorf("WriteTagValues() on closed client = %d", n)
	}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, influxdb.ErrNotConnected) {
		t.Errorf("HealthCheck() = %v, want ErrNotConnected", err)
	}
}

func TestIntegration_WriteAndFlush(t *testing.T) {
	client := connectOrSkip(t)

	var writeErr error
	client.SetOnError(func(err error) { writeErr = err })

	n := client.WriteTagValues(map[string]map[string]any{"tank": {"Value": float32(10)}}, time.Now())
	if n != 1 {
		t.Errorf("WriteTagValues() = %d, want 1", n)
	}
	client.Flush()
	if writeErr != nil {
		t.Errorf("async write error: %v", writeErr)
	}
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}
