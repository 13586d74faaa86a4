package node

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/handler"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

const (
	defaultTickInterval    = 10 * time.Millisecond
	defaultPublishInterval = time.Second
)

// Graph is the part of handler.Handler the Runner drives.
type Graph interface {
	Tick(now time.Time)
	Values(mask tag.Access) handler.ValuesDoc
	SetValues(doc handler.ValuesDoc, mask tag.Access) int
	Patch(ctx context.Context, cmd string) handler.Result
}

// MQTTClient is the part of the MQTT client the Runner needs.
type MQTTClient interface {
	Topics() mqtt.Topics
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	PublishJSON(topic string, v any, retained bool) error
	IsConnected() bool
}

// Pusher sends the current values to connected WebSocket clients.
type Pusher interface {
	PushValues()
}

// TelemetryWriter records Data values as time series.
type TelemetryWriter interface {
	WriteTagValues(elements map[string]map[string]any, ts time.Time) int
}

// Logger is the logging interface used by the Runner.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Clock supplies the time passed to Tick.
type Clock interface {
	Now() time.Time
}

// Options configures a Runner. Zero intervals take the defaults.
type Options struct {
	TickInterval    time.Duration
	PublishInterval time.Duration
	Clock           Clock
	QoS             byte
}

// CommandResult is published on the result topic after a remote command.
type CommandResult struct {
	Command   string         `json:"command"`
	Result    handler.Result `json:"result"`
	Timestamp time.Time      `json:"timestamp"`
}

// Runner ticks a Graph and fans its values out.
//
// Thread Safety: the Graph serialises its own calls, so MQTT handlers
// may run concurrently with the loops.
type Runner struct {
	graph  Graph
	opts   Options
	mqtt   MQTTClient
	pusher Pusher
	tsdb   TelemetryWriter
	logger Logger
}

// New creates a Runner for graph.
func New(graph Graph, opts Options) *Runner {
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTickInterval
	}
	if opts.PublishInterval <= 0 {
		opts.PublishInterval = defaultPublishInterval
	}
	return &Runner{graph: graph, opts: opts, logger: noopLogger{}}
}

// SetMQTT attaches an MQTT client. Must be called before Run.
func (r *Runner) SetMQTT(c MQTTClient) { r.mqtt = c }

// SetPusher attaches the WebSocket outlet. Must be called before Run.
func (r *Runner) SetPusher(p Pusher) { r.pusher = p }

// SetTelemetry attaches the time series outlet. Must be called before Run.
func (r *Runner) SetTelemetry(w TelemetryWriter) { r.tsdb = w }

// SetLogger sets the logger. Must be called before Run.
func (r *Runner) SetLogger(l Logger) {
	if l != nil {
		r.logger = l
	}
}

// Run subscribes to the remote topics and runs both loops until ctx is
// cancelled. It returns nil on cancellation.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.subscribe(ctx); err != nil {
		return err
	}

	tick := time.NewTicker(r.opts.TickInterval)
	defer tick.Stop()
	publish := time.NewTicker(r.opts.PublishInterval)
	defer publish.Stop()

	r.logger.Info("runner started",
		"tick_interval", r.opts.TickInterval.String(),
		"publish_interval", r.opts.PublishInterval.String(),
	)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("runner stopped")
			return nil
		case <-tick.C:
			r.graph.Tick(r.now())
		case <-publish.C:
			r.publish(r.now())
		}
	}
}

func (r *Runner) now() time.Time {
	if r.opts.Clock != nil {
		return r.opts.Clock.Now()
	}
	return time.Now()
}

// publish sends one values document to every attached outlet.
func (r *Runner) publish(now time.Time) {
	if r.pusher != nil {
		r.pusher.PushValues()
	}
	if r.mqtt == nil && r.tsdb == nil {
		return
	}

	doc := r.graph.Values(tag.Read)
	if r.mqtt != nil && r.mqtt.IsConnected() {
		if err := r.mqtt.PublishJSON(r.mqtt.Topics().Values(), doc, true); err != nil {
			r.logger.Warn("publishing values failed", "error", err)
		}
	}
	if r.tsdb != nil {
		if n := r.tsdb.WriteTagValues(DataValues(doc), now); n > 0 {
			r.logger.Debug("telemetry queued", "points", n)
		}
	}
}

// DataValues reduces a values document to the "data" group of each
// Function, the part worth keeping as time series.
func DataValues(doc handler.ValuesDoc) map[string]map[string]any {
	out := make(map[string]map[string]any, len(doc.Elements))
	for name, groups := range doc.Elements {
		data, ok := groups["data"].(map[string]any)
		if !ok || len(data) == 0 {
			continue
		}
		out[name] = data
	}
	return out
}

func (r *Runner) subscribe(ctx context.Context) error {
	if r.mqtt == nil {
		return nil
	}
	topics := r.mqtt.Topics()
	if err := r.mqtt.Subscribe(topics.Set(), r.opts.QoS, r.handleSet); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topics.Set(), err)
	}
	err := r.mqtt.Subscribe(topics.Command(), r.opts.QoS, func(_ string, payload []byte) error {
		return r.handleCommand(ctx, payload)
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", topics.Command(), err)
	}
	return nil
}

// handleSet applies a values document and publishes the values after it.
func (r *Runner) handleSet(_ string, payload []byte) error {
	var doc handler.ValuesDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return fmt.Errorf("decoding values document: %w", err)
	}
	n := r.graph.SetValues(doc, tag.Write)
	r.logger.Debug("values set over mqtt", "tags", n)

	return r.mqtt.PublishJSON(r.mqtt.Topics().Values(), r.graph.Values(tag.Read), true)
}

// handleCommand runs one lifecycle command. The payload is the bare
// command, optionally JSON quoted; unknown commands still get a result.
func (r *Runner) handleCommand(ctx context.Context, payload []byte) error {
	cmd := strings.Trim(strings.TrimSpace(string(payload)), `"`)
	res := r.graph.Patch(ctx, cmd)
	r.logger.Info("lifecycle command over mqtt", "command", cmd, "result", res.String())

	return r.mqtt.PublishJSON(r.mqtt.Topics().Result(), CommandResult{
		Command:   cmd,
		Result:    res,
		Timestamp: r.now().UTC(),
	}, false)
}
