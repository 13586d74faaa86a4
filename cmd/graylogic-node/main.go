// Gray Logic Node - Function graph runtime
//
// This is the entry point of a Gray Logic field node. The node builds its
// Function graph from the setup document in its store, ticks it, and
// exposes the values over HTTP, WebSocket and (optionally) MQTT and
// InfluxDB.
//
// Usage:
//
//	graylogic-node                      run with GRAYLOGIC_CONFIG or configs/config.yaml
//	graylogic-node token -role operator print an access token for this node
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/api"
	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/functions"
	"github.com/nerrad567/gray-logic-node/internal/hal"
	"github.com/nerrad567/gray-logic-node/internal/hal/sim"
	"github.com/nerrad567/gray-logic-node/internal/handler"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-node/internal/node"
	"github.com/nerrad567/gray-logic-node/internal/panel"
	"github.com/nerrad567/gray-logic-node/internal/storage"
	"github.com/nerrad567/gray-logic-node/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// simTimerInterval is how often the simulated board fires its timers,
// standing in for the hardware timer interrupt.
const simTimerInterval = 100 * time.Microsecond

func main() {
	if len(os.Args) > 1 && os.Args[1] == "token" {
		if err := runToken(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the node lifecycle, separated from main for testability. It
// returns nil on a clean shutdown.
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // startup wiring: one step per optional component
	log := logging.Default()
	log.Info("starting Gray Logic Node",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version, cfg.Node.ID)
	log.Info("configuration loaded",
		"path", configPath,
		"level", cfg.Logging.Level,
		"storage", cfg.Storage.Backend,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	board, err := openBoard(ctx, cfg.Node.Board)
	if err != nil {
		return err
	}
	clock := hal.SystemClockIn(cfg.Location())

	checks := make(map[string]api.HealthChecker)

	// Storage backend
	var (
		store    storage.Store
		recorder handler.Recorder
	)
	switch cfg.Storage.Backend {
	case "sqlite":
		db, openErr := openDatabase(ctx, cfg.Database)
		if openErr != nil {
			return openErr
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
		log.Info("database ready", "path", db.Path())
		store = storage.NewSQLiteStore(db)
		recorder = storage.NewRunRecorder(db)
		checks["database"] = db
	default:
		fileStore, fsErr := storage.NewFileStore(cfg.Storage.Dir)
		if fsErr != nil {
			return fmt.Errorf("opening file store: %w", fsErr)
		}
		log.Info("file store ready", "dir", fileStore.Dir())
		store = fileStore
	}

	// Function graph
	funcs, hw := functions.Registries()
	graph := handler.New(store, funcs, hw, function.Env{
		Board:  board,
		Clock:  clock,
		Logger: log.Component("handler"),
	})
	if recorder != nil {
		graph.SetRecorder(recorder)
	}
	if res := graph.Patch(ctx, string(handler.CmdInit)); !res.OK() {
		// The node keeps running with what could be built; the log
		// document tells which entries failed.
		log.Warn("graph built with faults", "result", res.String())
	}
	defer func() {
		if len(graph.Functions()) == 0 {
			return
		}
		if res := graph.Patch(context.Background(), string(handler.CmdSaveValues)); !res.OK() {
			log.Error("saving values on shutdown failed", "result", res.String())
		}
	}()

	// MQTT (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT, cfg.Node.ID)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log.Component("mqtt"))
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		checks["mqtt"] = mqttClient
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"topics", mqtt.TopicPrefix+"/"+cfg.Node.ID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	// InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB, cfg.Node.ID)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		checks["influxdb"] = influxClient
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// HTTP API, WebSocket and browser view
	deps := api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Security: cfg.Security,
		NodeID:   cfg.Node.ID,
		Logger:   log.Component("api"),
		Graph:    graph,
		Version:  version,
		Checks:   checks,
	}
	if cfg.API.Panel {
		deps.Panel, err = panel.Handler(cfg.API.PanelDir)
		if err != nil {
			return err
		}
	}
	srv, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := srv.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Runtime loops
	runner := node.New(graph, node.Options{
		TickInterval:    cfg.GetTickInterval(),
		PublishInterval: cfg.GetPublishInterval(),
		Clock:           clock,
		QoS:             byte(cfg.MQTT.QoS), //nolint:gosec // Validate bounds QoS to 0..2
	})
	runner.SetLogger(log.Component("runner"))
	runner.SetPusher(srv)
	if mqttClient != nil {
		runner.SetMQTT(mqttClient)
	}
	if influxClient != nil {
		runner.SetTelemetry(influxClient)
	}

	log.Info("initialisation complete",
		"functions", len(graph.Functions()),
		"links", graph.LinkCount(),
	)
	if err := runner.Run(ctx); err != nil {
		return fmt.Errorf("running node: %w", err)
	}

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses GRAYLOGIC_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GRAYLOGIC_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// openBoard returns the hardware backend named by the configuration.
func openBoard(ctx context.Context, name string) (hal.Board, error) {
	switch name {
	case "", "sim":
		board := sim.NewBoard()
		go board.Pump(ctx, simTimerInterval)
		return board, nil
	default:
		return nil, fmt.Errorf("unknown board %q", name)
	}
}

// openDatabase opens the node database and applies pending migrations.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*database.DB, error) {
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Path,
		WALMode:     cfg.WALMode,
		BusyTimeout: cfg.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(ctx, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}
