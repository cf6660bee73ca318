// Sundial Core - desktop automation daemon.
//
// Sundial evaluates time-of-day, solar, and interval triggers against a
// registry of automation rules and drives hardware capabilities (keyboard
// backlight, display) over the MQTT command bus. Rules, site location, and
// execution history persist in SQLite.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/sundiald/sundial/migrations"

	"github.com/sundiald/sundial/internal/api"
	"github.com/sundiald/sundial/internal/capability"
	"github.com/sundiald/sundial/internal/infrastructure/config"
	"github.com/sundiald/sundial/internal/infrastructure/database"
	"github.com/sundiald/sundial/internal/infrastructure/influxdb"
	"github.com/sundiald/sundial/internal/infrastructure/logging"
	"github.com/sundiald/sundial/internal/infrastructure/mqtt"
	"github.com/sundiald/sundial/internal/notify"
	"github.com/sundiald/sundial/internal/orchestrator"
	"github.com/sundiald/sundial/internal/rules"
	"github.com/sundiald/sundial/internal/schedule"
)

// Version information, set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// defaultConfigPath is used when SUNDIAL_CONFIG is not set.
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting Sundial Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings.
	log = logging.New(cfg.Logging, version)

	// Open database and migrate.
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	// Connect to the MQTT command bus (optional).
	var busClient *mqtt.Client
	if cfg.MQTT.Enabled {
		busClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := busClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		busClient.SetLogger(log)
		busClient.SetOnConnect(func() {
			log.Info("MQTT connected")
		})
		busClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled, bus-backed capabilities will be excluded")
	}

	// Connect to InfluxDB (optional).
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
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
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Capability registry. A nil bus is fine; bus-backed capabilities
	// exclude themselves at discovery.
	capDeps := capability.Deps{Logger: log}
	if busClient != nil {
		capDeps.Bus = busClient
	}
	capRegistry := capability.NewRegistry(capDeps, cfg.Capabilities.Disabled)

	// Rule persistence.
	ruleRepo := rules.NewSQLiteRepository(db.DB)

	// Notifications go to the bus when available, otherwise the log.
	var notifier notify.Notifier
	if busClient != nil {
		notifier = notify.NewMQTT(busClient, log)
	} else {
		notifier = notify.NewLog(log)
	}

	// Orchestrator and scheduler, cross-wired: the orchestrator is the
	// scheduler's dispatcher.
	orch := orchestrator.New(ruleRepo, capRegistry, notifier, log)
	scheduler := schedule.NewRegistry(orch, cfg.Scheduler.TickInterval(), log)
	orch.AttachScheduler(scheduler)
	if influxClient != nil {
		orch.SetFireRecorder(influxClient)
		scheduler.SetStatsRecorder(influxClient)
	}

	// Management API. Constructed before the orchestrator starts so the
	// event hub is attached before the first dispatch can run.
	server, err := api.New(api.Deps{
		Config:       cfg.API,
		WS:           cfg.WebSocket,
		Logger:       log,
		Orchestrator: orch,
		Rules:        ruleRepo,
		Capabilities: capRegistry,
		Scheduler:    scheduler,
		Version:      version,
	})
	if err != nil {
		return fmt.Errorf("creating api server: %w", err)
	}
	orch.SetEventHub(server.Hub())

	if startErr := orch.Start(ctx); startErr != nil {
		return fmt.Errorf("starting orchestrator: %w", startErr)
	}
	defer func() {
		log.Info("stopping orchestrator")
		if stopErr := orch.Stop(); stopErr != nil {
			log.Error("error stopping orchestrator", "error", stopErr)
		}
	}()

	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting api server: %w", startErr)
	}
	defer func() {
		log.Info("stopping api server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing api server", "error", closeErr)
		}
	}()

	if err := healthCheck(ctx, db, busClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// getConfigPath returns the configuration file path, honouring the
// SUNDIAL_CONFIG environment variable.
func getConfigPath() string {
	if path := os.Getenv("SUNDIAL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all configured infrastructure connections.
func healthCheck(ctx context.Context, db *database.DB, busClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if busClient != nil {
		if err := busClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}
