// Command marisim runs a ship encounter scenario: own-ship transits a
// waypoint route while the reactive avoidance field and an optional
// decision backend steer it around the scenario's target vessels. Every
// step is recorded to the configured storage backend.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/marisim/marisim/internal/config"
	"github.com/marisim/marisim/internal/database"
	"github.com/marisim/marisim/internal/decision"
	"github.com/marisim/marisim/internal/geo"
	"github.com/marisim/marisim/internal/influx"
	"github.com/marisim/marisim/internal/logging"
	"github.com/marisim/marisim/internal/model/core"
	"github.com/marisim/marisim/internal/monitor"
	"github.com/marisim/marisim/internal/otel"
	"github.com/marisim/marisim/internal/runinfo"
	"github.com/marisim/marisim/internal/scenario"
	"github.com/marisim/marisim/internal/sim"
	"github.com/marisim/marisim/internal/storage"
	"github.com/marisim/marisim/internal/worker"
)

func main() {
	var (
		configDir    = flag.String("config", ".", "directory containing marisim.cfg.json")
		caseID       = flag.Int("case", 0, "scenario case override (1-23)")
		providerName = flag.String("provider", "", "decision backend override (none, openai, anthropic)")
		routeJSON    = flag.String("route", "", `waypoint route override, e.g. "[[74080,0]]"`)
		originStr    = flag.String("origin", "", `geographic anchor "lon,lat" for GeoJSON export`)
		compare      = flag.Bool("compare", false, "run baseline and override runs and report agreement")
		asyncWrites  = flag.Bool("async", false, "queue storage writes off the simulation loop")
		geojsonOut   = flag.Bool("geojson", false, "export the own-ship track as GeoJSON")
	)
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v (continuing with defaults)\n", err)
	}

	sessionStart := time.Now()
	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logs dir: %v\n", err)
		os.Exit(1)
	}

	logFile, err := os.Create(logging.LogFilePath(logsDir, "marisim", sessionStart))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	otelProvider := setupOTel(logsDir, sessionStart)
	defer otelProvider.Shutdown(context.Background())

	logManager := logging.NewSlogManager()
	extraWriters := gelfWriters()
	logManager.Setup(logFile, config.GetString("logLevel"), otelProvider.LoggerProvider(), extraWriters...)

	// Per-run attributes ride along on every record once a run starts.
	runCtx := runinfo.NewContext()
	logger := slog.New(logging.NewContextHandler(logManager.Logger().Handler(), runCtx.LogAttrs))

	if err := run(logger, runCtx, logManager, logsDir, runOptions{
		caseID:       *caseID,
		providerName: *providerName,
		routeJSON:    *routeJSON,
		originStr:    *originStr,
		compare:      *compare,
		asyncWrites:  *asyncWrites,
		geojsonOut:   *geojsonOut,
	}); err != nil {
		logger.Error("Run failed", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	caseID       int
	providerName string
	routeJSON    string
	originStr    string
	compare      bool
	asyncWrites  bool
	geojsonOut   bool
}

func run(logger *slog.Logger, runCtx *runinfo.Context, logManager *logging.SlogManager, logsDir string, opts runOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	simCfg := config.GetSimConfig()
	if opts.caseID != 0 {
		simCfg.Case = opts.caseID
	}

	obstacles, err := scenario.Obstacles(simCfg.Case)
	if err != nil {
		return err
	}
	logger.Info("Scenario loaded", "case", simCfg.Case, "obstacles", len(obstacles), "steps", simCfg.Steps())

	route, err := resolveRoute(opts.routeJSON)
	if err != nil {
		return err
	}

	// Storage backend and recorder
	storCfg := config.GetStorageConfig()
	if dir := storCfg.SQLite.DumpDir; dir != "" {
		if dumps, err := database.GetBackupDBPaths(dir); err == nil && len(dumps) > 0 {
			logger.Info("Found run dumps from earlier sessions", "dir", dir, "count", len(dumps))
		}
	}
	backend, err := storage.NewBackend(storCfg, logger)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("storage init: %w", err)
	}
	defer backend.Close()

	params := map[string]any{
		"sim":        simCfg,
		"vessel":     config.GetVesselParams(),
		"controller": config.GetControllerConfig(),
		"avoidance":  config.GetAvoidanceConfig(),
		"risk":       config.GetRiskThresholds(),
		"route":      route,
	}

	var recorder sim.Observer
	var asyncRec *worker.AsyncRecorder
	if opts.asyncWrites {
		asyncRec = worker.NewAsyncRecorder(backend, params, logger)
		recorder = asyncRec
	} else {
		recorder = storage.NewRecorder(backend, params, logger)
	}

	// Optional InfluxDB telemetry
	var influxObs *influx.Observer
	if config.GetBool("influx.enabled") {
		zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
		im := influx.NewManager(zl, filepath.Join(logsDir, "influx_backup.lp.gz"))
		if err := im.Connect(); err != nil {
			logger.Warn("InfluxDB unavailable, telemetry disabled", "error", err)
		} else {
			influxObs = influx.NewObserver(im)
			defer im.Close()
		}
	}

	// Decision backend
	decCfg := config.GetDecisionConfig()
	if opts.providerName != "" {
		decCfg.Provider = opts.providerName
	}
	var provider decision.Provider
	if decCfg.Provider != "" && decCfg.Provider != "none" {
		provider, err = decision.NewProvider(decCfg)
		if err != nil {
			return err
		}
		logger.Info("Decision backend configured", "provider", decCfg.Provider, "model", decCfg.Model)
	}

	build := func(p decision.Provider) *sim.Runner {
		r := sim.NewRunner(simCfg, obstacles)
		r.SetVessel(config.GetVesselParams())
		r.SetController(config.GetControllerConfig())
		r.SetField(config.GetAvoidanceConfig())
		r.SetThresholds(config.GetRiskThresholds())
		r.SetRoute(route)
		r.SetLogger(logger)
		r.SetProvider(p)
		return r
	}

	// Status monitor
	mon := monitor.NewService(monitor.Dependencies{
		LogManager: logManager,
		RunContext: runCtx,
		Recorder:   asyncRec,
		StatusDir:  logsDir,
	})
	if err := mon.Start(); err != nil {
		return err
	}
	defer mon.Stop()

	if opts.compare {
		return runComparison(ctx, logger, build, provider)
	}

	runner := build(provider)
	runner.AddObserver(runCtx)
	runner.AddObserver(recorder)
	if influxObs != nil {
		runner.AddObserver(influxObs)
	}

	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	reportSummary(logger, result.Summary)
	if errOf, ok := recorder.(interface{ Err() error }); ok && errOf.Err() != nil {
		logger.Warn("Run completed with storage errors", "error", errOf.Err())
	}
	if exp, ok := backend.(storage.Exportable); ok && exp.ExportedFilePath() != "" {
		logger.Info("Run exported", "path", exp.ExportedFilePath())
	}

	if opts.geojsonOut {
		if err := exportTrack(logger, logsDir, simCfg.Case, opts.originStr, result.Records); err != nil {
			return err
		}
	}

	return logManager.Flush(ctx)
}

func runComparison(ctx context.Context, logger *slog.Logger, build func(decision.Provider) *sim.Runner, provider decision.Provider) error {
	if provider == nil {
		return fmt.Errorf("comparison mode needs a decision provider")
	}

	cmp, err := sim.RunComparison(ctx, build(nil), build(provider))
	if err != nil {
		return err
	}

	logger.Info("Comparison finished",
		"signAgreement", cmp.SignAgreement,
		"baselineMaxRisk", cmp.Baseline.MaxRisk,
		"overrideMaxRisk", cmp.Override.MaxRisk,
	)

	out, err := json.MarshalIndent(cmp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func reportSummary(logger *slog.Logger, sum core.RunSummary) {
	logger.Info("Run finished",
		"steps", sum.Run.Steps,
		"maxRisk", sum.MaxRisk,
		"avgRisk", sum.AvgRisk,
		"turnSteps", sum.TurnSteps,
		"finalDistance", sum.FinalDistance,
	)
	fmt.Printf("case %d: maxRisk=%.3f avgRisk=%.3f turnSteps=%d finalDistance=%.0f m\n",
		sum.Run.Case, sum.MaxRisk, sum.AvgRisk, sum.TurnSteps, sum.FinalDistance)
}

func resolveRoute(routeJSON string) ([]core.Waypoint, error) {
	if routeJSON != "" {
		return geo.ParseRoute(routeJSON)
	}
	return config.GetRoute()
}

func exportTrack(logger *slog.Logger, logsDir string, caseID int, originStr string, records []core.StepRecord) error {
	origin := geo.Origin{
		Lon: config.GetFloat64("geo.originLon"),
		Lat: config.GetFloat64("geo.originLat"),
	}
	if originStr != "" {
		var err error
		origin, err = geo.ParseOrigin(originStr)
		if err != nil {
			return err
		}
	}

	data, err := geo.TrajectoryGeoJSON(origin, records)
	if err != nil {
		return err
	}

	path := filepath.Join(logsDir, fmt.Sprintf("case%d_track.geojson", caseID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	logger.Info("Track exported", "path", path)
	return nil
}

func setupOTel(logsDir string, sessionStart time.Time) *otel.Provider {
	cfg := config.GetOTelConfig()

	var logWriter io.Writer
	if cfg.Enabled {
		f, err := os.Create(logging.LogFilePath(logsDir, "marisim.otel", sessionStart))
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create OTel log file: %v\n", err)
		} else {
			logWriter = f
		}
	}

	provider, err := otel.New(otel.Config{
		Enabled:      cfg.Enabled,
		ServiceName:  cfg.ServiceName,
		BatchTimeout: cfg.BatchTimeout,
		LogWriter:    logWriter,
		Endpoint:     cfg.Endpoint,
		Insecure:     cfg.Insecure,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "OTel setup failed, continuing without it: %v\n", err)
		provider, _ = otel.New(otel.Config{})
	}
	return provider
}

func gelfWriters() []io.Writer {
	if !config.GetBool("graylog.enabled") {
		return nil
	}
	w, err := logging.NewGelfWriter(config.GetString("graylog.address"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Graylog unavailable, continuing without it: %v\n", err)
		return nil
	}
	return []io.Writer{w}
}
