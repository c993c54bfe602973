package config

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/viper"

	"github.com/marisim/marisim/internal/avoidance"
	"github.com/marisim/marisim/internal/decision"
	"github.com/marisim/marisim/internal/dynamics"
	"github.com/marisim/marisim/internal/model/core"
	"github.com/marisim/marisim/internal/risk"
	"github.com/marisim/marisim/internal/sim"
)

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds the in-memory sqlite backend settings.
type SQLiteConfig struct {
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
	DumpDir      string        `json:"dumpDir" mapstructure:"dumpDir"`
}

// StorageConfig selects and configures the run storage backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// OTelConfig holds the OpenTelemetry export settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./marisimlogs")

	viper.SetDefault("sim.case", 3)
	viper.SetDefault("sim.dt", 0.1)
	viper.SetDefault("sim.simTime", 450.0)
	viper.SetDefault("sim.speedCommand", 43.3)
	viper.SetDefault("sim.satAmp", 20.0)
	viper.SetDefault("sim.arrivalRadius", 500.0)
	viper.SetDefault("sim.decisionEvery", 200)
	viper.SetDefault("sim.decisionTimeout", "10s")

	viper.SetDefault("vessel.inertiaZ", 100.0)
	viper.SetDefault("vessel.yawDamp", 20.0)
	viper.SetDefault("vessel.swayTime", 5.0)
	viper.SetDefault("vessel.swayCoup", 0.35)
	viper.SetDefault("vessel.surgeTime", 10.0)

	viper.SetDefault("controller.kp", 4.0)
	viper.SetDefault("controller.ki", 0.02)
	viper.SetDefault("controller.kd", 16.0)

	viper.SetDefault("avoidance.nearRadius", 600.0)
	viper.SetDefault("avoidance.farRadius", 1200.0)
	viper.SetDefault("avoidance.sigmaDeg", 80.0)

	viper.SetDefault("risk.dcpaNear", 443.0)
	viper.SetDefault("risk.dcpaFar", 926.0)
	viper.SetDefault("risk.tcpaNear", 180.0)
	viper.SetDefault("risk.tcpaFar", 360.0)
	viper.SetDefault("risk.distNear", 148.16)
	viper.SetDefault("risk.distFar", 463.0)

	viper.SetDefault("route", []map[string]float64{{"x": 40 * 1852, "y": 0}})

	viper.SetDefault("decision.provider", "none")
	viper.SetDefault("decision.apiKey", "")
	viper.SetDefault("decision.baseUrl", "")
	viper.SetDefault("decision.model", "")
	viper.SetDefault("decision.temperature", 0.0)
	viper.SetDefault("decision.maxTokens", 50)
	viper.SetDefault("decision.timeout", "10s")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./runs")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")
	viper.SetDefault("storage.sqlite.dumpDir", "./runs")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "marisim")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "marisim-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "marisim")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("geo.originLon", 0.0)
	viper.SetDefault("geo.originLat", 0.0)

	viper.SetConfigName("marisim.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetSimConfig returns the loop settings.
func GetSimConfig() sim.Config {
	return sim.Config{
		Case:            viper.GetInt("sim.case"),
		Dt:              viper.GetFloat64("sim.dt"),
		SimTime:         viper.GetFloat64("sim.simTime"),
		SpeedCommand:    viper.GetFloat64("sim.speedCommand"),
		SatAmp:          viper.GetFloat64("sim.satAmp"),
		ArrivalRadius:   viper.GetFloat64("sim.arrivalRadius"),
		DecisionEvery:   viper.GetInt("sim.decisionEvery"),
		DecisionTimeout: viper.GetDuration("sim.decisionTimeout"),
	}
}

// GetVesselParams returns the vessel model constants.
func GetVesselParams() dynamics.Params {
	return dynamics.Params{
		InertiaZ:  viper.GetFloat64("vessel.inertiaZ"),
		YawDamp:   viper.GetFloat64("vessel.yawDamp"),
		SwayTime:  viper.GetFloat64("vessel.swayTime"),
		SwayCoup:  viper.GetFloat64("vessel.swayCoup"),
		SurgeTime: viper.GetFloat64("vessel.surgeTime"),
	}
}

// GetControllerConfig returns the heading loop gains.
func GetControllerConfig() dynamics.ControllerConfig {
	return dynamics.ControllerConfig{
		Kp: viper.GetFloat64("controller.kp"),
		Ki: viper.GetFloat64("controller.ki"),
		Kd: viper.GetFloat64("controller.kd"),
	}
}

// GetAvoidanceConfig returns the field shape. The bearing spread is
// configured in degrees and converted here.
func GetAvoidanceConfig() avoidance.Config {
	return avoidance.Config{
		NearRadius: viper.GetFloat64("avoidance.nearRadius"),
		FarRadius:  viper.GetFloat64("avoidance.farRadius"),
		Sigma:      viper.GetFloat64("avoidance.sigmaDeg") * math.Pi / 180,
	}
}

// GetRiskThresholds returns the Z-membership breakpoints.
func GetRiskThresholds() risk.Thresholds {
	return risk.Thresholds{
		DCPANear: viper.GetFloat64("risk.dcpaNear"),
		DCPAFar:  viper.GetFloat64("risk.dcpaFar"),
		TCPANear: viper.GetFloat64("risk.tcpaNear"),
		TCPAFar:  viper.GetFloat64("risk.tcpaFar"),
		DistNear: viper.GetFloat64("risk.distNear"),
		DistFar:  viper.GetFloat64("risk.distFar"),
	}
}

// GetRoute returns the waypoint route.
func GetRoute() ([]core.Waypoint, error) {
	var route []core.Waypoint
	if err := viper.UnmarshalKey("route", &route); err != nil {
		return nil, fmt.Errorf("error parsing route: %w", err)
	}
	return route, nil
}

// GetDecisionConfig returns the decision backend selection.
func GetDecisionConfig() decision.Config {
	return decision.Config{
		Provider:    viper.GetString("decision.provider"),
		APIKey:      viper.GetString("decision.apiKey"),
		BaseURL:     viper.GetString("decision.baseUrl"),
		Model:       viper.GetString("decision.model"),
		Temperature: viper.GetFloat64("decision.temperature"),
		MaxTokens:   viper.GetInt("decision.maxTokens"),
		Timeout:     viper.GetDuration("decision.timeout"),
	}
}

// GetStorageConfig returns the storage backend selection.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
			DumpDir:      viper.GetString("storage.sqlite.dumpDir"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry export settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}
