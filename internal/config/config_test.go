package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marisim.cfg.json"), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"sim": { "case": 7, "dt": 0.05 },
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`)

	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, 7, viper.GetInt("sim.case"))
	assert.Equal(t, 0.05, viper.GetFloat64("sim.dt"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./marisimlogs", viper.GetString("logsDir"))
	assert.Equal(t, 3, viper.GetInt("sim.case"))
	assert.Equal(t, 0.1, viper.GetFloat64("sim.dt"))
	assert.Equal(t, 450.0, viper.GetFloat64("sim.simTime"))
	assert.Equal(t, 43.3, viper.GetFloat64("sim.speedCommand"))
	assert.Equal(t, 200, viper.GetInt("sim.decisionEvery"))
	assert.Equal(t, "none", viper.GetString("decision.provider"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, "./runs", viper.GetString("storage.memory.outputDir"))
	assert.Equal(t, true, viper.GetBool("storage.memory.compressOutput"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
	assert.Equal(t, "marisim", viper.GetString("otel.serviceName"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetSimConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"sim": { "case": 12, "dt": 0.2, "simTime": 900, "decisionEvery": 100, "decisionTimeout": "3s" }
	}`)
	require.NoError(t, Load(dir))

	cfg := GetSimConfig()
	assert.Equal(t, 12, cfg.Case)
	assert.Equal(t, 0.2, cfg.Dt)
	assert.Equal(t, 900.0, cfg.SimTime)
	assert.Equal(t, 100, cfg.DecisionEvery)
	assert.Equal(t, 3*time.Second, cfg.DecisionTimeout)
	assert.Equal(t, 43.3, cfg.SpeedCommand)
}

func TestGetVesselAndController_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	p := GetVesselParams()
	assert.Equal(t, 100.0, p.InertiaZ)
	assert.Equal(t, 20.0, p.YawDamp)
	assert.Equal(t, 10.0, p.SurgeTime)

	c := GetControllerConfig()
	assert.Equal(t, 4.0, c.Kp)
	assert.Equal(t, 0.02, c.Ki)
	assert.Equal(t, 16.0, c.Kd)
}

func TestGetAvoidanceConfig_SigmaInRadians(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{"avoidance": {"sigmaDeg": 90}}`)))

	cfg := GetAvoidanceConfig()
	assert.InDelta(t, 1.5707963, cfg.Sigma, 1e-6)
	assert.Equal(t, 600.0, cfg.NearRadius)
	assert.Equal(t, 1200.0, cfg.FarRadius)
}

func TestGetRiskThresholds_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	th := GetRiskThresholds()
	assert.Equal(t, 443.0, th.DCPANear)
	assert.Equal(t, 926.0, th.DCPAFar)
	assert.Equal(t, 180.0, th.TCPANear)
	assert.Equal(t, 360.0, th.TCPAFar)
	assert.Equal(t, 148.16, th.DistNear)
	assert.Equal(t, 463.0, th.DistFar)
}

func TestGetRoute(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{"route": [{"x": 1000, "y": 0}, {"x": 2000, "y": 500}]}`)
	require.NoError(t, Load(dir))

	route, err := GetRoute()
	require.NoError(t, err)
	require.Len(t, route, 2)
	assert.Equal(t, 1000.0, route[0].X)
	assert.Equal(t, 500.0, route[1].Y)
}

func TestGetRoute_Default(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	route, err := GetRoute()
	require.NoError(t, err)
	require.Len(t, route, 1)
	assert.Equal(t, 40*1852.0, route[0].X)
}

func TestGetDecisionConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"decision": { "provider": "openai", "apiKey": "sk-test", "maxTokens": 80, "timeout": "5s" }
	}`)
	require.NoError(t, Load(dir))

	cfg := GetDecisionConfig()
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, 80, cfg.MaxTokens)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"storage": {
			"type": "sqlite",
			"memory": { "outputDir": "/tmp/out", "compressOutput": false },
			"sqlite": { "dumpInterval": "10m" }
		}
	}`)
	require.NoError(t, Load(dir))

	sc := GetStorageConfig()
	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, "/tmp/out", sc.Memory.OutputDir)
	assert.Equal(t, false, sc.Memory.CompressOutput)
	assert.Equal(t, 10*time.Minute, sc.SQLite.DumpInterval)
}

func TestGetOTelConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"otel": {
			"enabled": true,
			"serviceName": "my-service",
			"batchTimeout": "30s",
			"endpoint": "localhost:4317",
			"insecure": false
		}
	}`)
	require.NoError(t, Load(dir))

	oc := GetOTelConfig()
	assert.Equal(t, true, oc.Enabled)
	assert.Equal(t, "my-service", oc.ServiceName)
	assert.Equal(t, 30*time.Second, oc.BatchTimeout)
	assert.Equal(t, "localhost:4317", oc.Endpoint)
	assert.Equal(t, false, oc.Insecure)
}
