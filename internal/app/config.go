package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/controller"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/mapgen"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/sim"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/telemetry"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfig   = "CLICKTOMOVE_CONFIG"
	EnvAddr     = "CLICKTOMOVE_ADDR"
	EnvTickRate = "CLICKTOMOVE_TICK_RATE"
	EnvMap      = "CLICKTOMOVE_MAP"
	EnvSeed     = "CLICKTOMOVE_SEED"
	EnvLogSinks = "CLICKTOMOVE_LOG_SINKS"
	EnvLogJSON  = "CLICKTOMOVE_LOG_JSON"
	EnvLogLevel = "CLICKTOMOVE_LOG_LEVEL"
)

// Config assembles the demo server.
type Config struct {
	Logger telemetry.Logger

	Addr string
	// MapPath selects a YAML map; empty generates a farm.
	MapPath    string
	Farm       mapgen.Config
	Loop       sim.LoopConfig
	Controller controller.Config
	Logging    logging.Config
}

// DefaultConfig serves a generated farm on :8080.
func DefaultConfig() Config {
	logCfg := logging.DefaultConfig()
	logCfg.Fields = map[string]any{"service": "clicktomove"}
	return Config{
		Addr:       ":8080",
		Farm:       mapgen.DefaultConfig(),
		Loop:       sim.DefaultLoopConfig(),
		Controller: controller.DefaultConfig(),
		Logging:    logCfg,
	}
}

// fileConfig is the YAML layout of an optional config file.
type fileConfig struct {
	Addr       string         `yaml:"addr"`
	TickRate   int            `yaml:"tickRate"`
	Map        string         `yaml:"map"`
	Seed       string         `yaml:"seed"`
	Farm       fileFarm       `yaml:"farm"`
	Logging    fileLogging    `yaml:"logging"`
	Controller fileController `yaml:"controller"`
}

type fileFarm struct {
	Cols     int  `yaml:"cols"`
	Rows     int  `yaml:"rows"`
	Hostiles *int `yaml:"hostiles"`
}

type fileLogging struct {
	Sinks    []string `yaml:"sinks"`
	JSONPath string   `yaml:"json"`
	Level    string   `yaml:"level"`
}

type fileController struct {
	HoldThresholdMs int   `yaml:"holdThresholdMs"`
	StuckCorrect    int   `yaml:"stuckCorrect"`
	StuckGiveUp     int   `yaml:"stuckGiveUp"`
	MaxAttempts     int   `yaml:"maxAttempts"`
	AutoAttack      *bool `yaml:"autoAttack"`
}

// LoadFile merges a YAML config file over cfg. Absent keys keep their value.
func LoadFile(path string, cfg Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if file.Addr != "" {
		cfg.Addr = file.Addr
	}
	if file.TickRate > 0 {
		cfg.Loop.TickRate = file.TickRate
	}
	if file.Map != "" {
		cfg.MapPath = file.Map
	}
	if file.Seed != "" {
		cfg.Farm.Seed = file.Seed
	}
	if file.Farm.Cols > 0 {
		cfg.Farm.Cols = file.Farm.Cols
	}
	if file.Farm.Rows > 0 {
		cfg.Farm.Rows = file.Farm.Rows
	}
	if file.Farm.Hostiles != nil {
		cfg.Farm.Hostiles = *file.Farm.Hostiles
	}
	if len(file.Logging.Sinks) > 0 {
		cfg.Logging.EnabledSinks = logging.ParseSinks(strings.Join(file.Logging.Sinks, ","))
	}
	if file.Logging.JSONPath != "" {
		cfg.Logging.JSON.FilePath = file.Logging.JSONPath
	}
	if file.Logging.Level != "" {
		severity, ok := logging.ParseSeverity(file.Logging.Level)
		if !ok {
			return cfg, fmt.Errorf("parse config %s: unknown log level %q", path, file.Logging.Level)
		}
		cfg.Logging.MinimumSeverity = severity
	}
	ctrl := file.Controller
	if ctrl.HoldThresholdMs > 0 {
		cfg.Controller.HoldThreshold = time.Duration(ctrl.HoldThresholdMs) * time.Millisecond
	}
	if ctrl.StuckCorrect > 0 {
		cfg.Controller.StuckCorrectThreshold = ctrl.StuckCorrect
	}
	if ctrl.StuckGiveUp > 0 {
		cfg.Controller.StuckGiveUpThreshold = ctrl.StuckGiveUp
	}
	if ctrl.MaxAttempts > 0 {
		cfg.Controller.MaxAttempts = ctrl.MaxAttempts
	}
	if ctrl.AutoAttack != nil {
		cfg.Controller.AutoAttack = *ctrl.AutoAttack
	}
	return cfg, nil
}

// ApplyEnv applies environment overrides. Invalid values are logged and
// ignored.
func ApplyEnv(cfg Config, lookup func(string) (string, bool), logger telemetry.Logger) Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if logger == nil {
		logger = telemetry.WrapLogger(nil)
	}
	if raw, ok := lookup(EnvAddr); ok && raw != "" {
		cfg.Addr = raw
	}
	if raw, ok := lookup(EnvTickRate); ok && raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.Loop.TickRate = value
		} else {
			logger.Printf("invalid %s=%q: expected a positive integer", EnvTickRate, raw)
		}
	}
	if raw, ok := lookup(EnvMap); ok {
		cfg.MapPath = strings.TrimSpace(raw)
	}
	if raw, ok := lookup(EnvSeed); ok && raw != "" {
		cfg.Farm.Seed = raw
	}
	if raw, ok := lookup(EnvLogSinks); ok && raw != "" {
		cfg.Logging.EnabledSinks = logging.ParseSinks(raw)
	}
	if raw, ok := lookup(EnvLogJSON); ok && raw != "" {
		cfg.Logging.JSON.FilePath = raw
		if !cfg.Logging.HasSink(logging.SinkJSON) {
			cfg.Logging.EnabledSinks = append(cfg.Logging.EnabledSinks, logging.SinkJSON)
		}
	}
	if raw, ok := lookup(EnvLogLevel); ok && raw != "" {
		if severity, ok := logging.ParseSeverity(raw); ok {
			cfg.Logging.MinimumSeverity = severity
			cfg.Logging.Console.ShowDebug = severity == logging.SeverityDebug
		} else {
			logger.Printf("invalid %s=%q", EnvLogLevel, raw)
		}
	}
	return cfg
}

// ResolveConfig loads the optional config file named by the environment and
// then applies the remaining environment overrides.
func ResolveConfig(cfg Config, lookup func(string) (string, bool), logger telemetry.Logger) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if path, ok := lookup(EnvConfig); ok && path != "" {
		loaded, err := LoadFile(path, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	return ApplyEnv(cfg, lookup, logger), nil
}
