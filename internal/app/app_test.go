package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/sim"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/telemetry"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging/navigation"
	loggingSinks "github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging/sinks"
)

func env(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

type captureLogger struct{ lines []string }

func (l *captureLogger) Printf(format string, args ...any) {
	l.lines = append(l.lines, format)
}

func TestApplyEnv(t *testing.T) {
	logger := &captureLogger{}
	cfg := ApplyEnv(DefaultConfig(), env(map[string]string{
		EnvAddr:     ":9090",
		EnvTickRate: "30",
		EnvMap:      " maps/farm.yaml ",
		EnvSeed:     "spring-1",
		EnvLogSinks: "console, memory",
		EnvLogJSON:  "/tmp/events.jsonl",
		EnvLogLevel: "debug",
	}), logger)

	if cfg.Addr != ":9090" || cfg.Loop.TickRate != 30 || cfg.MapPath != "maps/farm.yaml" || cfg.Farm.Seed != "spring-1" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	want := []string{"console", "memory", "json"}
	if strings.Join(cfg.Logging.EnabledSinks, ",") != strings.Join(want, ",") {
		t.Fatalf("expected sinks %v, got %v", want, cfg.Logging.EnabledSinks)
	}
	if cfg.Logging.JSON.FilePath != "/tmp/events.jsonl" {
		t.Fatalf("expected json path, got %q", cfg.Logging.JSON.FilePath)
	}
	if cfg.Logging.MinimumSeverity != logging.SeverityDebug || !cfg.Logging.Console.ShowDebug {
		t.Fatalf("expected debug logging")
	}
	if len(logger.lines) != 0 {
		t.Fatalf("expected no warnings, got %v", logger.lines)
	}
}

func TestApplyEnvIgnoresInvalidValues(t *testing.T) {
	logger := &captureLogger{}
	def := DefaultConfig()
	cfg := ApplyEnv(def, env(map[string]string{
		EnvTickRate: "fast",
		EnvLogLevel: "loud",
	}), logger)
	if cfg.Loop.TickRate != def.Loop.TickRate || cfg.Logging.MinimumSeverity != def.Logging.MinimumSeverity {
		t.Fatalf("expected invalid values to be ignored")
	}
	if len(logger.lines) != 2 {
		t.Fatalf("expected 2 warnings, got %v", logger.lines)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	data := `
addr: ":7000"
tickRate: 20
seed: autumn
farm:
  cols: 30
  hostiles: 0
logging:
  sinks: [memory]
  level: warn
controller:
  holdThresholdMs: 500
  maxAttempts: 3
  autoAttack: false
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := ResolveConfig(DefaultConfig(), env(map[string]string{EnvConfig: path, EnvAddr: ":7001"}), nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Addr != ":7001" {
		t.Fatalf("expected the environment to win over the file, got %q", cfg.Addr)
	}
	if cfg.Loop.TickRate != 20 || cfg.Farm.Seed != "autumn" || cfg.Farm.Cols != 30 || cfg.Farm.Hostiles != 0 {
		t.Fatalf("unexpected file values %+v", cfg)
	}
	if len(cfg.Logging.EnabledSinks) != 1 || cfg.Logging.EnabledSinks[0] != "memory" || cfg.Logging.MinimumSeverity != logging.SeverityWarn {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
	if cfg.Controller.HoldThreshold != 500*time.Millisecond || cfg.Controller.MaxAttempts != 3 || cfg.Controller.AutoAttack {
		t.Fatalf("unexpected controller config %+v", cfg.Controller)
	}

	if err := os.WriteFile(path, []byte("logging:\n  level: chatty\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(path, DefaultConfig()); err == nil {
		t.Fatalf("expected an unknown level to fail")
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.yaml"), DefaultConfig()); err == nil {
		t.Fatalf("expected a missing file to fail")
	}
}

func memoryConfig() Config {
	cfg := DefaultConfig()
	cfg.Logger = telemetry.LoggerFunc(func(string, ...any) {})
	cfg.Logging.EnabledSinks = []string{"memory"}
	return cfg
}

func TestBuildGeneratedFarm(t *testing.T) {
	srv, err := Build(memoryConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(func() { srv.Close(context.Background()) })

	if names := srv.Registry.Names(); len(names) != 1 || names[0] != "Farm" {
		t.Fatalf("expected the generated farm, got %v", names)
	}
	resp := httptest.NewRecorder()
	srv.Handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected health to answer, got %d", resp.Code)
	}
}

func TestBuildFromMapFilePublishesEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yard.yaml")
	data := `
name: Yard
rows:
  - "......"
  - "......"
  - "......"
character:
  x: 0
  y: 1
  inventory:
    - {name: Parsnip}
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}
	cfg := memoryConfig()
	cfg.MapPath = path
	srv, err := Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	target := world.Tile{X: 4, Y: 1}.Center()
	if ok, reason := srv.Loop.Enqueue(sim.Command{Type: sim.CommandClick, Pointer: &sim.PointerCommand{X: target.X, Y: target.Y}}); !ok {
		t.Fatalf("expected the click to be staged, got %s", reason)
	}
	result := srv.Loop.Advance(context.Background(), sim.LoopTickContext{Tick: 1, Now: time.Now(), Delta: 1.0 / 60})
	if len(result.Snapshot.Characters) != 1 || result.Snapshot.Characters[0].Location != "Yard" {
		t.Fatalf("unexpected snapshot %+v", result.Snapshot)
	}

	if err := srv.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	memory, ok := srv.Router.Sink("memory").(*loggingSinks.MemorySink)
	if !ok {
		t.Fatalf("expected the memory sink to be registered")
	}
	events := memory.OfType(navigation.EventPathComputed)
	if len(events) != 1 {
		t.Fatalf("expected one path_computed event, got %d", len(events))
	}
	if events[0].Extra["service"] != "clicktomove" || events[0].Extra["location"] != "Yard" {
		t.Fatalf("expected router and location fields, got %v", events[0].Extra)
	}
}

func TestBuildErrors(t *testing.T) {
	cfg := memoryConfig()
	cfg.Logging.EnabledSinks = []string{"carrier-pigeon"}
	if _, err := Build(cfg); err == nil {
		t.Fatalf("expected an unknown sink to fail")
	}

	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("name: Void\nrows: [\"...\"]\n"), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}
	cfg = memoryConfig()
	cfg.MapPath = path
	if _, err := Build(cfg); err == nil {
		t.Fatalf("expected a map without a character to fail")
	}
}
