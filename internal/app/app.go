// Package app wires the demo server: logging, world, controllers, tick loop
// and HTTP surface.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/controller"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/mapgen"
	servernet "github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/net"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/net/proto"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/net/ws"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/sim"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/telemetry"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging"
	loggingSinks "github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging/sinks"
)

// Server is the assembled demo host.
type Server struct {
	Config   Config
	Logger   telemetry.Logger
	Router   *logging.Router
	Counters *telemetry.Counters
	World    *world.MemoryWorld
	Walker   *world.Walker
	Registry *controller.Registry
	Loop     *sim.Loop
	Sockets  *ws.Handler
	Handler  http.Handler
}

// Build assembles a server without starting it.
func Build(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}

	namedSinks, err := buildSinks(cfg.Logging)
	if err != nil {
		return nil, err
	}
	router, err := logging.NewRouter(logging.SystemClock, cfg.Logging, namedSinks)
	if err != nil {
		return nil, fmt.Errorf("failed to construct logging router: %w", err)
	}

	w, character, err := loadWorld(cfg)
	if err != nil {
		router.Close(context.Background())
		return nil, err
	}
	walker := world.NewWalker(w, character)
	w.Attach(character.ID, walker)

	counters := telemetry.NewCounters()
	registry := controller.NewRegistry(cfg.Controller, router, counters)
	registry.Create(w, walker, nil)

	srv := &Server{
		Config:   cfg,
		Logger:   logger,
		Router:   router,
		Counters: counters,
		World:    w,
		Walker:   walker,
		Registry: registry,
	}
	srv.Loop = sim.NewLoop(cfg.Loop, sim.LoopDeps{
		Registry: registry,
		Clock:    logging.SystemClock,
		Logger:   logger,
		Metrics:  counters,
	}, sim.LoopHooks{
		AfterStep: func(result sim.LoopStepResult) {
			srv.Sockets.Broadcast(result.Snapshot)
		},
	})
	srv.Loop.AddBody(w.Name(), walker)

	cols, rows := w.Size()
	srv.Sockets = ws.NewHandler(srv.Loop, ws.HandlerConfig{
		Logger:   logger,
		Metrics:  counters,
		TickRate: srv.Loop.Config().TickRate,
		Map:      proto.MapInfo{Name: w.Name(), Cols: cols, Rows: rows, TileSize: world.TileSize},
	})
	srv.Handler = servernet.NewHTTPHandler(servernet.HTTPHandlerConfig{
		Sockets:     srv.Sockets,
		Counters:    counters,
		RouterStats: router.Stats,
		Locations:   srv.Loop.Locations,
		TickRate:    srv.Loop.Config().TickRate,
		Logger:      logger,
	})
	return srv, nil
}

func buildSinks(cfg logging.Config) ([]logging.NamedSink, error) {
	var named []logging.NamedSink
	for _, name := range cfg.EnabledSinks {
		switch name {
		case logging.SinkConsole:
			named = append(named, logging.NamedSink{Name: name, Sink: loggingSinks.NewConsoleSink(os.Stdout, cfg.Console)})
		case logging.SinkJSON:
			if cfg.JSON.FilePath == "" {
				named = append(named, logging.NamedSink{Name: name, Sink: loggingSinks.NewJSON(os.Stdout, cfg.JSON.FlushInterval)})
				continue
			}
			sink, err := loggingSinks.NewJSONFile(cfg.JSON.FilePath, cfg.JSON.FlushInterval)
			if err != nil {
				return nil, err
			}
			named = append(named, logging.NamedSink{Name: name, Sink: sink})
		case logging.SinkMemory:
			named = append(named, logging.NamedSink{Name: name, Sink: loggingSinks.NewMemorySink()})
		default:
			return nil, fmt.Errorf("unknown log sink %q", name)
		}
	}
	return named, nil
}

func loadWorld(cfg Config) (*world.MemoryWorld, world.Character, error) {
	if cfg.MapPath == "" {
		w, character := mapgen.Generate(cfg.Farm)
		return w, character, nil
	}
	w, character, err := world.LoadMapFile(cfg.MapPath)
	if err != nil {
		return nil, world.Character{}, fmt.Errorf("load map: %w", err)
	}
	if character == nil {
		return nil, world.Character{}, fmt.Errorf("load map %s: no character placed", cfg.MapPath)
	}
	return w, *character, nil
}

// Close flushes the logging router.
func (s *Server) Close(ctx context.Context) error {
	return s.Router.Close(ctx)
}

// Run serves until ctx is cancelled or the listener fails.
func Run(ctx context.Context, cfg Config) error {
	srv, err := Build(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := srv.Close(context.Background()); cerr != nil {
			srv.Logger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go srv.Loop.Run(ctx)

	httpServer := &http.Server{Addr: cfg.Addr, Handler: srv.Handler}
	errs := make(chan error, 1)
	go func() {
		errs <- httpServer.ListenAndServe()
	}()
	srv.Logger.Printf("server listening on %s (map %s)", httpServer.Addr, srv.World.Name())

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		if err := httpServer.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
