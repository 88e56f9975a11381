package app

import (
	"context"

	"github.com/appetiteclub/apt"
	aptevents "github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/apt/middleware"
	"github.com/appetiteclub/kds/internal/events"
	"github.com/appetiteclub/kds/internal/kds"
	"github.com/appetiteclub/kds/internal/pos"
	"github.com/appetiteclub/kds/pkg"
)

const (
	AppName    = "kds"
	AppVersion = "0.1.0"
)

// App encapsulates the KDS display service.
type App struct {
	config *apt.Config
	logger apt.Logger
	micro  *apt.Micro
}

func New(config *apt.Config, logger apt.Logger) (*App, error) {
	return &App{
		config: config,
		logger: logger,
	}, nil
}

// Initialize sets up the POS client, NATS, the board sync engine and the
// HTTP surface.
func (a *App) Initialize(ctx context.Context) error {
	var posClient kds.POSClient
	demoEnabled, _ := a.config.GetString("demo.enabled")
	if demoEnabled == "true" {
		a.logger.Info("demo mode enabled, using in-process POS")
		posClient = pos.NewDemoClient()
	} else {
		posURL := a.config.GetStringOrDef("pos.url", "http://localhost:8090")
		posClient = pos.NewHTTPClient(posURL)
	}

	natsURL := a.config.GetStringOrDef("nats.url", "nats://localhost:4222")

	var publisher aptevents.Publisher
	natsPublisher, err := pkg.NewNATSPublisher(natsURL)
	if err != nil {
		// Downstream fan-out is best-effort; the board works without it.
		a.logger.Info("NATS publisher unavailable, board events disabled", "error", err)
	} else {
		publisher = natsPublisher
	}

	board := kds.NewBoard()
	clock := kds.NewClock()
	syncer := kds.NewSyncer(board, posClient, publisher, a.logger)

	lifecycles := []interface{}{
		apt.LifecycleHooks{
			OnStart: clock.Start,
			OnStop:  clock.Stop,
		},
		apt.LifecycleHooks{
			OnStart: syncer.Start,
			OnStop:  syncer.Stop,
		},
	}

	natsSubscriber, err := pkg.NewNATSSubscriber(natsURL)
	if err != nil {
		a.logger.Info("NATS subscriber unavailable, relying on polling only", "error", err)
	} else {
		topic := a.config.GetStringOrDef("pos.topic", "pos.tickets")
		changeSubscriber := events.NewChangeSubscriber(natsSubscriber, syncer, topic, a.logger)
		lifecycles = append(lifecycles, changeSubscriber)
		lifecycles = append(lifecycles, apt.LifecycleHooks{
			OnStop: func(context.Context) error { return natsSubscriber.Close() },
		})
	}
	if natsPublisher != nil {
		lifecycles = append(lifecycles, apt.LifecycleHooks{
			OnStop: func(context.Context) error { return natsPublisher.Close() },
		})
	}

	handler := kds.NewHandler(kds.HandlerDeps{
		Board:  board,
		Clock:  clock,
		Client: posClient,
		Syncer: syncer,
	}, a.config, a.logger)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      a.logger,
		DisableCORS: true,
	})
	stack = append(stack, middleware.InternalOnly())

	options := []apt.Option{
		apt.WithConfig(a.config),
		apt.WithLogger(a.logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", handler),
		apt.WithLifecycle(lifecycles...),
		apt.WithHealthChecks(AppName),
	}

	a.micro = apt.NewMicro(options...)
	return nil
}

// Run starts the application.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("Starting %s(%s)", AppName, AppVersion)
	if err := a.micro.Run(ctx); err != nil {
		return err
	}
	a.logger.Infof("%s(%s) stopped", AppName, AppVersion)
	return nil
}
