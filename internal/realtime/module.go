package realtime

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/swiftdrop/swiftdrop/internal/config"
	"github.com/swiftdrop/swiftdrop/internal/usecase"
)

// Module wires the event hub and its lifecycle.
var Module = fx.Options(
	fx.Provide(newHub),
	fx.Provide(func(h *Hub) usecase.EventPublisher { return h }),
	fx.Invoke(registerLifecycle),
)

type hubParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newHub(p hubParams) *Hub {
	return NewHub(p.Config.EventBufferSize, p.Config.ObserverBuffer, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, hub *Hub) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			hub.Start(context.WithoutCancel(ctx))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			hub.Stop()
			return nil
		},
	})
}
