package di

import (
	"go.uber.org/fx"

	"github.com/swiftdrop/swiftdrop/internal/app"
	"github.com/swiftdrop/swiftdrop/internal/config"
	"github.com/swiftdrop/swiftdrop/internal/logger"
	"github.com/swiftdrop/swiftdrop/internal/pkg/auth"
	"github.com/swiftdrop/swiftdrop/internal/realtime"
	"github.com/swiftdrop/swiftdrop/internal/server/http/router"
	"github.com/swiftdrop/swiftdrop/internal/storage/postgres"
	"github.com/swiftdrop/swiftdrop/internal/usecase"
)

// Module assembles the full application graph. Extra options let tests
// swap providers without touching the default wiring.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		realtime.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
