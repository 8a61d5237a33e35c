package di

import (
	"go.uber.org/fx"

	"github.com/telemart/storefront/internal/adapter/telegram"
	"github.com/telemart/storefront/internal/app"
	"github.com/telemart/storefront/internal/config"
	"github.com/telemart/storefront/internal/logger"
	"github.com/telemart/storefront/internal/pkg/initdata"
	"github.com/telemart/storefront/internal/server/http/handlers"
	"github.com/telemart/storefront/internal/server/http/middleware"
	"github.com/telemart/storefront/internal/server/http/router"
	"github.com/telemart/storefront/internal/storage/postgres"
	"github.com/telemart/storefront/internal/usecase"
	"github.com/telemart/storefront/internal/worker"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		initdata.Module,
		postgres.Module,
		telegram.Module,
		usecase.Module,
		fx.Provide(
			func(d *worker.Dispatcher) usecase.NotificationDispatcher { return d },
			func(v *initdata.Verifier) middleware.IdentityVerifier { return v },
			func(f *app.StorefrontFacade) handlers.StorefrontFacade { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
