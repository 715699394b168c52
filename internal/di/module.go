package di

import (
	"github.com/polkiloo/profilehub/internal/app"
	"github.com/polkiloo/profilehub/internal/config"
	"github.com/polkiloo/profilehub/internal/logger"
	"github.com/polkiloo/profilehub/internal/pkg/auth"
	"github.com/polkiloo/profilehub/internal/server/http/handlers"
	"github.com/polkiloo/profilehub/internal/server/http/router"
	"github.com/polkiloo/profilehub/internal/storage"
	"github.com/polkiloo/profilehub/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	return compose(fx.Options(config.Module, logger.Module, storage.Module), opts...)
}

// compose assembles the graph on top of infra, which supplies configuration,
// the logger and storage.
func compose(infra fx.Option, opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		infra,
		auth.Module,
		usecase.Module,
		fx.Provide(func(f *app.OnboardingFacade) handlers.OnboardingFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
