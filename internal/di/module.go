package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/eshop/internal/app"
	"github.com/polkiloo/eshop/internal/config"
	"github.com/polkiloo/eshop/internal/logger"
	"github.com/polkiloo/eshop/internal/pkg/auth"
	"github.com/polkiloo/eshop/internal/server/http/router"
	"github.com/polkiloo/eshop/internal/storage/postgres"
	"github.com/polkiloo/eshop/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
