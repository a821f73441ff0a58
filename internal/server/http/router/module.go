package router

import (
	"go.uber.org/fx"

	"github.com/polkiloo/eshop/internal/server/http/middleware"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(
	middleware.NewMetrics,
	Setup,
)
