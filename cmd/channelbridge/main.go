package main

import (
	"github.com/villagambera/channelbridge/internal/clock"
	"github.com/villagambera/channelbridge/internal/config"
	"github.com/villagambera/channelbridge/internal/observability"
	"github.com/villagambera/channelbridge/internal/server"
	"github.com/villagambera/channelbridge/pkg/redisclient"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		clock.Module,
		redisclient.Module,
		server.Module,

		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
	)
	app.Run()
}
