package availability

import (
	"github.com/villagambera/channelbridge/internal/availability/service"
	"github.com/villagambera/channelbridge/internal/beds24"
	"github.com/villagambera/channelbridge/internal/cache"
	"go.uber.org/fx"
)

var Module = fx.Module("availability",
	cache.Module,
	fx.Provide(
		func(c *beds24.Client) service.RoomDates { return c },
		service.NewService,
	),
)
