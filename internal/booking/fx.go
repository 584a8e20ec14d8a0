package booking

import (
	"github.com/villagambera/channelbridge/internal/beds24"
	"github.com/villagambera/channelbridge/internal/booking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("booking",
	fx.Provide(
		func(c *beds24.Client) service.Submitter { return c },
		service.NewService,
	),
)
