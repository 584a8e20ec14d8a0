package beds24

import "go.uber.org/fx"

var Module = fx.Module("beds24",
	fx.Provide(NewClient),
)
