package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/villagambera/channelbridge/internal/availability"
	availabilitydomain "github.com/villagambera/channelbridge/internal/availability/domain"
	"github.com/villagambera/channelbridge/internal/beds24"
	"github.com/villagambera/channelbridge/internal/booking"
	bookingdomain "github.com/villagambera/channelbridge/internal/booking/domain"
	"github.com/villagambera/channelbridge/internal/catalog"
	"github.com/villagambera/channelbridge/internal/config"
	"github.com/villagambera/channelbridge/internal/observability"
	obsmiddleware "github.com/villagambera/channelbridge/internal/observability/logger"
	obsmetrics "github.com/villagambera/channelbridge/internal/observability/metrics"
	obstracing "github.com/villagambera/channelbridge/internal/observability/tracing"
	"github.com/villagambera/channelbridge/internal/ratelimit"
	"github.com/villagambera/channelbridge/internal/webhook"
	webhookdomain "github.com/villagambera/channelbridge/internal/webhook/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var Module = fx.Module("http.server",
	catalog.Module,
	beds24.Module,
	availability.Module,
	booking.Module,
	webhook.Module,
	ratelimit.Module,
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	catalog         *catalog.Holder
	availabilitySvc availabilitydomain.Service
	bookingSvc      bookingdomain.Service
	webhookSvc      webhookdomain.Service
	bookingLimiter  clientLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Catalog         *catalog.Holder
	AvailabilitySvc availabilitydomain.Service
	BookingSvc      bookingdomain.Service
	WebhookSvc      webhookdomain.Service
	BookingLimiter  *ratelimit.BookingLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		catalog:         p.Catalog,
		availabilitySvc: p.AvailabilitySvc,
		bookingSvc:      p.BookingSvc,
		webhookSvc:      p.WebhookSvc,
		bookingLimiter:  p.BookingLimiter,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/envtest", s.EnvTest)
	api.GET("/rooms", s.ListRooms)

	beds := api.Group("/beds24")
	{
		beds.GET("/room-dates", s.GetRoomDates)
		beds.POST("/create-booking", s.BookingRateLimit(), s.CreateBooking)

		beds.GET("/webhook", s.ReceiveWebhook)
		beds.POST("/webhook", s.ReceiveWebhook)
	}
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
