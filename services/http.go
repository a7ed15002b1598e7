package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	docs "github.com/quokit/waitlist_api/docs"
	"github.com/quokit/waitlist_api/middleware"
	"github.com/quokit/waitlist_api/services/handlers"
	"github.com/quokit/waitlist_api/shared"
)

type HttpService struct {
	context.DefaultService

	waitlistSvc   *WaitlistService
	postgresSvc   *PostgresService
	metricsSvc    *NetworkMetricsService
	monitoringSvc *MonitoringService
	gatewaySvc    *middleware.GatewayRateLimit

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.waitlistSvc = svc.Service(WAITLIST_SVC).(*WaitlistService)
	svc.postgresSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.metricsSvc = svc.Service(NETWORK_METRICS_SVC).(*NetworkMetricsService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	svc.gatewaySvc = svc.Service(middleware.GATEWAY_RATE_LIMIT_SVC).(*middleware.GatewayRateLimit)

	docs.SwaggerInfo.BasePath = ""

	app := fiber.New(fiber.Config{
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: svc.handleError,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, User-Agent",
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))
	app.Use(svc.gatewaySvc.Handler())

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", fiberSwagger.HandlerDefault)

	waitlistHandler := handlers.NewWaitlistHandler(svc.waitlistSvc, svc.monitoringSvc)
	statsHandler := handlers.NewStatsHandler(svc.postgresSvc)
	metricsHandler := handlers.NewMetricsHandler(svc.metricsSvc)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)
	v1.Post("/waitlist", waitlistHandler.Submit)
	v1.Get("/waitlist/stats", statsHandler.GetStats)
	v1.Get("/metrics/:network", metricsHandler.GetNetworkMetrics)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	svc.server = app

	log.Printf("HTTP server listening on :%d", svc.port)
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).Error("Unhandled request error")
	return shared.ResponseInternalError(c, err)
}
