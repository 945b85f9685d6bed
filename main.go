package main

import (
	"context"
	"log"

	"washpro-backend/controller"
	"washpro-backend/middleware"
	"washpro-backend/models"
	"washpro-backend/utils"
	"washpro-backend/utils/logger"
	"washpro-backend/worker"

	"github.com/gin-gonic/gin"
)

var config *models.Config

func Init() {
	var err error
	config, err = utils.GetConfig()
	if err != nil {
		log.Fatal(err)
	}
}

// @title WashPro Backend API
// @version 1.0
// @description Vehicle wash and detailing backend: bookings, job card lifecycle, invoicing.
// @description
// @description ## Authentication
// @description Register a staff account with **POST /auth/register**, then log in with
// @description **POST /auth/login** to receive a Bearer token. All other endpoints require
// @description the `Authorization: Bearer <token>` header. The token carries the org scope;
// @description every query is limited to the caller's org.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8082
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Enter 'Bearer' [space] and then your token.
func main() {
	Init()

	ctx := context.Background()
	appLogger := logger.NewLogger(config.LogLevel, config.LogFormat)
	appLogger.Infof("Config loaded for %s (%s)", config.AppName, config.AppEnv)

	r := gin.New()
	logging := middleware.NewLoggingMiddleware(appLogger)
	r.Use(logging.Recovery())
	r.Use(logging.StructuredLogger())
	r.Use(middleware.NewCORSMiddleware(config).CORS())

	c := controller.NewController(ctx, config, appLogger)

	// Start server (blocking call, run in background)
	go func() {
		if err := c.RegisterRoutes(ctx, config, r, config.BasePath); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	// Background worker: table setup and the booking consistency sweep
	bgWorker, err := worker.NewService(ctx, config, logger.NewLogger(config.LogLevel, config.LogFormat))
	if err != nil {
		log.Fatalf("Failed to create worker: %v", err)
	}
	if err := bgWorker.StartInBackground(); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	select {}
}
