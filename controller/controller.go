package controller

import (
	"context"
	"net/http"

	"washpro-backend/dal"
	"washpro-backend/middleware"
	"washpro-backend/models"
	"washpro-backend/repository"
	"washpro-backend/services"
	"washpro-backend/utils/logger"
	"washpro-backend/utils/swagger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	Booking  *BookingController
	JobCard  *JobCardController
	Invoice  *InvoiceController
	Customer *CustomerController
	Catalog  *CatalogController
	Staff    *StaffController
	Webhook  *WebhookController

	jwtManager *middleware.JWTManager
}

func NewController(ctx context.Context, cfg *models.Config, log logger.Logger) *Controller {
	dbclient, err := dal.NewDynamoDBClient(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize DynamoDB client: %v", err)
	}

	bookingRepo := repository.NewBookingRepository(dbclient, cfg, log)
	jobCardRepo := repository.NewJobCardRepository(dbclient, cfg, log)
	invoiceRepo := repository.NewInvoiceRepository(dbclient, cfg, log)
	customerRepo := repository.NewCustomerRepository(dbclient, cfg, log)
	vehicleRepo := repository.NewVehicleRepository(dbclient, cfg, log)
	serviceRepo := repository.NewServiceRepository(dbclient, cfg, log)
	userRepo := repository.NewUserRepository(dbclient, cfg, log)

	jwtManager := middleware.NewJWTManager(cfg, log, userRepo)

	catalog := services.NewLifecycleCatalog(serviceRepo, log)
	sync := services.NewSynchronizer(bookingRepo, jobCardRepo, log)
	bookingService := services.NewBookingService(bookingRepo, customerRepo, vehicleRepo, serviceRepo, sync, log)
	jobCardService := services.NewJobCardService(jobCardRepo, catalog, sync, log)
	invoiceService := services.NewInvoiceService(invoiceRepo, jobCardRepo, catalog, log)
	catalogService := services.NewCatalogService(serviceRepo, log)
	customerService := services.NewCustomerService(customerRepo, vehicleRepo, log)

	return &Controller{
		Booking:    NewBookingController(ctx, bookingService, log),
		JobCard:    NewJobCardController(ctx, jobCardService, log),
		Invoice:    NewInvoiceController(ctx, invoiceService, log),
		Customer:   NewCustomerController(ctx, customerService, log),
		Catalog:    NewCatalogController(ctx, catalogService, log),
		Staff:      NewStaffController(ctx, userRepo, log, jwtManager),
		Webhook:    NewWebhookController(ctx, cfg, bookingService, invoiceService, log),
		jwtManager: jwtManager,
	}
}

func (c *Controller) RegisterRoutes(ctx context.Context, config *models.Config, r *gin.Engine, basePath string) error {
	v1 := r.Group(basePath)
	auth := c.jwtManager.AuthMiddleware()

	// Health check endpoint (no auth required)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": config.AppVersion,
			"service": config.AppName,
		})
	})

	// Swagger UI
	swaggerConfig := swagger.SwaggerConfig{
		Title:         "WashPro Backend API",
		SwaggerDocURL: "/swagger/doc.json",
		AuthURL:       basePath + "/auth/login",
	}
	r.GET("/swagger", swagger.ServeCleanSwagger(swaggerConfig))
	r.GET("/swagger/", swagger.ServeCleanSwagger(swaggerConfig))
	r.GET("/swagger/index.html", swagger.ServeCleanSwagger(swaggerConfig))
	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.File("./docs/swagger.json")
	})

	// Staff auth
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", c.Staff.Register)
	authGroup.POST("/login", c.Staff.Login)
	authGroup.GET("/me", auth, c.Staff.GetProfile)

	// Bookings
	bookings := v1.Group("/bookings", auth)
	bookings.POST("", c.Booking.CreateBooking)
	bookings.GET("", c.Booking.GetBookings)
	bookings.GET("/:id", c.Booking.GetBooking)
	bookings.POST("/:id/confirm", c.Booking.ConfirmBooking)
	bookings.POST("/:id/cancel", c.Booking.CancelBooking)

	// Job cards
	jobCards := v1.Group("/job-cards", auth)
	jobCards.POST("", c.JobCard.CreateJobCard)
	jobCards.GET("", c.JobCard.GetJobCards)
	jobCards.GET("/:id", c.JobCard.GetJobCard)
	jobCards.PATCH("/:id", c.JobCard.UpdateJobCard)
	jobCards.POST("/:id/check-in", c.JobCard.CheckIn)
	jobCards.POST("/:id/advance", c.JobCard.Advance)
	jobCards.PUT("/:id/stage", c.jwtManager.RequireRole(models.StaffRoleManager, models.StaffRoleAdmin), c.JobCard.SetStage)
	jobCards.POST("/:id/invoice", c.Invoice.GenerateInvoice)

	// Invoices
	invoices := v1.Group("/invoices", auth)
	invoices.GET("", c.Invoice.GetInvoices)
	invoices.GET("/:id", c.Invoice.GetInvoice)
	invoices.PUT("/:id/items", c.Invoice.UpdateItems)
	invoices.POST("/:id/payment", c.Invoice.RecordPayment)

	// Customers and vehicles
	customers := v1.Group("/customers", auth)
	customers.POST("", c.Customer.CreateCustomer)
	customers.GET("", c.Customer.GetCustomers)
	customers.GET("/:id", c.Customer.GetCustomer)
	customers.POST("/:id/vehicles", c.Customer.AddVehicle)
	customers.GET("/:id/vehicles", c.Customer.GetVehicles)

	// Service catalog
	catalog := v1.Group("/services", auth)
	catalog.POST("", c.jwtManager.RequireRole(models.StaffRoleManager, models.StaffRoleAdmin), c.Catalog.CreateService)
	catalog.GET("", c.Catalog.GetServices)
	catalog.GET("/:id", c.Catalog.GetService)
	catalog.PATCH("/:id", c.jwtManager.RequireRole(models.StaffRoleManager, models.StaffRoleAdmin), c.Catalog.UpdateService)
	catalog.DELETE("/:id", c.jwtManager.RequireRole(models.StaffRoleAdmin), c.Catalog.DeleteService)

	// External webhooks, token-authenticated outside the JWT surface
	webhooks := r.Group("/webhooks")
	webhooks.POST("/:orgID/bookings", c.Webhook.BookingIntake)
	webhooks.POST("/:orgID/payments", c.Webhook.PaymentCallback)

	// Create HTTP server
	srv := &http.Server{
		Addr:    config.AppHost + ":" + config.AppPort,
		Handler: r,
	}

	log := logger.NewLogger(config.LogLevel, config.LogFormat)
	log.Infof("Starting server on %s:%s", config.AppHost, config.AppPort)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
