package api

import (
	"fmt"
	"log"
	"net/http"

	"studiohub/internal/cache"
	"studiohub/internal/config"
	"studiohub/internal/database"
	"studiohub/internal/external"
	"studiohub/internal/handlers"
	"studiohub/internal/messaging"
	"studiohub/internal/metrics"
	"studiohub/internal/middleware"
	"studiohub/internal/repository"
	"studiohub/internal/search"
	"studiohub/internal/service"

	"github.com/gin-gonic/gin"
)

// Server is the HTTP API server with all its collaborators wired up.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	locks    *cache.LockClient
	services *service.Services
	repos    *repository.Repositories
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	lockClient, err := cache.NewLockClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	calendarClient := external.NewCalendarClient(cfg.Calendar)

	// The search index is optional; class search falls back to SQL.
	var indexer service.ClassIndexer
	if esCfg := config.LoadElasticsearchConfig(); esCfg.URL != "" {
		esClient, err := search.NewElasticsearchClient(esCfg)
		if err != nil {
			log.Printf("Elasticsearch unavailable, class search falls back to SQL: %v", err)
		} else {
			indexer = esClient
		}
	}

	repos := repository.NewRepositories(db)

	services := service.NewServices(repos, service.Options{
		Calendar:              calendarClient,
		Publisher:             natsClient,
		Locker:                lockClient,
		Indexer:               indexer,
		Buffer:                cfg.Buffer(),
		DefaultSessionMinutes: cfg.DefaultSessionMinutes,
		DefaultCurrency:       cfg.DefaultCurrency,
	})

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		locks:    lockClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")
	{
		bookings := api.Group("/bookings")
		{
			bookings.POST("", h.CreateBooking)
			bookings.GET("", h.ListBookings)
			bookings.GET("/availability", h.CheckAvailability)
			bookings.GET("/:id", h.GetBooking)
			bookings.PUT("/:id", h.UpdateBooking)
			bookings.DELETE("/:id", h.DeleteBooking)
			bookings.POST("/:id/return", h.ReturnBooking)
		}

		classes := api.Group("/classes")
		{
			classes.POST("", h.CreateClass)
			classes.GET("", h.ListClasses)
			classes.GET("/:id", h.GetClass)
			classes.PUT("/:id", h.UpdateClass)
			classes.DELETE("/:id", h.DeleteClass)
			classes.POST("/:id/sync", h.SyncClass)
		}

		payments := api.Group("/payments")
		{
			payments.POST("", h.CreatePayment)
			payments.GET("", h.ListPayments)
			payments.GET("/:id", h.GetPayment)
			payments.PUT("/:id", h.UpdatePayment)
			payments.DELETE("/:id", h.DeletePayment)
		}

		attendance := api.Group("/attendance")
		{
			attendance.POST("", h.CreateAttendance)
			attendance.GET("", h.ListAttendance)
			attendance.GET("/:id", h.GetAttendance)
			attendance.PUT("/:id", h.UpdateAttendance)
			attendance.DELETE("/:id", h.DeleteAttendance)
			attendance.POST("/bulk-present", h.BulkMarkPresent)
		}

		rooms := api.Group("/rooms")
		{
			rooms.POST("", h.CreateRoom)
			rooms.GET("", h.ListRooms)
			rooms.GET("/:id", h.GetRoom)
			rooms.PUT("/:id", h.UpdateRoom)
			rooms.DELETE("/:id", h.DeleteRoom)
		}

		equipment := api.Group("/equipment")
		{
			equipment.POST("", h.CreateEquipment)
			equipment.GET("", h.ListEquipment)
			equipment.GET("/:id", h.GetEquipment)
			equipment.PUT("/:id", h.UpdateEquipment)
			equipment.DELETE("/:id", h.DeleteEquipment)
		}

		clients := api.Group("/clients")
		{
			clients.POST("", h.CreateClient)
			clients.GET("", h.ListClients)
			clients.GET("/:id", h.GetClient)
			clients.PUT("/:id", h.UpdateClient)
			clients.DELETE("/:id", h.DeleteClient)
		}

		enrollments := api.Group("/enrollments")
		{
			enrollments.POST("", h.CreateEnrollment)
			enrollments.GET("", h.ListEnrollments)
			enrollments.GET("/:id", h.GetEnrollment)
			enrollments.PUT("/:id", h.UpdateEnrollment)
			enrollments.DELETE("/:id", h.DeleteEnrollment)
		}

		api.GET("/services", h.ListServices)
		api.GET("/calendar/events", h.GetCalendarEvents)
		api.GET("/dashboard/summary", h.DashboardSummary)
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", metrics.Handler())
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "studiohub-api",
		"version": "1.0.0",
	})
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes the outbound connections.
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.locks != nil {
		if err := s.locks.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
			return err
		}
	}

	return nil
}
