package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/fieldline/salesdesk/internal/audit"
	"github.com/fieldline/salesdesk/internal/availability"
	"github.com/fieldline/salesdesk/internal/config"
	"github.com/fieldline/salesdesk/internal/events"
	"github.com/fieldline/salesdesk/internal/handlers"
	infraRepo "github.com/fieldline/salesdesk/internal/infra/repository"
	"github.com/fieldline/salesdesk/internal/logging"
	"github.com/fieldline/salesdesk/internal/middleware"
	"github.com/fieldline/salesdesk/internal/reminders"
	ucScheduling "github.com/fieldline/salesdesk/internal/usecase/scheduling"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	queue *asynq.Client,
	cfg *config.Config,
) {

	logger := logging.L()

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	store := infraRepo.NewAppointmentGormStore(db)
	reminderStore := infraRepo.NewReminderGormStore(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	availIndex := availability.NewIndex(
		rdb,
		store,
		time.Duration(cfg.AvailabilityTTLSeconds)*time.Second,
		logger,
	)

	reminderScheduler := reminders.NewScheduler(reminderStore, queue, logger)

	reminderWorker := reminders.NewWorker(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisQueueDB,
		},
		reminderStore,
		store,
		reminders.NewLogNotifier(logger),
		logger,
	)
	reminderWorker.Start()

	syncDispatcher := events.NewDispatcher(
		events.NewLogCalendarSync(logger),
		db,
		logger,
	)

	// ======================================================
	// SCHEDULING ENGINE
	// ======================================================
	engine := ucScheduling.NewEngine(
		store,
		availIndex,
		reminderScheduler,
		syncDispatcher,
		auditDispatcher,
		logger,
		cfg.DefaultOpenTime,
		cfg.DefaultCloseTime,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	businessHoursHandler := handlers.NewBusinessHoursHandler(db)
	schedulingHandler := handlers.NewSchedulingHandler(engine, db, cfg)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/business-hours", businessHoursHandler.Get)
			secured.PUT("/me/business-hours", businessHoursHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", schedulingHandler.Book)
			secured.GET("/appointments", schedulingHandler.ListByDate)
			secured.GET("/appointments/month", schedulingHandler.ListByMonth)
			secured.GET("/appointments/free-slots", schedulingHandler.FreeSlots)

			secured.PATCH("/appointments/:id/reschedule", schedulingHandler.Reschedule)
			secured.PATCH("/appointments/:id/confirm", schedulingHandler.Confirm)
			secured.PATCH("/appointments/:id/start", schedulingHandler.Start)
			secured.PATCH("/appointments/:id/complete", schedulingHandler.Complete)
			secured.PATCH("/appointments/:id/cancel", schedulingHandler.Cancel)
			secured.PATCH("/appointments/:id/no-show", schedulingHandler.MarkNoShow)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
