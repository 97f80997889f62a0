package router

import (
	"time"

	"github.com/SakshamGunj/pos-sub001/internal/config"
	"github.com/SakshamGunj/pos-sub001/internal/handler"
	"github.com/SakshamGunj/pos-sub001/internal/middleware"
	"github.com/SakshamGunj/pos-sub001/internal/repository"
	"github.com/SakshamGunj/pos-sub001/internal/service"
	"github.com/SakshamGunj/pos-sub001/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	sessionRepo := repository.NewSessionRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	menuItemRepo := repository.NewMenuItemRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	inventorySvc := service.NewInventoryService(menuItemRepo)
	sessionSvc := service.NewSessionService(sessionRepo, rdb)
	paymentSvc := service.NewPaymentService(sessionRepo, transactionRepo, orderRepo, inventorySvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	sessionsH := handler.NewSessionsHandler(sessionSvc)
	paymentsH := handler.NewPaymentsHandler(paymentSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1", middleware.OperatorIdentity())
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", sessionsH.Start)
			sessions.POST("/end", sessionsH.End)
			sessions.GET("", sessionsH.List)
			sessions.GET("/active", sessionsH.GetActive)
			sessions.GET("/active/hint", sessionsH.ActiveHint)
			sessions.GET("/:id", sessionsH.GetByID)
			sessions.GET("/:id/transactions", paymentsH.ListForSession)
		}

		v1.POST("/payments", paymentsH.Record)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
