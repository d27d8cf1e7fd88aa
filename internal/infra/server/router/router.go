// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/reconciliation/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/reconciliation/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                   *gin.Engine
	healthController         *controller.HealthController
	reconciliationController *controller.ReconciliationController
	mergeController          *controller.MergeController
	rateLimiter              *middleware.RateLimiter
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	reconciliationController *controller.ReconciliationController,
	mergeController *controller.MergeController,
	rateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		healthController:         healthController,
		reconciliationController: reconciliationController,
		mergeController:          mergeController,
		rateLimiter:              rateLimiter,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	// API v1 group
	v1 := r.engine.Group("/api/v1")
	if r.rateLimiter != nil {
		v1.Use(r.rateLimiter.Middleware())
	}
	{
		// Reconciliation session routes
		if r.reconciliationController != nil {
			sessions := v1.Group("/reconciliation/sessions")
			{
				sessions.POST("", r.reconciliationController.Start)
				sessions.GET("/:id", r.reconciliationController.Get)
				sessions.POST("/:id/statement", r.reconciliationController.UploadStatement)
				sessions.POST("/:id/auto-match", r.reconciliationController.AutoMatch)
				sessions.POST("/:id/matches", r.reconciliationController.Match)
				sessions.DELETE("/:id/matches/:statementId", r.reconciliationController.Unmatch)
				sessions.POST("/:id/complete", r.reconciliationController.Complete)
				sessions.POST("/:id/abort", r.reconciliationController.Abort)
			}
		}

		// Transaction merge and duplicate detection routes
		if r.mergeController != nil {
			merge := v1.Group("/merge")
			{
				merge.POST("", r.mergeController.Merge)
				merge.POST("/:id/unmerge", r.mergeController.Unmerge)
				merge.GET("/duplicates", r.mergeController.FindDuplicates)
				merge.POST("/exclusions", r.mergeController.MarkNotDuplicate)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
