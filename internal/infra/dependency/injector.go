// Package dependency provides dependency injection for the application.
package dependency

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/finance-tracker/reconciliation/config"
	infradb "github.com/finance-tracker/reconciliation/internal/infra/db"
	"github.com/finance-tracker/reconciliation/internal/application/usecase/merge"
	"github.com/finance-tracker/reconciliation/internal/application/usecase/reconciliation"
	"github.com/finance-tracker/reconciliation/internal/domain/valueobject"
	"github.com/finance-tracker/reconciliation/internal/infra/server/router"
	"github.com/finance-tracker/reconciliation/internal/integration/adapters"
	"github.com/finance-tracker/reconciliation/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/reconciliation/internal/integration/entrypoint/middleware"
	"github.com/finance-tracker/reconciliation/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Router *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, database *infradb.Database) *Injector {
	db := database.DB()

	// Create repositories
	sessionRepo := persistence.NewSessionRepository(db)
	ledgerStore := persistence.NewLedgerStore(db)
	accountStore := persistence.NewAccountStore(db)

	// Create adapters/services
	formatter := valueobject.NewMoneyFormatter(cfg.Report.Currency)
	auditTrail := adapters.NewAuditLogger(slog.Default(), formatter)

	matchingConfig := valueobject.MatchingConfig{
		DateSlackDays:       cfg.Matching.DateSlackDays,
		AmountMatchScore:    cfg.Matching.AmountMatchScore,
		DateProximityScore:  cfg.Matching.DateProximityScore,
		AutoAcceptThreshold: cfg.Matching.AutoAcceptThreshold,
	}
	dedupConfig := valueobject.DedupConfig{
		DateWindowDays:      cfg.Dedup.DateWindowDays,
		SimilarityThreshold: cfg.Dedup.SimilarityThreshold,
	}

	// Create reconciliation use cases
	startUseCase := reconciliation.NewStartSessionUseCase(sessionRepo, accountStore, auditTrail)
	uploadUseCase := reconciliation.NewUploadStatementUseCase(sessionRepo, auditTrail)
	autoMatchUseCase := reconciliation.NewAutoMatchUseCase(sessionRepo, ledgerStore, auditTrail, matchingConfig)
	matchUseCase := reconciliation.NewMatchTransactionUseCase(sessionRepo, ledgerStore, auditTrail)
	unmatchUseCase := reconciliation.NewUnmatchTransactionUseCase(sessionRepo, auditTrail)
	getUseCase := reconciliation.NewGetSessionUseCase(sessionRepo, ledgerStore, accountStore)
	completeUseCase := reconciliation.NewCompleteSessionUseCase(sessionRepo, ledgerStore, accountStore, auditTrail)
	abortUseCase := reconciliation.NewAbortSessionUseCase(sessionRepo, auditTrail)

	// Create merge use cases
	mergeUseCase := merge.NewMergeTransactionsUseCase(ledgerStore, auditTrail)
	unmergeUseCase := merge.NewUnmergeTransactionUseCase(ledgerStore, auditTrail)
	markNotDupUseCase := merge.NewMarkNotDuplicateUseCase(ledgerStore, auditTrail)
	findDuplicatesUseCase := merge.NewFindDuplicatesUseCase(ledgerStore, dedupConfig)

	// Create controllers
	healthController := controller.NewHealthController(database.HealthCheck)

	reconciliationController := controller.NewReconciliationController(
		startUseCase,
		uploadUseCase,
		autoMatchUseCase,
		matchUseCase,
		unmatchUseCase,
		getUseCase,
		completeUseCase,
		abortUseCase,
	)

	mergeController := controller.NewMergeController(
		mergeUseCase,
		unmergeUseCase,
		markNotDupUseCase,
		findDuplicatesUseCase,
	)

	// Create middleware
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimit.MaxAttempts, cfg.RateLimit.WindowDuration)

	// Create router
	r := router.NewRouter(healthController, reconciliationController, mergeController, rateLimiter)

	return &Injector{
		Config: cfg,
		DB:     db,
		Router: r,
	}
}
