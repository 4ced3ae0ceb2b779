package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	adapterHTTP "github.com/comitanigiacomo/kanso-constellation/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-constellation/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-constellation/internal/config"
	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
	"github.com/comitanigiacomo/kanso-constellation/internal/core/services"
	"github.com/comitanigiacomo/kanso-constellation/internal/core/workers"
)

// stores groups the persistence the application runs on. db and redis are
// optional and only feed the health check and the rate limiter.
type stores struct {
	habits      domain.HabitRepository
	completions domain.CompletionRepository
	users       domain.UserRepository
	db          adapterHTTP.Pinger
	redis       *redis.Client
}

func memoryStores() stores {
	return stores{
		habits:      repository.NewInMemoryHabitRepository(),
		completions: repository.NewInMemoryCompletionRepository(),
		users:       repository.NewInMemoryUserRepository(),
	}
}

func postgresStores(db *sqlx.DB, rdb *redis.Client, logger *zap.Logger) stores {
	var habits domain.HabitRepository = repository.NewPostgresHabitRepository(db)
	if rdb != nil {
		habits = repository.NewCachedHabitRepository(habits, rdb, logger)
	}

	return stores{
		habits:      habits,
		completions: repository.NewPostgresCompletionRepository(db),
		users:       repository.NewPostgresUserRepository(db),
		db:          db,
		redis:       rdb,
	}
}

type application struct {
	router *gin.Engine
	worker *workers.ScoreWorker
}

// newApplication wires services and handlers. The score worker is returned
// unstarted; the caller owns its lifetime.
func newApplication(cfg *config.Config, s stores, logger *zap.Logger, startTime time.Time) *application {
	ledger := services.NewCompletionLedger(s.completions)
	scoreService := services.NewScoreService(ledger, logger)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, s.users)

	worker := workers.NewScoreWorker(s.habits, s.completions, s.users, scoreService, logger)

	authService := services.NewAuthService(s.users, tokenService)
	habitService := services.NewHabitService(s.habits)
	checklistService := services.NewChecklistService(s.habits, ledger, worker)
	calendarService := services.NewCalendarService(s.habits, s.completions)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:      adapterHTTP.NewAuthHandler(authService, logger),
		HabitHandler:     adapterHTTP.NewHabitHandler(habitService, logger),
		ChecklistHandler: adapterHTTP.NewChecklistHandler(checklistService, logger),
		ScoreHandler:     adapterHTTP.NewScoreHandler(scoreService, logger),
		CalendarHandler:  adapterHTTP.NewCalendarHandler(calendarService, logger),
		Tokens:           tokenService,
		DB:               s.db,
		Redis:            s.redis,
		Logger:           logger,
		RateLimit:        cfg.RateLimit,
		RateWindow:       cfg.RateWindow,
		StartTime:        startTime,
	})

	return &application{router: router, worker: worker}
}
