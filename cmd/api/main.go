package main

import (
	"context"
	"net/http"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "commonground-api/docs"
	"commonground-api/internal/config"
	"commonground-api/internal/handler"
	"commonground-api/internal/middleware"
	"commonground-api/internal/repository"
	"commonground-api/internal/service"
)

// @title        CommonGround Activities API
// @version      1.0
// @description  Recommends nearby activities by combining geospatial proximity with preference similarity, and maintains global interest statistics under concurrent profile updates.
// @BasePath     /
func main() {
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("cannot load timezone")
	}

	// Storage backend selection: embedded Badger or server-mode Postgres.
	// Both implement the same three store interfaces.
	var (
		candidateRepo service.CandidateRepository
		aggregateRepo service.AggregateRepository
		profileRepo   service.ProfileRepository
	)
	switch cfg.StorageDriver {
	case "badger":
		db, err := badger.Open(badger.DefaultOptions(cfg.BadgerDir))
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.BadgerDir).Msg("cannot open badger")
		}
		defer db.Close()

		repo := repository.NewBadgerRepository(db)
		candidateRepo, aggregateRepo, profileRepo = repo, repo, repo
	case "postgres":
		conn, err := pgxpool.New(context.Background(), cfg.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer conn.Close()

		repo := repository.NewPostgresRepository(conn)
		candidateRepo, aggregateRepo, profileRepo = repo, repo, repo
	default:
		log.Fatal().Str("driver", cfg.StorageDriver).Msg("unknown storage driver")
	}

	// Initialize layers
	recommendService := service.NewRecommendationService(candidateRepo, cfg.RequestTimeout, loc)
	aggregateService := service.NewAggregateService(aggregateRepo, cfg.AggregateRetries)
	profileService := service.NewProfileService(profileRepo, aggregateService)

	recommendHandler := handler.NewRecommendHandler(recommendService)
	profileHandler := handler.NewProfileHandler(profileService)
	statsHandler := handler.NewStatsHandler(aggregateService)

	r := gin.New()
	r.Use(middleware.Logger(log.Logger), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/recommendations", recommendHandler.Recommend)
	r.PUT("/profiles/:id", profileHandler.Save)
	r.GET("/profiles/:id", profileHandler.Get)
	r.GET("/stats/aggregate", statsHandler.Aggregate)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
