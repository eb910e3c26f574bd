package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"clinic-server/internal/cache"
	"clinic-server/internal/config"
	"clinic-server/internal/consumer"
	"clinic-server/internal/messaging"
	"clinic-server/internal/middleware"
	"clinic-server/internal/models"
	"clinic-server/internal/monitoring"
	"clinic-server/internal/routes"
	"clinic-server/internal/search"
)

func main() {
	// Load environment variables; a missing .env is fine in containers
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file loaded")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.Environment == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	log.Logger = logger

	if cfg.SentryDSN != "" {
		if err := monitoring.InitSentry(cfg.SentryDSN, cfg.Environment); err != nil {
			log.Fatal().Err(err).Msg("error initializing sentry")
		}
		defer sentry.Flush(2 * time.Second)
	}

	monitoring.Init()

	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	// Optional infrastructure: the API degrades gracefully without it.
	var producer messaging.Producer
	if cfg.Kafka.Broker != "" {
		producer, err = messaging.NewKafkaProducer(cfg.Kafka.Broker)
		if err != nil {
			log.Warn().Err(err).Msg("kafka unavailable, record events disabled")
			producer = nil
		} else {
			defer producer.Close()
		}
	}

	var cacheClient cache.Client
	if cfg.Redis.Addr != "" {
		cacheClient, err = cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, client cache disabled")
			cacheClient = nil
		} else {
			defer cacheClient.Close()
		}
	}

	if cfg.Kafka.Broker != "" && cfg.Elasticsearch.URL != "" {
		esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch.URL)
		if err != nil {
			log.Warn().Err(err).Msg("elasticsearch unavailable, indexing disabled")
		} else {
			indexer := consumer.NewIndexer(cfg.Kafka.Broker, cfg.Kafka.GroupID, esClient, cacheClient)
			indexer.Start(context.Background())
			defer indexer.Stop()
		}
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.PrometheusMetrics())
	if cfg.SentryDSN != "" {
		router.Use(middleware.SentryMiddleware(), middleware.ErrorReporter())
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, db, producer, cacheClient)

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().Str("port", cfg.Port).Msg("server running")
	if err := router.Run(serverAddr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
