package server

import (
	"context"
	"log"
	"net/http"
	"strings"

	"backend-courseplay/internal/auth"
	"backend-courseplay/internal/catalog"
	"backend-courseplay/internal/config"
	"backend-courseplay/internal/db"
	"backend-courseplay/internal/elevation"
	"backend-courseplay/internal/replay"
	"backend-courseplay/internal/track"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App     *fiber.App
	Cfg     config.Config
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Courses catalog.Store
	Replay  *replay.Service
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	bodyLimit := fiber.DefaultBodyLimit
	if cfg.MaxUploadMB > 0 {
		bodyLimit = cfg.MaxUploadMB << 20
	}
	app := fiber.New(fiber.Config{BodyLimit: bodyLimit})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:     app,
		Cfg:     cfg,
		DB:      db,
		Redis:   redisClient,
		Courses: newCourseStore(cfg, db),
	}
	s.Replay = replay.NewService(s.Courses, newElevationLookup(cfg, redisClient), replayOptions(cfg))

	registerRoutes(s)
	return s
}

func newCourseStore(cfg config.Config, pool *pgxpool.Pool) catalog.Store {
	if strings.EqualFold(cfg.CourseStore, "postgres") {
		if pool != nil {
			if err := db.EnsureSchema(context.Background(), pool); err != nil {
				log.Printf("course schema setup failed, using %s: %v", cfg.CoursesDir, err)
			} else {
				return catalog.NewPGStore(pool, cfg.Projection)
			}
		} else {
			log.Printf("postgres course store requested without a connection, using %s", cfg.CoursesDir)
		}
	}
	return catalog.NewDirStore(cfg.CoursesDir, cfg.Projection)
}

func newElevationLookup(cfg config.Config, redisClient *redis.Client) elevation.Lookup {
	client := elevation.NewClient(cfg.ElevationURL, elevation.ClientOptions{
		BatchSize:   cfg.ElevationBatchSize,
		Concurrency: cfg.ElevationConcurrency,
		Retries:     cfg.ElevationRetries,
		HTTPClient:  &http.Client{Timeout: cfg.ElevationTimeout},
	})
	if redisClient == nil {
		return client
	}
	return elevation.NewCache(redisClient, client, cfg.ElevationCacheTTL)
}

func replayOptions(cfg config.Config) replay.Options {
	policy, err := track.ParsePolicy(cfg.ElevationPolicy, cfg.ElevationSentinel)
	if err != nil {
		log.Printf("%v, using abort", err)
		policy = track.Policy{Mode: track.Abort}
	}
	return replay.Options{
		Projection:       cfg.Projection,
		Policy:           policy,
		ElevationTimeout: cfg.ElevationTimeout,
		UploadDir:        cfg.UploadDir,
		ProcessedDir:     cfg.ProcessedDir,
	}
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	catalog.RegisterRoutes(s.App.Group("/courses"), s.Courses, jwtMiddleware)
	replay.RegisterRoutes(s.App, s.Replay)
}
