package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/motionforge/api/internal/client"
	"github.com/motionforge/api/internal/config"
	"github.com/motionforge/api/internal/handler"
	"github.com/motionforge/api/internal/middleware"
	"github.com/motionforge/api/internal/model"
	"github.com/motionforge/api/internal/registry"
	"github.com/motionforge/api/internal/render"
	"github.com/motionforge/api/internal/service"
	"github.com/motionforge/api/internal/worker"
	ws "github.com/motionforge/api/internal/websocket"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	renderMode := model.RenderMode(cfg.Render.Mode)
	log.Printf("Render mode: %s", renderMode)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available: %v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	validate := validator.New()

	hub := ws.NewHub()
	go hub.Run()

	// External clients; each degrades gracefully when unconfigured.
	scraperClient := client.NewScraperClient(&cfg.Firecrawl)
	llmClient := client.NewLLMClient(&cfg.LLM)
	ttsClient := client.NewTTSClient(&cfg.ElevenLabs)

	if !scraperClient.IsConfigured() {
		log.Println("Warning: FIRECRAWL_API_KEY not set, scraping will fail")
	}
	if !llmClient.IsConfigured() {
		log.Println("Info: OPENAI_API_KEY not set, using mock creative direction")
	}

	reg := registry.NewRedis(redisClient)

	// Render plumbing shared by both drivers.
	renderOpts := render.Options{
		ProjectDir:    cfg.Render.ProjectDir,
		OutputDir:     cfg.Render.OutputDir,
		CompositionID: cfg.Render.CompositionID,
	}
	runner := render.ExecRunner{}
	placer := render.NewAssetPlacer()
	workspaces := render.NewWorkspaceManager(cfg.Render.ProjectDir, cfg.Render.WorkBaseDir)
	audio := render.NewAudioSynthesizer(ttsClient, cfg.Render.MusicDir)

	directorService := service.NewDirectorService(llmClient, validate)
	templatedDriver := render.NewTemplatedDriver(renderOpts, runner, reg, placer)
	agenticDriver := render.NewAgenticDriver(
		renderOpts,
		time.Duration(cfg.Render.AgentTimeoutSec)*time.Second,
		runner, reg, workspaces, audio,
		scraperClient, directorService,
	)

	videoService := service.NewVideoService(reg, asynqClient, renderMode)
	videoHandler := handler.NewVideoHandler(videoService, validate)

	rateLimiter := middleware.NewRateLimiter(redisClient)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if strings.EqualFold(cfg.Server.LogLevel, "debug") {
		logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams} ${body}\n"
		log.Println("Debug logging enabled")
	}
	app.Use(logger.New(logger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"timestamp": time.Now().Unix(),
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(model.HealthResponse{
			Status:     "ok",
			RenderMode: renderMode,
		})
	})

	// API routes; bearer auth only when a secret is configured.
	var api fiber.Router
	if cfg.Auth.JWTSecret != "" {
		authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)
		api = app.Group("/api", authMiddleware.Authenticate())
	} else {
		api = app.Group("/api")
	}

	api.Post("/generate", rateLimiter.GenerateLimit(cfg.RateLimit.GeneratePerHour), videoHandler.Generate)
	api.Get("/status/:jobId", videoHandler.Status)

	// Finished videos are served straight from the output directory.
	if err := os.MkdirAll(cfg.Render.OutputDir, 0o755); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}
	app.Static("/outputs", cfg.Render.OutputDir)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/jobs/:jobId", websocket.New(func(c *websocket.Conn) {
		hub.HandleConnection(c, c.Params("jobId"))
	}))

	videoWorker := worker.NewVideoWorker(
		reg, scraperClient, directorService,
		templatedDriver, agenticDriver, hub,
		renderMode, cfg.Render.OutputDir,
	)
	go startWorkerServer(cfg, videoWorker)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func startWorkerServer(cfg *config.Config, videoWorker *worker.VideoWorker) {
	asynqLogLevel := asynq.InfoLevel
	switch {
	case strings.EqualFold(cfg.Server.LogLevel, "debug"):
		asynqLogLevel = asynq.DebugLevel
	case strings.EqualFold(cfg.Server.LogLevel, "warn"):
		asynqLogLevel = asynq.WarnLevel
	case strings.EqualFold(cfg.Server.LogLevel, "error"):
		asynqLogLevel = asynq.ErrorLevel
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			// One render at a time: templated mode shares the project
			// directory and agentic runs saturate a machine anyway.
			Concurrency: 1,
			Queues: map[string]int{
				service.RenderQueue: 1,
			},
			LogLevel: asynqLogLevel,
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(service.TaskTypeGenerate, videoWorker.ProcessTask)

	if err := srv.Run(mux); err != nil {
		log.Printf("Asynq worker error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "SERVICE_ERROR",
			"message": message,
		},
	})
}
