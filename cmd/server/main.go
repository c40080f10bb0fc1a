package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/autoposterhub/autoposter/configs"
	"github.com/autoposterhub/autoposter/internal/api/handlers"
	"github.com/autoposterhub/autoposter/internal/api/middleware"
	job "github.com/autoposterhub/autoposter/internal/jobs"
	"github.com/autoposterhub/autoposter/internal/queue"
	"github.com/autoposterhub/autoposter/internal/repository"
	"github.com/autoposterhub/autoposter/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB, reference images are inlined
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	campaignRepo := repository.NewCampaignRepository(rdb, cfg.DataDir)

	geminiService, err := service.NewGeminiService(ctx, *cfg)
	if err != nil {
		log.Fatalf("Failed to initialize generation client: %v", err)
	}

	assetService := service.NewAssetService(*cfg)
	shareService := service.NewShareService(assetService, cfg.FrontendURL)
	campaignService := service.NewCampaignService(ctx, campaignRepo, geminiService)
	defer campaignService.Close()
	authService := service.NewAuthService()

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Post("/login", auth.Login)
	app.Post("/logout", auth.Logout)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	campaign := handlers.NewCampaignHandler(campaignService, client)
	api.Get("/campaigns", campaign.ListCampaigns)
	api.Post("/campaigns", campaign.CreateCampaign)
	api.Get("/campaigns/:id", campaign.GetCampaign)
	api.Delete("/campaigns/:id", campaign.RemoveCampaign)
	api.Post("/campaigns/:id/backfill", campaign.BackfillImages)

	post := handlers.NewPostHandler(campaignService, shareService)
	api.Put("/campaigns/:id/posts/:postId", post.UpdatePost)
	api.Delete("/campaigns/:id/posts/:postId", post.RemovePost)
	api.Post("/campaigns/:id/posts/:postId/hashtags", post.AddHashtag)
	api.Delete("/campaigns/:id/posts/:postId/hashtags", post.RemoveHashtag)
	api.Post("/campaigns/:id/posts/:postId/share", post.Share)

	// cron jobs
	flushJob := job.NewSnapshotFlushJob(campaignService)

	// queue
	queueW := queue.NewQueue(campaignService)

	c := cron.New()
	c.AddFunc("@every 00h05m00s", flushJob.Flush)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				queue.BackfillQueue: 1,
			},
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeBackfillImages, queueW.HandleBackfillImagesTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app)
}

func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	log.Println("Server shutdown complete.")
}
