package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/onepunch-tk/groth-api-app/configs"
	"github.com/onepunch-tk/groth-api-app/internal/api/handlers"
	"github.com/onepunch-tk/groth-api-app/internal/api/middleware"
	"github.com/onepunch-tk/groth-api-app/internal/browser"
	"github.com/onepunch-tk/groth-api-app/internal/instagram"
	job "github.com/onepunch-tk/groth-api-app/internal/jobs"
	"github.com/onepunch-tk/groth-api-app/internal/queue"
	"github.com/onepunch-tk/groth-api-app/internal/repository"
	"github.com/onepunch-tk/groth-api-app/internal/service"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	driver, err := browser.NewPlaywrightDriver()
	if err != nil {
		log.Fatalf("Failed to start browser driver: %v", err)
	}
	defer driver.Stop()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
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

	userRepo := repository.NewUserRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	historyRepo := repository.NewPostingHistoryRepository(db)

	objectStore, err := service.NewS3ObjectStore(*cfg)
	if err != nil {
		log.Fatalf("Failed to create object store: %v", err)
	}

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	scheduleService := service.NewScheduleService(*cfg, scheduleRepo)
	sessionStore := service.NewSessionStoreService(objectStore, cfg.SessionBaseDir)
	mediaService := service.NewMediaService(cfg.MediaDir)

	publisher := instagram.NewPublisher(*cfg, scheduleRepo, historyRepo, sessionStore, mediaService, driver)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService, historyRepo)
	api.Get("/user/info", user.GetUserInfo)
	api.Get("/posts/history", user.ListPostingHistory)

	schedule := handlers.NewScheduleHandler(scheduleService, client)
	api.Post("/instagram/posts", schedule.CreateSchedule)
	api.Get("/instagram/posts", schedule.ListSchedules)

	// cron jobs
	recoveryJob := job.NewScheduleRecoveryJob(scheduleRepo, client)

	// queue
	queueW := queue.NewQueue(publisher)

	c := cron.New()
	c.AddFunc("@every 00h10m00s", recoveryJob.RecoverOverdue)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishSchedule, queueW.HandlePublishScheduleTask)

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

	gracefulShutdown(app, db, driver)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB, driver *browser.PlaywrightDriver) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	if err := driver.Stop(); err != nil {
		log.Printf("Failed to stop browser driver: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
