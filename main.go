package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/api"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/cache"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/config"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/db"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/email"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/services"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/tasks"

	"github.com/hibiken/asynq"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (background tasks), 'all' (default)")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*runMode)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Database
	mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	ctxIdx, cancelIdx := context.WithTimeout(context.Background(), 15*time.Second)
	if err := db.EnsureIndexes(ctxIdx, mongoDb); err != nil {
		cancelIdx()
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	cancelIdx()

	// Initialize Cache (Redis)
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			log.Printf("Error disconnecting from Redis: %v", err)
		}
	}()

	// Initialize Email Sender
	var primaryEmailSender email.Sender
	if os.Getenv("MOCK_SERVICES") == "true" {
		log.Println("MOCK_SERVICES enabled: Using Redis email sender.")
		primaryEmailSender = email.NewRedisSender(redisClient, cfg)
	} else {
		log.Println("MOCK_SERVICES disabled or not set: Using SMTP/Logging email sender.")
		primaryEmailSender = email.NewSMTPSender(cfg)
	}

	// Setup Composite Email Sender: always includes the primary sender,
	// optionally a file logger when LOG_EMAILS is set.
	compositeSender := email.NewCompositeEmailSender(primaryEmailSender)
	if logEmailsPath := os.Getenv("LOG_EMAILS"); logEmailsPath != "" {
		log.Printf("LOG_EMAILS set to '%s', enabling file email logger.", logEmailsPath)
		fileSender, err := email.NewFileEmailSender(logEmailsPath)
		if err != nil {
			log.Printf("WARNING: Failed to initialize file email sender (LOG_EMAILS='%s'): %v. Proceeding without file logging.", logEmailsPath, err)
		} else {
			compositeSender.AddSender(fileSender)
		}
	}
	finalEmailSender := email.Sender(compositeSender)

	// Services needed by the task processor
	candidateService := services.NewCandidateService(mongoDb)
	offerService := services.NewOfferService(mongoDb, cfg, candidateService, finalEmailSender)
	taskProcessor := tasks.NewTaskProcessor(cfg, offerService)

	// WaitGroup for managing goroutines
	var wg sync.WaitGroup

	// Channel to signal shutdown from Service API
	shutdownChan := make(chan struct{}, 1)

	// Start Service API (always runs)
	serviceRouter := api.SetupServiceRouter(cfg, redisClient, shutdownChan)
	serviceSrv := &http.Server{
		Addr:    ":" + cfg.ServiceApiPort,
		Handler: serviceRouter,
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		fmt.Printf("Service API listening on :%s\n", cfg.ServiceApiPort)
		if err := serviceSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Service API ListenAndServe error: %v", err)
		}
	}()

	// --- Mode-specific servers ---
	var mainApiSrv *http.Server
	var backgroundTaskSrv *asynq.Server
	var sweepScheduler *asynq.Scheduler

	fmt.Printf("Starting application in '%s' mode...\n", cfg.RunMode)

	apiMode := func() {
		fmt.Println("Starting main API server...")
		mainApiRouter := api.SetupRouter(cfg, mongoDb, finalEmailSender)
		mainApiSrv = &http.Server{
			Addr:    ":" + cfg.ApiPort,
			Handler: mainApiRouter,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Printf("Main API listening on :%s\n", cfg.ApiPort)
			if err := mainApiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Main API ListenAndServe error: %v", err)
			}
		}()
	}

	bgMode := func() {
		fmt.Println("Starting background worker...")
		srv, mux := tasks.SetupServer(redisClient, taskProcessor)
		backgroundTaskSrv = srv
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := backgroundTaskSrv.Run(mux); err != nil {
				log.Fatalf("Background task server error: %v", err)
			}
		}()

		scheduler, err := tasks.SetupScheduler(redisClient, cfg)
		if err != nil {
			log.Fatalf("Failed to set up task scheduler: %v", err)
		}
		sweepScheduler = scheduler
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sweepScheduler.Run(); err != nil {
				log.Fatalf("Task scheduler error: %v", err)
			}
		}()
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "bg":
		bgMode()
	case "all":
		apiMode()
		bgMode()
	default:
		log.Fatalf("Invalid run mode specified in config: %s.", cfg.RunMode)
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		fmt.Printf("\nReceived signal: %s. Shutting down gracefully...\n", sig)
	case <-shutdownChan:
		fmt.Println("\nShutdown requested via Service API. Shutting down gracefully...")
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	fmt.Println("Shutting down Service API server...")
	if err := serviceSrv.Shutdown(ctxShutdown); err != nil {
		log.Printf("Service API server shutdown error: %v", err)
	}

	if mainApiSrv != nil {
		fmt.Println("Shutting down Main API server...")
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			log.Printf("Main API server shutdown error: %v", err)
		}
	}

	if sweepScheduler != nil {
		fmt.Println("Shutting down task scheduler...")
		sweepScheduler.Shutdown()
	}
	if backgroundTaskSrv != nil {
		fmt.Println("Shutting down Background Task server...")
		backgroundTaskSrv.Shutdown()
	}

	fmt.Println("Waiting for servers to stop...")
	wg.Wait()

	fmt.Println("Server gracefully stopped")
}
