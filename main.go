// File: parkrefund/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parkrefund/config"
	"parkrefund/cron"
	"parkrefund/database"
	recordsRepo "parkrefund/database/repository/records"
	"parkrefund/handlers"
	"parkrefund/resolvers"
	"parkrefund/routes"
	"parkrefund/services/decision"
	"parkrefund/services/extraction"
	ai "parkrefund/services/intelligence"
	"parkrefund/services/ticketing"
	"parkrefund/services/verification"
	"parkrefund/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	cacheClient := utils.GetCacheClient()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// Repositories.
	decisionRecords := recordsRepo.NewMongoRecordRepo()

	// LLM client is optional; without a key the pipeline runs rules-only
	// and ambiguous cases go straight to human review.
	var completion ai.CompletionClient
	if config.AppConfig.GeminiAPIKey != "" {
		completion = ai.NewGeminiClient(config.AppConfig.GeminiAPIKey)
	} else {
		logger.Warn("main: GEMINI_API_KEY not set, LLM fallback disabled")
	}

	// Pipeline services.
	extractor := &extraction.DefaultExtractor{
		AI:     completion,
		Logger: logger,
	}

	tokenManager := &verification.TokenManager{
		TokenURL:     config.AppConfig.ParkWhizTokenURL,
		ClientID:     config.AppConfig.ParkWhizClientID,
		ClientSecret: config.AppConfig.ParkWhizClientSecret,
		Cache:        cacheClient,
		Logger:       logger,
	}
	providerClient := &verification.ParkWhizClient{
		BaseURL: config.AppConfig.ParkWhizBaseURL,
		Tokens:  tokenManager,
	}
	verifier := &verification.DefaultVerifier{
		Source: providerClient,
		Logger: logger,
	}

	policyStore := &decision.CachedPolicyStore{
		Loader: decision.StaticPolicyLoader{},
		Cache:  cacheClient,
		TTL:    time.Duration(config.AppConfig.PolicyCacheTTLMin) * time.Minute,
		Logger: logger,
	}
	decider := &decision.DefaultDecisionMaker{
		Policies: policyStore,
		AI:       completion,
		Logger:   logger,
	}

	resolver := &resolvers.RefundResolver{
		Extractor: extractor,
		Verifier:  verifier,
		Decider:   decider,
		Tickets:   &ticketing.LoggingClient{Logger: logger},
		Records:   decisionRecords,
	}

	// Background worker consuming queued ticket events.
	cron.InitTicketWorker(resolver)

	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer queueClient.Close()

	webhookHandler := handlers.NewWebhookHandler(queueClient, cacheClient)
	refundHandler := handlers.NewRefundHandler(resolver, decisionRecords)

	routes.RegisterRoutes(router, webhookHandler, refundHandler)

	utils.StartHealthMonitor(cacheClient, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
