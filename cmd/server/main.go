package main

import (
	"time"

	"swanchat/internal/catalog"
	"swanchat/internal/chat"
	"swanchat/internal/config"
	"swanchat/internal/langstore"
	"swanchat/internal/lead"
	"swanchat/internal/server"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger
	logger := cfg.SetupLogger()

	// Language preferences survive restarts only when a store path is set
	var languages langstore.Store
	if cfg.LanguageStorePath != "" {
		languages = langstore.NewFileStore(cfg.LanguageStorePath)
		logger.Info().Str("path", cfg.LanguageStorePath).Msg("Using file-backed language store")
	} else {
		languages = langstore.NewMemoryStore()
		logger.Info().Msg("Using in-memory language store")
	}

	// Enquiry leads go to sales via SendGrid, or to the log without a key
	var leads lead.Sink
	if cfg.SendGridAPIKey != "" {
		leads = lead.NewEmailSink(cfg.SendGridAPIKey, cfg.SalesEmail)
		logger.Info().Str("sales_email", cfg.SalesEmail).Msg("Forwarding enquiry leads via SendGrid")
	} else {
		leads = lead.NewLogSink(logger)
		logger.Warn().Msg("SENDGRID_API_KEY not set, enquiry leads will only be logged")
	}

	catalogClient := catalog.NewClient(cfg.CatalogEndpoint, time.Duration(cfg.CatalogTimeout)*time.Second, logger)

	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	sessions := chat.NewManager(chat.Options{
		Catalog:       catalogClient,
		Leads:         leads,
		Languages:     languages,
		ResponseDelay: time.Duration(cfg.ResponseDelayMS) * time.Millisecond,
		WelcomeDelay:  time.Duration(cfg.WelcomeDelayMS) * time.Millisecond,
		FetchTimeout:  time.Duration(cfg.CatalogTimeout) * time.Second,
		Logger:        logger,
	}, sessionTTL, logger)

	// Evict idle sessions in the background
	stop := make(chan struct{})
	defer close(stop)
	sessions.StartSweeper(sessionTTL, stop)

	// Create and initialize server
	srv := server.New(cfg, sessions, catalogClient, logger)
	srv.Initialize()

	// Start server
	if err := srv.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Server failed to start")
	}
}
