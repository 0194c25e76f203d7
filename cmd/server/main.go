package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	accountapp "github.com/fohr/contracts-backend/internal/application/account"
	contractapp "github.com/fohr/contracts-backend/internal/application/contract"
	exportapp "github.com/fohr/contracts-backend/internal/application/export"
	"github.com/fohr/contracts-backend/internal/infrastructure/config"
	"github.com/fohr/contracts-backend/internal/infrastructure/esign"
	"github.com/fohr/contracts-backend/internal/infrastructure/gdocs"
	"github.com/fohr/contracts-backend/internal/infrastructure/logger"
	"github.com/fohr/contracts-backend/internal/infrastructure/payments"
	"github.com/fohr/contracts-backend/internal/infrastructure/rendering"
	"github.com/fohr/contracts-backend/internal/infrastructure/storage"
	"github.com/fohr/contracts-backend/internal/interfaces/http/handler"
	"github.com/fohr/contracts-backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting server",
		zap.String("name", cfg.App.Name),
		zap.String("env", cfg.App.Env))

	if err := os.MkdirAll(cfg.Storage.ArtifactDir, 0755); err != nil {
		log.Fatal("Failed to create artifact directory", zap.Error(err))
	}
	for _, path := range []string{cfg.Storage.ContractsFile, cfg.Storage.AccountsFile} {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			log.Fatal("Failed to create data directory", zap.Error(err))
		}
	}

	contractStore := storage.NewContractStore(cfg.Storage.ContractsFile, log)
	if err := contractStore.Ensure(); err != nil {
		log.Fatal("Failed to initialize contract store", zap.Error(err))
	}
	accountStore := storage.NewAccountStore(cfg.Storage.AccountsFile, log)
	if err := accountStore.Ensure(); err != nil {
		log.Fatal("Failed to initialize account store", zap.Error(err))
	}

	stripeAdapter, err := payments.NewStripeAdapter(&payments.StripeConfig{
		SecretKey:            cfg.Stripe.SecretKey,
		WebhookSecret:        cfg.Stripe.WebhookSecret,
		IsTestMode:           cfg.Stripe.IsTestMode,
		PlatformFeePercent:   cfg.Stripe.PlatformFeePercent,
		OnboardingRefreshURL: cfg.Stripe.OnboardingRefreshURL,
		OnboardingReturnURL:  cfg.Stripe.OnboardingReturnURL,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize payment adapter", zap.Error(err))
	}

	esignClient, err := esign.NewClient(&esign.Config{
		IntegrationKey:     cfg.AdobeSign.IntegrationKey,
		BaseURL:            cfg.AdobeSign.BaseURL,
		WebhookURL:         cfg.AdobeSign.WebhookURL,
		SignerEmail:        cfg.AdobeSign.SignerEmail,
		CounterSignerEmail: cfg.AdobeSign.CounterEmail,
		Timeout:            cfg.AdobeSign.Timeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize e-signature client", zap.Error(err))
	}

	ctx := context.Background()
	gdocsAdapter, err := gdocs.NewAdapter(ctx, &gdocs.Config{
		CredentialsFile: cfg.GoogleDocs.CredentialsFile,
		FolderID:        cfg.GoogleDocs.FolderID,
		ShareDomain:     cfg.GoogleDocs.ShareDomain,
		AnchorText:      cfg.GoogleDocs.AnchorText,
		Timeout:         cfg.GoogleDocs.Timeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize document adapter", zap.Error(err))
	}

	renderer, err := rendering.NewChromedpRenderer(&rendering.ChromedpConfig{
		DefaultTimeout: cfg.Rendering.Timeout,
		CookieDomain:   cfg.Rendering.CookieDomain,
		NoSandbox:      cfg.Rendering.NoSandbox,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		_ = renderer.Close()
	}()

	contractService := contractapp.NewService(contractStore, gdocsAdapter, esignClient,
		contractapp.ServiceConfig{
			ArtifactDir:      cfg.Storage.ArtifactDir,
			DocumentTimeout:  cfg.GoogleDocs.Timeout,
			SignatureTimeout: cfg.AdobeSign.Timeout,
		}, log)
	accountService := accountapp.NewService(accountStore, stripeAdapter,
		accountapp.ServiceConfig{
			RatePerSecond: cfg.Cleanup.RatePerSecond,
			PageSize:      cfg.Cleanup.PageSize,
		}, log)
	exportService := exportapp.NewService(renderer,
		exportapp.ServiceConfig{
			OutputDir: cfg.Storage.ArtifactDir,
			Timeout:   cfg.Rendering.Timeout,
		}, log)

	engine := router.New(cfg, log).
		Register(handler.NewContractHandler(contractService, log)).
		Register(handler.NewStripeHandler(accountService, stripeAdapter, log)).
		Register(handler.NewExportHandler(exportService, log)).
		Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Let in-flight export jobs drain before exit
	exportService.Wait()

	log.Info("Server exited gracefully")
}
