// Command bridge runs the message-processing bridge: HTTP send/storage/
// exclusion API, async encrypted persistence, and the SWIFT transformation
// pipeline, assembled from config, storage, security, and HTTP layers.
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"messagebridge/internal/api"
	"messagebridge/internal/banner"
	"messagebridge/internal/broker"
	"messagebridge/internal/config"
	"messagebridge/internal/encryption"
	"messagebridge/internal/exclusion"
	"messagebridge/internal/keyprovider"
	"messagebridge/internal/logger"
	"messagebridge/internal/objectstore"
	"messagebridge/internal/records"
	"messagebridge/internal/sendpipeline"
	"messagebridge/internal/shutdown"
	"messagebridge/internal/transform"
	"messagebridge/internal/workerpool"
)

var version = "dev"

func main() {
	_ = godotenv.Load(".env")

	logger.Init()

	cfg, err := config.LoadEffective(os.Getenv("BRIDGE_CONFIG_FILE"))
	if err != nil {
		shutdown.Fatal("failed to load configuration", err)
	}

	gateway, err := objectstore.Open(cfg.Store.ConnectionString)
	if err != nil {
		shutdown.Fatal("failed to open object store", err)
	}
	defer gateway.Close()
	if err := gateway.EnsureContainer(context.Background(), cfg.Store.Container); err != nil {
		shutdown.Fatal("failed to ensure storage container", err)
	}

	var encSvc *encryption.Service
	if cfg.Encryption.Enabled {
		provider, err := buildKeyProvider(cfg.Encryption)
		if err != nil {
			shutdown.Fatal("failed to configure key provider", err)
		}
		defer provider.Close()
		encSvc = encryption.New(provider)

		// No silent downgrade: a misconfigured key service must fail
		// startup, not silently fall back to storing plaintext.
		healthCtx, cancel := context.WithTimeout(context.Background(), cfg.Encryption.Timeout.Duration())
		if err := encSvc.Healthy(healthCtx); err != nil {
			cancel()
			shutdown.Fatal("key provider health check failed at startup", err)
		}
		cancel()
	}

	store := records.New(encSvc, gateway, cfg.Store.Container, cfg.Encryption.Enabled)

	brokerGateway := broker.NewInProcess()
	defer brokerGateway.Close()

	pool := workerpool.New(cfg.Pool.CoreSize, cfg.Pool.QueueCapacity)
	defer pool.Close()

	exclusionEngine := exclusion.New()

	pipeline := sendpipeline.New(exclusionEngine, brokerGateway, pool, store)

	ctx, cancel := shutdown.SetupSignalHandler(context.Background())
	defer cancel()

	if cfg.Transformation.Enabled {
		runTransformationPipeline(ctx, cfg, brokerGateway, store)
	}

	server := api.NewServer(pipeline, store, exclusionEngine, true)
	router := api.NewRouter(server, cfg.Security)

	banner.Print(cfg, version)

	httpServer := &http.Server{Addr: cfg.Addr(), Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Encryption.Timeout.Duration())
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("bridge listening", "address", cfg.Addr())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		shutdown.Fatal("http server failed", err)
	}
}

func buildKeyProvider(cfg config.EncryptionConfig) (keyprovider.Provider, error) {
	ctx := context.Background()
	if cfg.Local {
		return keyprovider.NewLocalFromHex(ctx, cfg.LocalMasterKeyHex)
	}
	return keyprovider.NewRemote(cfg.KeyServiceURI, os.Getenv("BRIDGE_KEY_SERVICE_TOKEN"), cfg.KeyName, cfg.Timeout.Duration())
}

func runTransformationPipeline(ctx context.Context, cfg *config.Config, gateway broker.Gateway, store *records.Store) {
	tcfg := transform.Config{
		InputQueue:       cfg.Transformation.InputQueue,
		OutputQueue:      cfg.Transformation.OutputQueue,
		DeadLetterDest:   cfg.Broker.DeadLetterDst,
		DefaultType:      cfg.Transformation.DefaultType,
		RetryBaseDelay:   cfg.Transformation.RetryBaseDelay.Duration(),
		RetryFactor:      cfg.Transformation.RetryFactor,
		RetryCap:         cfg.Transformation.RetryCap.Duration(),
		RetryMaxAttempts: cfg.Transformation.RetryMaxAttempts,
	}
	pipeline := transform.New(tcfg, gateway, store)
	go func() {
		if err := pipeline.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("transformation pipeline stopped", "error", err)
		}
	}()

	dlq := transform.NewDeadLetterListener(cfg.Broker.DeadLetterDst, gateway, store, cfg.Transformation.DLQWarnThreshold, cfg.Transformation.DLQErrorThreshold)
	go func() {
		if err := dlq.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("dead-letter listener stopped", "error", err)
		}
	}()
}
