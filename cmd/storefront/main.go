package main

import (
	"context"
	"os"

	"github.com/angelmondragon/storefront-core/internal/auth"
	"github.com/angelmondragon/storefront-core/internal/cart"
	"github.com/angelmondragon/storefront-core/internal/catalog"
	"github.com/angelmondragon/storefront-core/internal/storage"
	"github.com/angelmondragon/storefront-core/pkg/config"
	"github.com/angelmondragon/storefront-core/pkg/logger"
	"github.com/joho/godotenv"
)

// The composition root: both state containers are constructed here and
// passed by reference to whatever embeds them. No global singletons.
func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"driver": cfg.Storage.NormalizedDriver(),
	})

	blobs, err := storage.Open(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to open durable storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := blobs.Close(); err != nil {
			logg.Error(ctx, "error closing durable storage", err)
		}
	}()

	cat, err := catalog.Load()
	if err != nil {
		logg.Error(ctx, "failed to load catalog dataset", err)
		os.Exit(1)
	}
	directory, err := catalog.LoadDirectory()
	if err != nil {
		logg.Error(ctx, "failed to load user directory", err)
		os.Exit(1)
	}

	cartStore, err := cart.New(ctx, cart.Params{Storage: blobs, Logger: logg})
	if err != nil {
		logg.Error(ctx, "failed to build cart store", err)
		os.Exit(1)
	}

	authStore, err := auth.New(ctx, auth.Params{
		Directory: directory,
		Storage:   blobs,
		Logger:    logg,
		Latency:   cfg.Auth.SimulatedLatency,
	})
	if err != nil {
		logg.Error(ctx, "failed to build auth store", err)
		os.Exit(1)
	}

	summary := map[string]any{
		"products":      len(cat.Products()),
		"categories":    len(cat.Categories()),
		"cart_items":    cartStore.TotalItems(),
		"cart_total":    cartStore.TotalPrice().String(),
		"authenticated": authStore.IsAuthenticated(),
	}
	if user := authStore.CurrentUser(); user != nil {
		summary["session_user"] = user.Email
	}
	logg.Info(logg.WithFields(ctx, summary), "storefront state ready")
}
