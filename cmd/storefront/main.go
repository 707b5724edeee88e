package main

import (
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/kmalykh/shop_mobile/internal/api"
	"github.com/kmalykh/shop_mobile/internal/cart"
	"github.com/kmalykh/shop_mobile/internal/checkout"
	"github.com/kmalykh/shop_mobile/internal/config"
	"github.com/kmalykh/shop_mobile/internal/logging"
	"github.com/kmalykh/shop_mobile/internal/profile"
	"github.com/kmalykh/shop_mobile/internal/securestore"
	"github.com/kmalykh/shop_mobile/internal/session"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.APIBaseURL, "API_BASE_URL")

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	kv, err := securestore.Open(cfg.StoragePath, logger)
	if err != nil {
		log.Fatalf("secure store init: %v", err)
	}

	client := api.NewClient(cfg, logger)

	sess := session.New(client, kv, logger)
	sess.Restore()

	cartStore := cart.NewStore(kv, logger)
	cartStore.Load()

	app := &App{
		log:     logger,
		api:     client,
		session: sess,
		cart:    cartStore,
		profile: &profile.Service{API: client},
		checkout: &checkout.Submitter{
			API:     client,
			Cart:    cartStore,
			Address: cfg.DefaultAddress,
		},
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		in:  os.Stdin,
		out: os.Stdout,
	}
	app.Run()

	if err := kv.Close(); err != nil {
		logger.Error("secure store close", "error", err)
	}
}
