package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/keyhaven/keyhaven/internal/cart"
	"github.com/keyhaven/keyhaven/internal/catalog"
	"github.com/keyhaven/keyhaven/internal/checkout"
	"github.com/keyhaven/keyhaven/internal/config"
	"github.com/keyhaven/keyhaven/internal/httpx"
	"github.com/keyhaven/keyhaven/internal/identity"
	kafkax "github.com/keyhaven/keyhaven/internal/kafka"
	"github.com/keyhaven/keyhaven/internal/keypool"
	"github.com/keyhaven/keyhaven/internal/ledger"
	"github.com/keyhaven/keyhaven/internal/postgres"
	"github.com/keyhaven/keyhaven/internal/redisx"
	"github.com/keyhaven/keyhaven/internal/steam"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", cfg.ServiceName).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	if err := postgres.Migrate(cfg.PostgresDSN, cfg.MigrationsDir); err != nil {
		log.Fatal().Err(err).Msg("migrations")
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, checkout.TopicPurchaseCompleted, 1024)
	prod.Start(ctx)

	// Repos & services
	users := &identity.Repo{DB: db}
	sessions := &identity.Sessions{Redis: rdb, TTL: cfg.SessionTTL}
	products := &catalog.Repo{DB: db}
	favorites := &catalog.Favorites{DB: db, Products: products}
	cartRepo := &cart.Repo{DB: db}
	keys := &keypool.Repo{DB: db}
	ledgerRepo := &ledger.Repo{DB: db}
	steamClient := steam.NewClient(cfg.SteamBaseURL, rdb, cfg.SteamCacheTTL)
	checkoutSvc := &checkout.Service{
		Repo:        &checkout.PgRepo{DB: db, Keys: keys},
		Producer:    prod,
		ServiceName: cfg.ServiceName,
		Log:         log,
	}

	// Router
	router := httpx.NewRouter(log)
	(&httpx.AuthHandler{Users: users, Sessions: sessions, SessionTTL: cfg.SessionTTL}).Register(router)
	(&httpx.CatalogHandler{Catalog: products, Steam: steamClient}).Register(router)
	(&httpx.CartHandler{Cart: cartRepo, Sessions: sessions}).Register(router)
	(&httpx.FavoritesHandler{Favorites: favorites, Sessions: sessions}).Register(router)
	(&httpx.CheckoutHandler{Checkout: checkoutSvc, Sessions: sessions}).Register(router)
	(&httpx.ProfileHandler{Users: users, Ledger: ledgerRepo, Sessions: sessions}).Register(router)
	(&httpx.AdminHandler{Catalog: products, Keys: keys, Steam: steamClient, Sessions: sessions}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // close inbox -> flush & close writer
	cancel()          // stop producer loop
	prod.WaitClosed() // drain
}
