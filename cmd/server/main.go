// Server entrypoint. Wires stores, services and handlers, then runs the HTTP
// server and the optional redis snapshot bridge until interrupted.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	authhandler "refeitorio/internal/auth/handler"
	authservice "refeitorio/internal/auth/service"
	"refeitorio/internal/auth/store/refresh"
	"refeitorio/internal/auth/store/revocation"
	"refeitorio/internal/auth/store/user"
	"refeitorio/internal/auth/token"
	collabhandler "refeitorio/internal/collaborator/handler"
	collabservice "refeitorio/internal/collaborator/service"
	collabstore "refeitorio/internal/collaborator/store"
	"refeitorio/internal/events"
	httpapi "refeitorio/internal/http"
	menuhandler "refeitorio/internal/menu/handler"
	menuservice "refeitorio/internal/menu/service"
	menustore "refeitorio/internal/menu/store"
	"refeitorio/internal/notify"
	notifyhandler "refeitorio/internal/notify/handler"
	orderhandler "refeitorio/internal/order/handler"
	orderservice "refeitorio/internal/order/service"
	orderstore "refeitorio/internal/order/store"
	"refeitorio/internal/pii"
	"refeitorio/internal/platform/config"
	"refeitorio/internal/platform/httpserver"
	"refeitorio/internal/platform/logger"
	"refeitorio/internal/platform/metrics"
	"refeitorio/internal/platform/postgres"
	platformredis "refeitorio/internal/platform/redis"
	restauranthandler "refeitorio/internal/restaurant/handler"
	restaurantservice "refeitorio/internal/restaurant/service"
	restaurantstore "refeitorio/internal/restaurant/store"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	codec, err := pii.NewCodec(cfg.CPFKey)
	if err != nil {
		log.Error("cpf codec init failed", "error", err)
		os.Exit(1)
	}

	db, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	kafka, err := events.NewKafkaPublisher(cfg.Kafka, log)
	if err != nil {
		log.Error("kafka connect failed", "error", err)
		os.Exit(1)
	}
	if kafka != nil {
		defer kafka.Close()
	}

	m := metrics.New()
	registry := notify.NewRegistry(m)

	orderStore := orderstore.NewPostgres(db)

	var bridge *notify.RedisBridge
	var publisher notify.Publisher
	if redisClient != nil {
		bridge = notify.NewRedisBridge(redisClient.Client, registry, log)
		publisher = bridge
	}
	dispatcher := notify.NewDispatcher(orderStore, registry, publisher, log)

	collaborators := collabservice.New(collabstore.NewPostgres(db), codec, log)
	restaurants := restaurantservice.New(restaurantstore.NewPostgres(db))
	menus := menuservice.New(menustore.NewPostgres(db), restaurants)

	var eventPublisher events.Publisher
	if kafka != nil {
		eventPublisher = kafka
	}
	orders := orderservice.New(
		orderStore,
		collaborators,
		menus,
		dispatcher,
		eventPublisher,
		m,
		log,
		cfg.OrderPrice,
	)

	var revocationList revocation.List = revocation.NewInMemory()
	if redisClient != nil {
		revocationList = revocation.NewRedisList(redisClient)
	}
	tokens := token.NewService(cfg.JWTSecret, "refeitorio")
	auth := authservice.New(
		user.NewPostgres(db),
		refresh.NewPostgres(db),
		revocationList,
		tokens,
		log,
		authservice.WithTokenTTLs(cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
	)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:        log,
		Validator:     tokens,
		Auth:          authhandler.New(auth, log),
		Collaborators: collabhandler.New(collaborators, log),
		Restaurants:   restauranthandler.New(restaurants, log),
		Menus:         menuhandler.New(menus, log),
		Orders:        orderhandler.New(orders, log),
		Feed:          notifyhandler.New(dispatcher, restaurants, log),
		Health: func(r *http.Request) error {
			return db.Health(r.Context())
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if bridge != nil {
		g.Go(func() error {
			err := bridge.Run(gctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
