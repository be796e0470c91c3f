package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/atelier-montres/montres_shop/internal/config"
	"github.com/atelier-montres/montres_shop/internal/es"
	"github.com/atelier-montres/montres_shop/internal/handlers"
	"github.com/atelier-montres/montres_shop/internal/handlers/cart"
	"github.com/atelier-montres/montres_shop/internal/logging"
	"github.com/atelier-montres/montres_shop/internal/mykafka"
	httpserver "github.com/atelier-montres/montres_shop/internal/transport/http"
)

const watchIndex = "montres"

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)

	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	searchClient, err := es.NewClient(configuration)
	if err != nil {
		log.Printf("elasticsearch unavailable, search disabled: %v", err)
		searchClient = nil
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		DB:               db,
		AuthHandler:      &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, Producer: prod},
		WatchHandler:     &handlers.WatchHandler{DB: db, Producer: prod, JWTSecret: jwtSecret, ES: searchClient, Index: watchIndex},
		CartHandler:      &cart.CartHandler{DB: db, Producer: prod, JWTSecret: jwtSecret},
		ReferenceHandler: &handlers.ReferenceHandler{DB: db},
		SearchHandler:    &handlers.SearchHandler{ES: searchClient, Index: watchIndex},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
