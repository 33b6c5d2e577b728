package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogserver/config"
	"blogserver/database"
	"blogserver/handlers"
	"blogserver/middleware"
	"blogserver/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting blog server...")

	cfg := config.Load()

	// ===== MONGODB =====
	// A store that cannot be reached is logged, not fatal: the listener comes
	// up regardless and requests fail individually.
	store, mongoClient := connectStore(cfg)

	// ===== GIN MODE =====
	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	tokens := middleware.NewTokenService(cfg.TokenSecret)
	router := routes.SetupRouter(handlers.New(store, tokens), cfg.AllowedOrigin)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Blog server is running PORT: %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	// ===== GRACEFUL SHUTDOWN =====
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown:", err)
	}
	if err := mongoClient.Disconnect(); err != nil {
		log.Println("MongoDB disconnect failed:", err)
	}

	log.Println("Server stopped")
}

// connectStore builds the Mongo-backed store and pings it once. The returned
// client is nil when the driver rejected the configuration.
func connectStore(cfg config.Config) (database.Store, *database.Mongo) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	m, err := database.ConnectMongo(ctx, cfg.ConnectionString(), cfg.DBName)
	if err != nil {
		log.Println("MongoDB client setup failed:", err)
		return database.Unavailable(err), nil
	}

	if err := m.Ping(ctx); err != nil {
		log.Println("MongoDB ping failed:", err)
	} else {
		log.Println("Pinged your deployment. You successfully connected to MongoDB!")
	}
	return m.Store, m
}
