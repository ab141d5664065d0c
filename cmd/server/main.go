package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/tropicaldog17/rwa/internal/config"
	"github.com/tropicaldog17/rwa/internal/db"
	_ "github.com/tropicaldog17/rwa/internal/docs"
	"github.com/tropicaldog17/rwa/internal/handlers"
	"github.com/tropicaldog17/rwa/internal/logger"
	"github.com/tropicaldog17/rwa/internal/repositories"
	"github.com/tropicaldog17/rwa/internal/services"
	"go.uber.org/zap"
)

// @title RWA Portfolio Ledger API
// @version 1.0
// @description Portfolio documents for real-world asset SPVs.
// @BasePath /api
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer zlog.Sync()

	// Database connection
	database, err := db.Connect(cfg.Database)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	// Test database connection
	if err := database.Health(); err != nil {
		zlog.Fatal("Database health check failed", zap.Error(err))
	}
	zlog.Info("Database connection established", zap.String("driver", cfg.Database.Driver))

	applied, err := db.Migrate(database)
	if err != nil {
		zlog.Fatal("Migration failed", zap.Error(err))
	}
	zlog.Info("Migrations up to date", zap.Int("applied", len(applied)))

	// Initialize services
	documentRepo := repositories.NewDocumentRepository(database)
	documentService := services.NewDocumentService(documentRepo, zlog, cfg.Cache.GetTTL())

	// Initialize handlers
	documentHandler := handlers.NewDocumentHandler(documentService)

	// Setup HTTP server
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status, code := "healthy", http.StatusOK
		if err := database.Health(); err != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{
			"status":  status,
			"service": "rwa-backend",
		})
	}).Methods(http.MethodGet)

	documentHandler.RegisterRoutes(router)
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// CORS middleware
	corsHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           corsHandler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Graceful shutdown failed", zap.Error(err))
	}
	zlog.Info("Server stopped")
}
