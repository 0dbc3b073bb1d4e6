package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/aj9599/qr-slip/config"
	"github.com/aj9599/qr-slip/database"
	"github.com/aj9599/qr-slip/handlers"
	"github.com/aj9599/qr-slip/middleware"
	"github.com/aj9599/qr-slip/services"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

var (
	version   = "1.0.0" // Can be set during build: -ldflags "-X main.version=x.y.z"
	buildTime = "unknown"
	startTime = time.Now()
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("📁 No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded .env file")
	}
}

func main() {
	setupLogging()

	log.Println("╔══════════════════════════════════════════════════════════╗")
	log.Println("║               Qr Slip Generation Service                  ║")
	log.Println("╚══════════════════════════════════════════════════════════╝")
	log.Printf("Version: %s (Built: %s)", version, buildTime)

	goVersion := "unknown"
	if info, ok := debug.ReadBuildInfo(); ok {
		goVersion = info.GoVersion
	}
	log.Printf("Go Version: %s", goVersion)
	log.Println()

	cfg := config.Load()

	log.Println("🗄️  Initializing database...")
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	defer func() {
		log.Println("🗄️  Closing database connection...")
		db.Close()
	}()

	log.Println("🔄 Running database migrations...")
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}
	log.Println("✅ Database migrations completed")

	log.Println("📄 Loading qr_slip.html template...")
	composer, err := services.NewHTMLComposer(cfg.TemplateDir)
	if err != nil {
		log.Fatalf("❌ Failed to load qr_slip.html: %v", err)
	}
	log.Println("✅ Template loaded")

	log.Println("⚙️  Starting PDF engine...")
	engine, err := startPDFEngine(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to start PDF engine: %v", err)
	}
	defer stopPDFEngine(engine)

	coordinator := services.NewCoordinator(composer, engine)

	log.Println("🔌 Initializing handlers...")
	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret)
	slipHandler := handlers.NewSlipHandler(coordinator)
	log.Println("✅ Handlers initialized")

	r := mux.NewRouter()

	r.Use(middleware.Recover)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Logging)

	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/health", healthCheck).Methods("GET")
	r.HandleFunc("/api/version", versionHandler).Methods("GET")
	r.HandleFunc("/generate-slip", slipHandler.GenerateSlip).Methods("POST")

	if config.IsDevelopment() {
		log.Println("🐛 Registering debug artifact-dump endpoints (development mode)")
		r.HandleFunc("/dbg-qr-pdf", slipHandler.DebugDumpPDF).Methods("POST")
		r.HandleFunc("/dbg-qr-html", slipHandler.DebugDumpHTML).Methods("POST")
		r.HandleFunc("/dbg-qr-svg", slipHandler.DebugDumpSVG).Methods("POST")
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	api.HandleFunc("/auth/change-password", authHandler.ChangePassword).Methods("POST")
	api.HandleFunc("/auth/refresh-token", authHandler.RefreshToken).Methods("POST")

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   getAllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler(r)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println()
		log.Printf("🚀 Server started on port %d", cfg.ServerPort)
		if config.IsDevelopment() {
			log.Printf("📍 Local URL: http://localhost:%d", cfg.ServerPort)
			log.Printf("📍 Health Check: http://localhost:%d/api/health", cfg.ServerPort)
		}
		log.Println("Press Ctrl+C to stop the server")
		log.Println()

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed to start: %v", err)
		}
	}()

	gracefulShutdown(srv, db, engine)
}

// startPDFEngine chooses single-worker or process-pool mode per
// PDF_WORKER_POOL_SIZE (§4.E, §6).
func startPDFEngine(cfg *config.Config) (services.PDFEngine, error) {
	if cfg.PDFWorkerPoolSize > 0 {
		log.Printf("⚙️  Starting PDF worker pool (size=%d)", cfg.PDFWorkerPoolSize)
		return services.StartWorkerPool(cfg.PDFWorkerPoolSize)
	}
	log.Println("⚙️  Starting single PDF worker")
	return services.StartSingleWorker()
}

func stopPDFEngine(engine services.PDFEngine) {
	if stopper, ok := engine.(interface{ Stop() }); ok {
		stopper.Stop()
	}
}

func setupLogging() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	if config.IsDevelopment() {
		log.SetPrefix("DEV | ")
	} else {
		log.SetPrefix("PROD | ")
	}
}

func getAllowedOrigins() []string {
	if config.IsDevelopment() {
		return []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		}
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		return []string{origins}
	}
	return []string{"*"}
}

func gracefulShutdown(srv *http.Server, db interface{ Close() error }, engine services.PDFEngine) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Println()
	log.Println("⚠️  Shutdown signal received, initiating graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("🛑 Stopping HTTP server...")
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
	}

	log.Println("🛑 Stopping PDF engine...")
	stopPDFEngine(engine)

	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("❌ Database close error: %v", err)
	}

	log.Println("✅ Graceful shutdown completed")
	os.Exit(0)
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","uptime":"` + time.Since(startTime).String() + `"}`))
}

func versionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"version":"` + version + `","build_time":"` + buildTime + `"}`))
}
