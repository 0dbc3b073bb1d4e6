package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabasePath      string
	ServerAddress     string
	ServerPort        int
	JWTSecret         string
	TemplateDir       string
	PDFWorkerPoolSize int
	LogLevel          string
}

func Load() *Config {
	// Get port from environment variable
	// Priority: SERVER_PORT > PORT > default 8080
	port := getEnvInt("SERVER_PORT", getEnvInt("PORT", 8080))

	// Get JWT secret (warn if using default)
	jwtSecret := getEnv("JWT_SECRET", "qr-slip-secret-change-in-production")
	if jwtSecret == "qr-slip-secret-change-in-production" {
		log.Println("⚠️  WARNING: Using default JWT_SECRET!")
		log.Println("⚠️  Set JWT_SECRET environment variable for production.")
	}

	poolSize := getEnvInt("PDF_WORKER_POOL_SIZE", 0)
	if poolSize < 0 {
		poolSize = 0
	}

	cfg := &Config{
		DatabasePath:      getEnv("DATABASE_PATH", getEnv("DB_PATH", "./qr-slip.db")),
		ServerAddress:     ":" + strconv.Itoa(port),
		ServerPort:        port,
		JWTSecret:         jwtSecret,
		TemplateDir:       getEnv("QR_TEMPLATE_DIR", "./templates"),
		PDFWorkerPoolSize: poolSize,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	// Log loaded configuration (without secrets)
	log.Printf("📋 Configuration loaded:")
	log.Printf("   Database: %s", cfg.DatabasePath)
	log.Printf("   Server Port: %d", cfg.ServerPort)
	log.Printf("   Template dir: %s", cfg.TemplateDir)
	log.Printf("   PDF worker pool size: %d (%s)", cfg.PDFWorkerPoolSize, poolModeLabel(cfg.PDFWorkerPoolSize))
	log.Printf("   Log Level: %s", cfg.LogLevel)
	log.Printf("   JWT Secret: %s", boolToStatus(jwtSecret != "qr-slip-secret-change-in-production"))

	return cfg
}

func poolModeLabel(size int) string {
	if size > 0 {
		return "process-pool mode"
	}
	return "single-worker mode"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func boolToStatus(b bool) string {
	if b {
		return "✅ Set"
	}
	return "❌ Not Set"
}

// IsDevelopment checks if we're in development mode. Debug-only routes
// (§6) are gated on this rather than a compile-time flag.
func IsDevelopment() bool {
	env := strings.ToLower(getEnv("ENVIRONMENT", getEnv("ENV", "development")))
	return env == "development" || env == "dev"
}

// IsProduction checks if we're in production mode.
func IsProduction() bool {
	env := strings.ToLower(getEnv("ENVIRONMENT", getEnv("ENV", "development")))
	return env == "production" || env == "prod"
}
