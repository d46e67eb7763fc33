package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"sermon-studio/backend/internal/generation"
	"sermon-studio/backend/internal/generation/dispatch"
	"sermon-studio/backend/internal/handler"
	"sermon-studio/backend/internal/middleware"
	"sermon-studio/backend/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	godotenv.Load(".env.local")

	env := os.Getenv("ENV")
	log.Printf("[INFO] Starting Sermon Studio backend env=%s", env)

	authSecret := os.Getenv("AUTH_SECRET")
	if authSecret == "" {
		log.Fatal("[FATAL] AUTH_SECRET is not set")
	}

	sermonURL := os.Getenv("SERMON_WEBHOOK_URL")
	devotionalURL := os.Getenv("DEVOTIONAL_WEBHOOK_URL")
	if sermonURL == "" || devotionalURL == "" {
		log.Fatal("[FATAL] SERMON_WEBHOOK_URL and DEVOTIONAL_WEBHOOK_URL must be set")
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "generations.db"
	}
	gormStore, err := store.Open(os.Getenv("DATABASE_DRIVER"), dsn)
	if err != nil {
		log.Fatalf("[FATAL] Failed to open record store: %v", err)
	}
	log.Println("[INFO] Record store ready")

	// No timeout on the generation client: a hung remote call keeps the
	// request pending until the webhook side gives up.
	dispatcher := dispatch.NewDispatcher(&http.Client{}, sermonURL, devotionalURL)
	svc := generation.NewService(gormStore, dispatcher)
	api := handler.NewAPI(svc)
	health := handler.NewHealth(gormStore)

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// Security headers (before CORS)
	r.Use(middleware.SecurityHeaders())

	allowedOrigins := []string{}
	if gin.Mode() != gin.ReleaseMode {
		allowedOrigins = append(allowedOrigins, "http://localhost:5173")
	}
	if cloudRunURL := os.Getenv("CLOUD_RUN_URL"); cloudRunURL != "" {
		allowedOrigins = append(allowedOrigins, cloudRunURL)
	}
	if extraOrigins := os.Getenv("ALLOWED_ORIGINS"); extraOrigins != "" {
		allowedOrigins = append(allowedOrigins, strings.Split(extraOrigins, ",")...)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limit only the generate route: every call hits the paid
	// generation webhook.
	ipLimiter := middleware.NewIPRateLimiter(rate.Every(2*time.Second), 2)
	dailyQuota := middleware.NewDailyQuota(200)
	log.Printf("[INFO] Rate limiting enabled")

	// Health check endpoints (outside /api group, no auth)
	r.GET("/health", health.HandleHealth)
	r.GET("/ready", health.HandleReadiness)

	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.RequireUser([]byte(authSecret)))
	api.RegisterRoutes(apiGroup, middleware.RateLimitMiddleware(ipLimiter, dailyQuota))

	if env == "production" {
		r.Static("/assets", "/app/static/assets")

		r.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(404, gin.H{"error": "Not found"})
				return
			}
			c.File("/app/static/index.html")
		})
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("[INFO] Server ready port=%s allowed_origins=%v", port, allowedOrigins)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("[FATAL] Failed to start server: %v", err)
	}
}
