package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"pawrate_go_backend/cmd/api/config"
	"pawrate_go_backend/internal/api"
	"pawrate_go_backend/internal/auth"
	"pawrate_go_backend/internal/database"
	"pawrate_go_backend/internal/metrics"
	"pawrate_go_backend/internal/middleware"
	"pawrate_go_backend/internal/services"
	"pawrate_go_backend/internal/utils/broker"
	"pawrate_go_backend/internal/wsocket"

	"github.com/gorilla/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	genaiAPIKey := os.Getenv("GOOGLE_AI_STUDIO_API_KEY")
	if genaiAPIKey == "" {
		log.Fatal("GOOGLE_AI_STUDIO_API_KEY is not set in the environment")
	}

	gcsBucketName := os.Getenv("GCS_BUCKET_NAME")
	if gcsBucketName == "" {
		log.Fatal("GCS_BUCKET_NAME environment variable is not set")
	}

	ctx := context.Background()
	cfg := config.NewConfig()

	db, err := database.Init()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// External service clients
	stripePublicKey := os.Getenv("STRIPE_PUBLIC_KEY")
	stripeSecretKey := os.Getenv("STRIPE_SECRET_KEY")
	stripeWebhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	stripeService := services.NewStripeService(stripePublicKey, stripeSecretKey, stripeWebhookSecret)

	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(genaiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}
	defer genaiClient.Close()
	visionModel := genaiClient.GenerativeModel("gemini-1.5-flash")

	gcsService, err := services.NewGCSService(ctx, gcsBucketName)
	if err != nil {
		log.Fatalf("Failed to create GCS service: %v", err)
	}

	// Internal services
	collector := metrics.NewCollector()
	messageBroker := broker.NewBroker()

	userService := services.NewUserServiceDB(db)
	catService := services.NewCatServiceDB(db)
	usageService := services.NewUsageServiceDB(db)
	historyService := services.NewScanHistoryDB(db)

	imageService := services.NewImageService(cfg.MaxImageDimension, cfg.JPEGQuality)
	analysisService := services.NewAnalysisService(visionModel, cfg.AnalysisTimeout)
	scanService := services.NewScanService(
		analysisService,
		imageService,
		usageService,
		historyService,
		gcsService,
		messageBroker,
		collector,
		cfg.MaxImageBytes,
		cfg.SessionTimeout,
	)
	dietService := services.NewDietService(visionModel, catService, collector, cfg.GenerationTimeout)

	scanLimiter := middleware.NewRateLimiter(cfg.ScanRatePerMinute, cfg.ScanRateBurst)

	r := gin.Default()

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173"
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(allowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // TODO: Implement a more secure check in production
		},
	}
	wsHandler := wsocket.NewHandler(upgrader, messageBroker)

	api.SetupRoutes(
		r,
		scanService,
		dietService,
		catService,
		historyService,
		usageService,
		stripeService,
		gcsService,
		userService,
		messageBroker,
		collector,
		scanLimiter,
		cfg,
	)
	auth.SetupRoutes(r, userService)

	r.GET("/ws", auth.AuthMiddleware(userService), func(c *gin.Context) {
		user, _ := c.Get("user")
		wsHandler.HandleWebSocket(c.Writer, c.Request, user)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
