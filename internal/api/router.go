package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bilaalmunir/email-to-summary-automation/internal/api/handlers"
	"github.com/bilaalmunir/email-to-summary-automation/internal/config"
	"github.com/bilaalmunir/email-to-summary-automation/internal/functions/ai"
	"github.com/bilaalmunir/email-to-summary-automation/internal/services"
)

// SetupRouter initializes and returns the Gin router with all routes configured
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.CORSOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	logService := services.NewLogServiceWithLevel(db, cfg.LogLevel)

	aiClient := ai.NewClient()
	aiClient.ConfigureWithBaseURL(cfg.AIProvider, cfg.AIAPIKey, cfg.AIModel, cfg.AIBaseURL)

	summarizer := services.NewSummarizerService(aiClient, logService)
	extractor := services.NewExtractorService(cfg.IMAPHost, cfg.IMAPPort, summarizer, logService)
	store := services.NewStoreService(db, logService)

	emailHandler := handlers.NewEmailHandler(extractor, store, logService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.POST("/extract", emailHandler.Extract)
	router.GET("/emails", emailHandler.ListEmails)

	return router
}
