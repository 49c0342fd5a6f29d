package main

import (
	"log"
	"os"

	"github.com/sarraz13/agri-monitoring-backend/config"
	"github.com/sarraz13/agri-monitoring-backend/controllers"
	"github.com/sarraz13/agri-monitoring-backend/middlewares"
	"github.com/sarraz13/agri-monitoring-backend/ml"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Connect to PostgreSQL database
	dsn := os.Getenv("DATABASE_URL")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	// Set the global DB in the config package and migrate models
	controllers.MigrateModels(db)

	// Detection tuning (rule thresholds, severity boundaries, cooldown)
	if err := config.LoadDetectionConfig("."); err != nil {
		log.Fatal("Failed to load detection config: ", err)
	}

	// Load the trained model once; a missing model is fine, detection
	// then runs rule-only until an admin trains one.
	scorer := ml.NewScorer(config.Detection.ModelPath)
	controllers.SetupPipeline(db, scorer, &config.Detection)

	// Set up Gin router with CORS configuration
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Public routes
	r.POST("/signup", controllers.Signup)
	r.POST("/login", controllers.Login)

	// Protected routes using auth middleware
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	auth.GET("/ws", controllers.HandleWebSocket)
	auth.GET("/profile", controllers.GetProfile)
	auth.GET("/users", controllers.GetUsers)
	auth.POST("/promote-admin", controllers.PromoteToAdmin)

	auth.POST("/farms", controllers.CreateFarm)
	auth.GET("/farms", controllers.GetFarms)
	auth.DELETE("/farms/:id", controllers.DeleteFarm)
	auth.POST("/plots", controllers.CreatePlot)
	auth.GET("/plots", controllers.GetPlots)
	auth.DELETE("/plots/:id", controllers.DeletePlot)
	auth.GET("/plots/:id/status", controllers.GetPlotStatus)

	auth.POST("/readings", controllers.ReceiveReading)
	auth.GET("/history", controllers.GetHistory)
	auth.GET("/download-csv", controllers.DownloadCSV)
	auth.DELETE("/readings/:id", controllers.DeleteReading)
	auth.DELETE("/readings", controllers.DeleteAllReadings)

	auth.GET("/anomalies", controllers.GetAnomalies)
	auth.GET("/anomalies/count", controllers.GetAnomalyCount)
	auth.POST("/anomalies/:id/recommend", controllers.RecommendAnomaly)
	auth.GET("/recommendations", controllers.GetRecommendations)

	auth.POST("/train-model", controllers.TrainModel)
	auth.GET("/model/status", controllers.GetModelStatus)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
