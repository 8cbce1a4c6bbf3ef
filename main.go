package main

import (
	"fmt"
	"os"

	"salesnotes-backend/config"
	"salesnotes-backend/controllers"
	"salesnotes-backend/models"
	"salesnotes-backend/routes"
	"salesnotes-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		config.GetLogger().Info("No .env file found")
	}
	config.ConnectDB()
	config.ConnectS3()

	config.DB.AutoMigrate(
		&models.SalesNote{},
		&models.LineItem{},
		&models.TrackingMetadata{},
	)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3002"
	}

	store := services.NewGormNoteStore(config.DB)
	catalog := services.NewCatalogService(config.CatalogServiceURL())
	renderer := services.NewPDFService()
	archive := services.NewArchiveService(config.S3, config.BucketName())
	notifier := services.NewNotificationService(config.NotificationServiceURL(), config.APIBaseURL())

	noteService := services.NewNoteService(store, catalog, renderer, archive, notifier)

	reconciler := services.NewReconcileService(store, catalog, archive)
	reconciler.StartScheduler()

	r := routes.SetupRouter(controllers.NewNoteController(noteService))
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
