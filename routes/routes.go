package routes

import (
	"salesnotes-backend/config"
	"salesnotes-backend/controllers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(notes *controllers.NoteController) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Authorization", "Content-Type"}
	r.Use(cors.New(corsConfig))

	r.Use(config.PerformanceLogger())

	r.GET("/", controllers.Index)
	r.GET("/health", controllers.Health)

	api := r.Group("/api")
	{
		salesNotes := api.Group("/sales-notes")
		{
			salesNotes.POST("", notes.CreateNote)
			salesNotes.GET("", notes.ListNotes)
			salesNotes.GET("/:id", notes.GetNote)
			salesNotes.GET("/:id/pdf", notes.DownloadNote)
			salesNotes.POST("/:id/send", notes.ResendNote)
		}
	}

	return r
}
