package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Scheduler, cfg.Version)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	// Ad-hoc list access
	if cfg.Sources != nil {
		listsController := NewListsController(cfg.Sources)
		api.GET("/lists/sources", listsController.Sources)
		api.POST("/lists/detect", listsController.Detect)
		api.POST("/lists/:source/validate", listsController.Validate)
		api.POST("/lists/:source/fetch", listsController.Fetch)
		api.POST("/lists/:source/available", listsController.Available)
		api.POST("/lists/:source/parse-profile", listsController.ParseProfile)
	}

	// Stored list imports
	if cfg.Imports != nil {
		importsController := NewImportsController(cfg.Imports, cfg.Sources, cfg.Syncer, cfg.SyncEnqueuer)
		api.GET("/imports", importsController.List)
		api.POST("/imports", importsController.Create)
		api.GET("/imports/:id", importsController.Get)
		api.PATCH("/imports/:id", importsController.Update)
		api.DELETE("/imports/:id", importsController.Delete)
		api.GET("/imports/:id/books", importsController.Books)
		api.POST("/imports/:id/sync", importsController.Sync)
		api.POST("/imports/:id/resume", importsController.Resume)
	}

	// Task status
	if cfg.TaskStatus != nil {
		tasksController := NewTasksController(cfg.TaskStatus)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
