package handlers

import (
	"github.com/labstack/echo/v4"
)

// RegisterWorkoutRoutes mounts the generation API.
func RegisterWorkoutRoutes(e *echo.Echo, workouts *WorkoutHandler, pdfs *PDFHandler) {
	api := e.Group("/api")

	api.POST("/workouts/generate", workouts.Generate)
	api.GET("/workouts/:id", workouts.Get)
	api.GET("/workouts/:id/pdf", pdfs.Export)
	api.GET("/exercises", workouts.ListExercises)
}
