package handlers

import (
	"fmt"
	"net/http"

	"workout-engine/internal/utils/pdf"

	"github.com/labstack/echo/v4"
)

// PDFHandler renders stored generations as printable plans.
type PDFHandler struct {
	workouts *WorkoutHandler
}

// NewPDFHandler creates a PDF handler over the workout session store.
func NewPDFHandler(workouts *WorkoutHandler) *PDFHandler {
	return &PDFHandler{workouts: workouts}
}

// Export handles GET /api/workouts/:id/pdf.
func (h *PDFHandler) Export(c echo.Context) error {
	result := h.workouts.lookup(c.Param("id"))
	if result == nil {
		return echo.NewHTTPError(http.StatusNotFound, "workout not found")
	}

	workout := result.Workout
	lang := preferredLanguage(c.Request().Header.Get("Accept-Language"))

	subtitle := fmt.Sprintf("%s | %d min | %d kcal | %s",
		workout.Location, workout.EstimatedDurationMin, workout.Stats.Calories, workout.Structure)

	var lines []string
	for i, we := range workout.Exercises {
		unit := "reps"
		if we.IsTimeBased {
			unit = "sec hold"
		}
		lines = append(lines, fmt.Sprintf("%d. %s - %d x %d %s, rest %ds",
			i+1, we.Exercise.DisplayName(lang), we.Sets, we.RepsOrHoldSeconds, unit, we.RestSeconds))
	}
	if adj := workout.VolumeAdjustment; adj != nil {
		lines = append(lines, fmt.Sprintf("Volume: %s (-%d%% sets)", adj.Badge, adj.ReductionPercent))
	}

	data, err := pdf.RenderWorkoutPlan(workout.Title, subtitle, lines)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render pdf")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="workout-%s.pdf"`, workout.ID))
	return c.Blob(http.StatusOK, "application/pdf", data)
}
