package handlers

import (
	"net/http"
	"sync"
	"time"

	"workout-engine/internal/models"
	"workout-engine/internal/services"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
)

// WorkoutHandler exposes the generation engine over HTTP.
type WorkoutHandler struct {
	orchestrator *services.Orchestrator
	catalog      services.ExerciseCatalog

	mu       sync.RWMutex
	sessions map[string]*models.HomeWorkoutResult
}

// NewWorkoutHandler creates a workout handler.
func NewWorkoutHandler(orchestrator *services.Orchestrator, catalog services.ExerciseCatalog) *WorkoutHandler {
	return &WorkoutHandler{
		orchestrator: orchestrator,
		catalog:      catalog,
		sessions:     make(map[string]*models.HomeWorkoutResult),
	}
}

// Generate handles POST /api/workouts/generate.
func (h *WorkoutHandler) Generate(c echo.Context) error {
	var req models.GenerateWorkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Determinism lives in the core; the boundary derives a seed when the
	// client does not pin one.
	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	result := h.orchestrator.GenerateHomeWorkout(c.Request().Context(), &req.User, req.SessionOptions(), seed)

	h.mu.Lock()
	h.sessions[result.Workout.ID] = &result
	h.mu.Unlock()

	return c.JSON(http.StatusOK, result)
}

// Get handles GET /api/workouts/:id.
func (h *WorkoutHandler) Get(c echo.Context) error {
	result := h.lookup(c.Param("id"))
	if result == nil {
		return echo.NewHTTPError(http.StatusNotFound, "workout not found")
	}
	return c.JSON(http.StatusOK, result)
}

// ListExercises handles GET /api/exercises.
func (h *WorkoutHandler) ListExercises(c echo.Context) error {
	var params models.ExerciseSearchParams
	if err := c.Bind(&params); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&params); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if params.Limit == 0 {
		params.Limit = 50
	}

	exercises, err := h.catalog.ListExercises(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "catalog unavailable")
	}

	lang := preferredLanguage(c.Request().Header.Get("Accept-Language"))

	type listItem struct {
		ID            string               `json:"id"`
		Name          string               `json:"name"`
		MovementGroup models.MovementGroup `json:"movement_group"`
		PrimaryMuscle models.MuscleGroup   `json:"primary_muscle"`
		Role          models.ExerciseRole  `json:"role"`
	}

	var filtered []listItem
	for i := range exercises {
		e := &exercises[i]
		if params.Role != "" && string(e.Role) != params.Role {
			continue
		}
		if params.Program != "" && !services.ExerciseMatchesProgram(e, models.ProgramKey(params.Program)) {
			continue
		}
		if params.Location != "" {
			if services.ResolveMethod(e, models.Location(params.Location), nil, false) == nil {
				continue
			}
		}
		filtered = append(filtered, listItem{
			ID:            e.ID,
			Name:          e.DisplayName(lang),
			MovementGroup: e.MovementGroup,
			PrimaryMuscle: e.PrimaryMuscle,
			Role:          e.Role,
		})
	}

	total := len(filtered)
	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"exercises": filtered[start:end],
		"total":     total,
		"limit":     params.Limit,
		"offset":    params.Offset,
	})
}

func (h *WorkoutHandler) lookup(id string) *models.HomeWorkoutResult {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions[id]
}

// supportedLanguages drives Accept-Language matching for localized names.
var supportedLanguages = language.NewMatcher([]language.Tag{
	language.English,
	language.Hebrew,
	language.Arabic,
})

// preferredLanguage picks the best supported language code from an
// Accept-Language header, defaulting to English.
func preferredLanguage(header string) string {
	if header == "" {
		return "en"
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "en"
	}
	_, index, _ := supportedLanguages.Match(tags...)
	switch index {
	case 1:
		return "he"
	case 2:
		return "ar"
	default:
		return "en"
	}
}
