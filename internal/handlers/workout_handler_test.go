package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"workout-engine/internal/models"
	"workout-engine/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	exercises []models.Exercise
}

func (f *fakeCatalog) ListExercises(context.Context) ([]models.Exercise, error) {
	return f.exercises, nil
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func testCatalog() []models.Exercise {
	return []models.Exercise{
		{
			ID:               "desk-pushup",
			Name:             map[string]string{"en": "Desk Push-up", "he": "שכיבת שולחן"},
			MovementType:     models.MovementTypeCompound,
			MovementGroup:    models.MovementHorizontalPush,
			PrimaryMuscle:    models.MuscleChest,
			MechanicalType:   models.MechanicalBentArm,
			RecommendedLevel: 7,
			SweatLevel:       1,
			NoiseLevel:       1,
			Methods:          []models.ExecutionMethod{{Location: models.LocationOffice}},
		},
		{
			ID:               "chair-dip",
			Name:             map[string]string{"en": "Chair Dip"},
			MovementType:     models.MovementTypeCompound,
			MovementGroup:    models.MovementVerticalPush,
			PrimaryMuscle:    models.MuscleTriceps,
			MechanicalType:   models.MechanicalBentArm,
			RecommendedLevel: 8,
			SweatLevel:       1,
			NoiseLevel:       1,
			Methods:          []models.ExecutionMethod{{Location: models.LocationOffice}},
		},
	}
}

func newTestServer() (*echo.Echo, *WorkoutHandler) {
	catalog := &fakeCatalog{exercises: testCatalog()}
	orchestrator := services.NewOrchestrator(services.Providers{Exercises: catalog}, nil)
	handler := NewWorkoutHandler(orchestrator, catalog)

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	RegisterWorkoutRoutes(e, handler, NewPDFHandler(handler))
	return e, handler
}

func generateBody() string {
	return `{
		"user": {
			"weight_kg": 70,
			"lifestyle_tags": ["office_worker"],
			"progression": {"domains": {"upper_body": {"current_level": 8}}}
		},
		"options": {
			"location": "office",
			"intent": "normal",
			"available_time_min": 10,
			"difficulty_bolts": 2
		},
		"seed": 42
	}`
}

func TestGenerateEndpoint(t *testing.T) {
	e, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/workouts/generate", strings.NewReader(generateBody()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.HomeWorkoutResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotNil(t, result.Workout)
	assert.NotEmpty(t, result.Workout.ID)
	assert.GreaterOrEqual(t, len(result.Workout.Exercises), 2)
	assert.LessOrEqual(t, len(result.Workout.Exercises), 3)
	assert.Equal(t, models.LocationOffice, result.Meta.Location)
	assert.GreaterOrEqual(t, result.Workout.Stats.Calories, 50)
}

func TestGenerateEndpointSeedDeterminism(t *testing.T) {
	e, _ := newTestServer()

	run := func() models.HomeWorkoutResult {
		req := httptest.NewRequest(http.MethodPost, "/api/workouts/generate", strings.NewReader(generateBody()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var result models.HomeWorkoutResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		return result
	}

	a, b := run(), run()
	require.Len(t, b.Workout.Exercises, len(a.Workout.Exercises))
	for i := range a.Workout.Exercises {
		assert.Equal(t, a.Workout.Exercises[i].Exercise.ID, b.Workout.Exercises[i].Exercise.ID)
		assert.Equal(t, a.Workout.Exercises[i].Sets, b.Workout.Exercises[i].Sets)
		assert.Equal(t, a.Workout.Exercises[i].RepsOrHoldSeconds, b.Workout.Exercises[i].RepsOrHoldSeconds)
	}
}

func TestGenerateEndpointRejectsBadBolts(t *testing.T) {
	e, _ := newTestServer()

	body := strings.Replace(generateBody(), `"difficulty_bolts": 2`, `"difficulty_bolts": 9`, 1)
	req := httptest.NewRequest(http.MethodPost, "/api/workouts/generate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetWorkoutNotFound(t *testing.T) {
	e, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/workouts/no-such-id", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPDFExport(t *testing.T) {
	e, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/workouts/generate", strings.NewReader(generateBody()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.HomeWorkoutResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	req = httptest.NewRequest(http.MethodGet, "/api/workouts/"+result.Workout.ID+"/pdf", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestListExercises(t *testing.T) {
	e, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/exercises?location=office", nil)
	req.Header.Set("Accept-Language", "he")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Exercises []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"exercises"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 2, payload.Total)
	for _, item := range payload.Exercises {
		if item.ID == "desk-pushup" {
			assert.Equal(t, "שכיבת שולחן", item.Name)
		}
		if item.ID == "chair-dip" {
			// Falls back to English when no Hebrew name exists.
			assert.Equal(t, "Chair Dip", item.Name)
		}
	}
}
