package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"workout-engine/internal/models"
)

type stubCatalog struct {
	exercises []models.Exercise
	err       error
}

func (s *stubCatalog) ListExercises(context.Context) ([]models.Exercise, error) {
	return s.exercises, s.err
}

type stubPrograms struct {
	programs []models.Program
	calls    int
}

func (s *stubPrograms) ListPrograms(context.Context) ([]models.Program, error) {
	s.calls++
	return s.programs, nil
}

func officeUser() *models.UserProfile {
	return &models.UserProfile{
		WeightKg:      70,
		LifestyleTags: []models.Persona{models.PersonaOfficeWorker},
		Progression: models.Progression{
			Domains: map[models.LevelDomain]models.DomainLevel{
				models.DomainUpperBody: {CurrentLevel: 8},
			},
			LastActiveDate: time.Now().UTC().AddDate(0, 0, -2).Format("2006-01-02"),
		},
	}
}

func officeCatalog() []models.Exercise {
	deskPushup := officeExercise("desk-pushup", 1, 1)
	deskPushup.RecommendedLevel = 7
	chairDip := officeExercise("chair-dip", 1, 1)
	chairDip.RecommendedLevel = 8
	jumpingJack := officeExercise("jumping-jack", 3, 2)
	jumpingJack.PrimaryMuscle = models.MuscleCardio
	return []models.Exercise{deskPushup, chairDip, jumpingJack}
}

func newTestOrchestrator(catalog []models.Exercise) *Orchestrator {
	return NewOrchestrator(Providers{
		Exercises: &stubCatalog{exercises: catalog},
	}, nil)
}

func TestMorningOfficeQuickSession(t *testing.T) {
	o := newTestOrchestrator(officeCatalog())
	result := o.GenerateHomeWorkout(context.Background(), officeUser(), models.SessionOptions{
		Location:         models.LocationOffice,
		Intent:           models.IntentNormal,
		AvailableTimeMin: 10,
		DifficultyBolts:  2,
	}, 42)

	workout := result.Workout
	if n := len(workout.Exercises); n < 2 || n > 3 {
		t.Fatalf("quick session has %d exercises, want 2..3", n)
	}
	for _, we := range workout.Exercises {
		if we.Exercise.ID == "jumping-jack" {
			t.Error("sweaty exercise must not appear in an office session")
		}
		if !we.Method.AppliesTo(models.LocationOffice) {
			t.Errorf("method for %s does not serve the session location", we.Exercise.ID)
		}
	}
	if workout.Structure != models.StructureCircuit {
		t.Errorf("structure = %s, want circuit for a tiny session", workout.Structure)
	}
	if workout.Stats.Calories < BaseWorkoutCalories {
		t.Errorf("calories = %d, below the session floor", workout.Stats.Calories)
	}
	if result.Meta.ExercisesExcluded != 1 {
		t.Errorf("meta excluded = %d, want 1", result.Meta.ExercisesExcluded)
	}
	if result.Meta.DaysInactive != 2 {
		t.Errorf("meta days inactive = %d, want 2", result.Meta.DaysInactive)
	}
	if result.Meta.Persona != models.PersonaOfficeWorker {
		t.Errorf("meta persona = %s", result.Meta.Persona)
	}
}

func TestBlastAtHomeWithInjury(t *testing.T) {
	hinge := officeExercise("deadlift-hinge", 2, 1)
	hinge.MovementGroup = models.MovementHinge
	hinge.InjuryStressAreas = []models.InjuryArea{"lower_back"}
	hinge.Methods = []models.ExecutionMethod{{Location: models.LocationHome}}

	burpee := officeExercise("burpee", 3, 2)
	burpee.MechanicalType = models.MechanicalHybrid
	burpee.RecommendedLevel = 11
	burpee.Methods = []models.ExecutionMethod{{Location: models.LocationHome}}

	user := officeUser()
	user.Progression.Domains[models.DomainUpperBody] = models.DomainLevel{CurrentLevel: 12}
	user.Injuries = []models.InjuryArea{"lower_back"}

	o := newTestOrchestrator([]models.Exercise{hinge, burpee})
	result := o.GenerateHomeWorkout(context.Background(), user, models.SessionOptions{
		Location:         models.LocationHome,
		Intent:           models.IntentBlast,
		AvailableTimeMin: 20,
		DifficultyBolts:  2,
	}, 7)

	workout := result.Workout
	for _, we := range workout.Exercises {
		if we.Exercise.ID == "deadlift-hinge" {
			t.Error("injury-stressing exercise must be excluded")
		}
	}
	found := false
	for _, we := range workout.Exercises {
		if we.Exercise.ID == "burpee" {
			found = true
			if we.RestSeconds != 30 {
				t.Errorf("blast rest = %d, want 30", we.RestSeconds)
			}
		}
	}
	if !found {
		t.Fatal("burpee should survive the blast filters")
	}
	if workout.Structure != models.StructureEMOM && workout.Structure != models.StructureAMRAP {
		t.Errorf("blast structure = %s", workout.Structure)
	}
}

func TestStrictPullingProgramIntense(t *testing.T) {
	row := models.Exercise{
		ID:               "weighted-row",
		Name:             map[string]string{"en": "Weighted Row"},
		MovementType:     models.MovementTypeCompound,
		MovementGroup:    models.MovementHorizontalPull,
		PrimaryMuscle:    models.MuscleBack,
		MechanicalType:   models.MechanicalBentArm,
		RecommendedLevel: 15,
		SweatLevel:       1,
		NoiseLevel:       1,
		Methods:          []models.ExecutionMethod{{Location: models.LocationHome}},
	}
	push := officeExercise("pushup", 1, 1)
	push.Methods = []models.ExecutionMethod{{Location: models.LocationHome}}

	matrix := models.NewDefaultShadowMatrix()
	matrix.Programs[models.ProgramPulling] = models.LevelOverride{Level: 14, Override: true}

	user := officeUser()
	user.Progression.Domains[models.DomainUpperBody] = models.DomainLevel{CurrentLevel: 14}

	o := newTestOrchestrator([]models.Exercise{row, push})
	result := o.GenerateHomeWorkout(context.Background(), user, models.SessionOptions{
		Location:         models.LocationHome,
		AvailableTimeMin: 30,
		DifficultyBolts:  3,
		ShadowMatrix:     matrix,
	}, 3)

	workout := result.Workout
	if len(workout.Exercises) != 1 || workout.Exercises[0].Exercise.ID != "weighted-row" {
		t.Fatalf("strict pulling filter failed: %+v", workout.Exercises)
	}
	we := workout.Exercises[0]
	if !we.IsOverLevel {
		t.Error("level 15 over user 14 should be tagged over-level at bolts 3")
	}
	if we.RestSeconds < 150 || we.RestSeconds >= 180 {
		t.Errorf("intense rest = %d, want [150,180)", we.RestSeconds)
	}
}

func TestFirstSessionClamp(t *testing.T) {
	catalog := officeCatalog()
	o := newTestOrchestrator(catalog)
	result := o.GenerateHomeWorkout(context.Background(), officeUser(), models.SessionOptions{
		Location:                models.LocationOffice,
		AvailableTimeMin:        30,
		DifficultyBolts:         3,
		IsFirstSessionInProgram: true,
	}, 5)

	if result.Workout.Bolts != 1 {
		t.Errorf("first session bolts = %d, want 1", result.Workout.Bolts)
	}
}

func TestEmptyCatalogYieldsEmptySession(t *testing.T) {
	o := newTestOrchestrator(nil)
	result := o.GenerateHomeWorkout(context.Background(), officeUser(), models.SessionOptions{}, 1)

	if len(result.Workout.Exercises) != 0 {
		t.Error("empty catalog must yield an empty session")
	}
	if result.Meta.ExercisesConsidered != 0 {
		t.Errorf("considered = %d, want 0", result.Meta.ExercisesConsidered)
	}

	// Provider failure degrades the same way.
	failing := NewOrchestrator(Providers{
		Exercises: &stubCatalog{err: errors.New("catalog down")},
	}, nil)
	result = failing.GenerateHomeWorkout(context.Background(), officeUser(), models.SessionOptions{}, 1)
	if len(result.Workout.Exercises) != 0 {
		t.Error("catalog failure must degrade to an empty session")
	}
}

func TestGenerateHomeWorkoutDeterministic(t *testing.T) {
	opts := models.SessionOptions{
		Location:         models.LocationOffice,
		AvailableTimeMin: 10,
		DifficultyBolts:  2,
		TimeOfDay:        models.TimeMorning,
	}
	days := 2
	opts.DaysInactiveOverride = &days

	a := newTestOrchestrator(officeCatalog()).GenerateHomeWorkout(context.Background(), officeUser(), opts, 42)
	b := newTestOrchestrator(officeCatalog()).GenerateHomeWorkout(context.Background(), officeUser(), opts, 42)

	// Session ids are freshly minted; everything else must match.
	a.Workout.ID, b.Workout.ID = "", ""
	if !reflect.DeepEqual(a, b) {
		t.Error("fixed seed must reproduce the result")
	}
}

func TestContentOverrideApplied(t *testing.T) {
	provider := &stubContentProvider{rows: map[models.ContentKind][]models.ContentRow{
		models.ContentTitles: {
			{ID: "1", Persona: "office_worker", Text: "בוקר של אלופים"},
		},
	}}
	o := NewOrchestrator(Providers{
		Exercises: &stubCatalog{exercises: officeCatalog()},
		Content:   provider,
	}, nil)

	result := o.GenerateHomeWorkout(context.Background(), officeUser(), models.SessionOptions{
		Location:         models.LocationOffice,
		AvailableTimeMin: 10,
	}, 42)

	if result.Workout.Title != "בוקר של אלופים" {
		t.Errorf("title = %q, want the resolved content row", result.Workout.Title)
	}
	if result.Workout.Description == "" {
		t.Error("description must keep the generator default when no row resolves")
	}
}

func TestAncestorProgramIDs(t *testing.T) {
	programs := []models.Program{
		{ID: "root", SubPrograms: []string{"mid"}},
		{ID: "mid", SubPrograms: []string{"leaf"}},
		{ID: "unrelated", SubPrograms: []string{"other"}},
	}

	got := AncestorProgramIDs(programs, "leaf")
	want := []string{"mid", "root"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ancestors = %v, want %v", got, want)
	}

	// Cycles terminate.
	cyclic := []models.Program{
		{ID: "a", SubPrograms: []string{"b"}},
		{ID: "b", SubPrograms: []string{"a"}},
	}
	got = AncestorProgramIDs(cyclic, "a")
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("cyclic ancestors = %v, want [b]", got)
	}
}

func TestProgramCacheTTL(t *testing.T) {
	provider := &stubPrograms{programs: []models.Program{{ID: "p"}}}
	cache := NewProgramCache()
	clock := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }

	cache.Get(context.Background(), provider)
	cache.Get(context.Background(), provider)
	if provider.calls != 1 {
		t.Errorf("cache hit should not refetch, calls = %d", provider.calls)
	}

	clock = clock.Add(6 * time.Minute)
	cache.Get(context.Background(), provider)
	if provider.calls != 2 {
		t.Errorf("expired cache should refetch, calls = %d", provider.calls)
	}
}
