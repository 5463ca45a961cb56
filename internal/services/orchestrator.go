package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"workout-engine/internal/logger"
	"workout-engine/internal/models"
	"workout-engine/internal/utils"
)

// programCacheTTL bounds how long the program list is reused between
// orchestrator calls.
const programCacheTTL = 5 * time.Minute

// maxAncestorDepth guards the ancestor walk against misconfigured program
// graphs.
const maxAncestorDepth = 8

// ProgramCache is an explicit TTL cache for program records, owned by the
// orchestrator instance. No package-level state.
type ProgramCache struct {
	mu        sync.Mutex
	programs  []models.Program
	fetchedAt time.Time
	now       func() time.Time
}

// NewProgramCache constructs an empty cache.
func NewProgramCache() *ProgramCache {
	return &ProgramCache{now: time.Now}
}

// Get returns the cached program list, refreshing through the provider when
// the TTL lapsed. Provider failures fall back to the stale copy.
func (c *ProgramCache) Get(ctx context.Context, provider ProgramProvider) []models.Program {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.programs != nil && c.now().Sub(c.fetchedAt) < programCacheTTL {
		return c.programs
	}
	if provider == nil {
		return c.programs
	}
	fresh, err := provider.ListPrograms(ctx)
	if err != nil {
		return c.programs
	}
	c.programs = fresh
	c.fetchedAt = c.now()
	return c.programs
}

// Orchestrator assembles the session context, drives the pipeline, applies
// content overrides and emits the result.
type Orchestrator struct {
	providers    Providers
	programCache *ProgramCache
	log          *logger.Logger
	now          func() time.Time
}

// NewOrchestrator wires the orchestrator over its providers.
func NewOrchestrator(providers Providers, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		providers:    providers,
		programCache: NewProgramCache(),
		log:          log,
		now:          time.Now,
	}
}

// GenerateHomeWorkout is the primary entry point: it builds the engine and
// generation contexts from the profile and options, runs filter, generation
// and cooldown, overlays resolved content, and returns the session with its
// meta. It never returns an error for data-shape issues; provider failures
// degrade to an empty or default-labeled session.
func (o *Orchestrator) GenerateHomeWorkout(ctx context.Context, user *models.UserProfile, opts models.SessionOptions, seed int64) models.HomeWorkoutResult {
	opts.ApplyDefaults()
	rng := utils.NewRand(seed)
	now := o.now()

	timeOfDay := opts.TimeOfDay
	if timeOfDay == "" {
		timeOfDay = utils.DetectTimeOfDay(now)
	}

	daysInactive := utils.CalculateDaysInactive(user.Progression.LastActiveDate, now)
	if opts.DaysInactiveOverride != nil {
		daysInactive = *opts.DaysInactiveOverride
	}

	persona := user.PrimaryPersona()
	if opts.PersonaOverride != "" {
		persona = opts.PersonaOverride
	}

	injuries := user.Injuries
	if opts.InjuryOverride != nil {
		injuries = opts.InjuryOverride
	}

	equipment := user.EquipmentFor(opts.Location)
	if opts.EquipmentOverride != nil {
		equipment = opts.EquipmentOverride
	}

	catalog, err := o.providers.Exercises.ListExercises(ctx)
	if err != nil {
		o.logDebug("exercise catalog unavailable", "error", err.Error())
		catalog = nil
	}

	lifestyles := user.LifestyleTags
	if len(lifestyles) > 3 {
		lifestyles = lifestyles[:3]
	}
	if opts.PersonaOverride != "" {
		lifestyles = []models.Persona{opts.PersonaOverride}
	}

	engineCtx := EngineContext{
		Location:           opts.Location,
		Lifestyles:         lifestyles,
		Injuries:           injuries,
		Intent:             opts.Intent,
		AvailableEquipment: equipment,
		GetUserLevel: func(e *models.Exercise) int {
			return EffectiveLevel(e, user, opts.ShadowMatrix)
		},
		LevelTolerance:  opts.LevelTolerance,
		SelectedProgram: opts.SelectedProgram,
	}
	if opts.ShadowMatrix != nil {
		engineCtx.ActiveProgramFilters = opts.ShadowMatrix.ActiveProgramFilters()
	}

	engineResult := FilterAndScore(catalog, engineCtx)

	genCtx := GenerationContext{
		AvailableTimeMin:        opts.AvailableTimeMin,
		UserLevel:               user.HighestDomainLevel(),
		DaysInactive:            daysInactive,
		Intent:                  opts.Intent,
		Persona:                 persona,
		Location:                opts.Location,
		InjuryCount:             len(injuries),
		DifficultyBolts:         opts.DifficultyBolts,
		UserWeightKg:            user.WeightKg,
		IsFirstSessionInProgram: opts.IsFirstSessionInProgram,
		AdjustedRestSeconds:     engineResult.AdjustedRestSeconds,
		RNG:                     rng,
	}

	workout := Generate(engineResult.Exercises, genCtx)
	workout.ID = uuid.New().String()
	if engineResult.AICue != "" {
		workout.AICue = engineResult.AICue
	}

	meta := o.buildMetadataContext(ctx, user, opts, workout, persona, timeOfDay, daysInactive, now)
	AppendCooldown(workout, catalog, opts.Location)

	if ctx.Err() == nil {
		resolver := NewContentResolver(o.providers.Content, rng)
		resolved := resolver.Resolve(ctx, meta)
		if resolved.Title != nil {
			workout.Title = *resolved.Title
		}
		if resolved.Description != nil {
			workout.Description = *resolved.Description
		}
		if resolved.AICue != nil {
			workout.AICue = *resolved.AICue
		}
	}

	return models.HomeWorkoutResult{
		Workout: workout,
		Meta: models.WorkoutMeta{
			DaysInactive:        daysInactive,
			Persona:             persona,
			Location:            opts.Location,
			TimeOfDay:           timeOfDay,
			InjuryAreas:         injuries,
			ExercisesConsidered: len(engineResult.Exercises),
			ExercisesExcluded:   engineResult.ExcludedCount,
		},
	}
}

// buildMetadataContext derives the content-scoring context from the profile
// and the generated block.
func (o *Orchestrator) buildMetadataContext(
	ctx context.Context,
	user *models.UserProfile,
	opts models.SessionOptions,
	workout *models.GeneratedWorkout,
	persona models.Persona,
	timeOfDay models.TimeOfDay,
	daysInactive int,
	now time.Time,
) *models.MetadataContext {
	meta := &models.MetadataContext{
		Persona:         persona,
		Location:        opts.Location,
		TimeOfDay:       timeOfDay,
		Gender:          user.Gender,
		DaysInactive:    daysInactive,
		ProgramProgress: user.Progression.ProgramProgress,
		CurrentProgram:  user.Progression.CurrentProgram,
		TargetLevel:     user.Progression.TargetLevel,
		IsStudying:      persona == models.PersonaStudent || persona == models.PersonaSchoolStudent,
		DayPeriod:       utils.DetectDayPeriod(now),
		DurationMinutes: workout.EstimatedDurationMin,
		Difficulty:      workout.Bolts,
		IsActiveReserve: user.IsActiveReserve,
		ActiveProgramID: user.Progression.CurrentProgram,
	}

	if track, ok := user.Progression.Tracks[meta.ActiveProgramID]; ok {
		meta.ProgramLevel = track.Level
		meta.SportType = track.SportType
	}

	meta.DominantMuscle = dominantMuscle(workout)
	meta.Category = inferCategory(workout, opts.Intent)
	meta.CategoryLabel = meta.Category

	if meta.ActiveProgramID != "" {
		programs := o.programCache.Get(ctx, o.providers.Programs)
		meta.AncestorProgramIDs = AncestorProgramIDs(programs, meta.ActiveProgramID)
	}

	return meta
}

// dominantMuscle returns the primary muscle appearing in more than half of
// the strength-block exercises, or empty.
func dominantMuscle(workout *models.GeneratedWorkout) models.MuscleGroup {
	counts := make(map[models.MuscleGroup]int)
	total := 0
	for _, we := range workout.Exercises {
		counts[we.Exercise.PrimaryMuscle]++
		total++
	}
	for muscle, n := range counts {
		if total > 0 && n*2 > total {
			return muscle
		}
	}
	return ""
}

// inferCategory labels the session for content scoring.
func inferCategory(workout *models.GeneratedWorkout, intent models.Intent) string {
	if intent == models.IntentBlast {
		return "hiit"
	}
	skill := 0
	mobility := 0
	for _, we := range workout.Exercises {
		if we.Priority == models.PrioritySkill {
			skill++
		}
		if we.Exercise.HasTag("mobility") {
			mobility++
		}
	}
	n := len(workout.Exercises)
	switch {
	case n > 0 && mobility*2 > n:
		return "mobility"
	case skill > 0:
		return "skills"
	default:
		return "general"
	}
}

// AncestorProgramIDs walks the program DAG upward from the child, collecting
// every program whose subPrograms chain reaches it. Cycle-safe via a visited
// set and capped at maxAncestorDepth.
func AncestorProgramIDs(programs []models.Program, childID string) []string {
	if childID == "" || len(programs) == 0 {
		return nil
	}
	parentsOf := make(map[string][]string)
	for _, p := range programs {
		for _, sub := range p.SubPrograms {
			parentsOf[sub] = append(parentsOf[sub], p.ID)
		}
	}

	var ancestors []string
	visited := map[string]bool{childID: true}
	frontier := []string{childID}
	for depth := 0; depth < maxAncestorDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, id := range frontier {
			for _, parent := range parentsOf[id] {
				if visited[parent] {
					continue
				}
				visited[parent] = true
				ancestors = append(ancestors, parent)
				next = append(next, parent)
			}
		}
		frontier = next
	}
	return ancestors
}

func (o *Orchestrator) logDebug(msg string, fields ...interface{}) {
	if o.log != nil {
		o.log.Debug(msg, fields...)
	}
}
