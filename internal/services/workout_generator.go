package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"workout-engine/internal/models"
	"workout-engine/internal/utils"
)

var titleCaser = cases.Title(language.Und)

// Generation constants.
const (
	BaseWorkoutCalories     = 50
	DefaultUserWeightKg     = 70.0
	InactivityThresholdDays = 4
	InactivityReductionPct  = 25
)

// metByBolts maps the difficulty selector to a MET intensity.
var metByBolts = map[int]float64{1: 3.5, 2: 6.0, 3: 8.0}

// coinBonusByBolts is the flat coin reward on top of calories.
var coinBonusByBolts = map[int]int{1: 0, 2: 20, 3: 50}

// difficultyMultiplier is legacy, retained for downstream consumers.
var difficultyMultiplier = map[int]float64{1: 0.8, 2: 1.0, 3: 1.5}

// restByPriority is the base rest prescription in seconds.
var restByPriority = map[models.Priority]int{
	models.PrioritySkill:     90,
	models.PriorityCompound:  60,
	models.PriorityAccessory: 45,
	models.PriorityIsolation: 30,
}

// volumeConfig is the per-bolts sets/reps/hold prescription.
type volumeConfig struct {
	setsMin, setsMax int
	repsMin, repsMax int
	holdMin, holdMax int
}

var volumeByBolts = map[int]volumeConfig{
	1: {setsMin: 3, setsMax: 3, repsMin: 10, repsMax: 15, holdMin: 20, holdMax: 30},
	2: {setsMin: 3, setsMax: 4, repsMin: 6, repsMax: 8, holdMin: 15, holdMax: 25},
	3: {setsMin: 4, setsMax: 5, repsMin: 1, repsMax: 6, holdMin: 5, holdMax: 15},
}

// holdNameMarkers flag time-based work by name.
var holdNameMarkers = []string{"hold", "plank", "hang", "החזקה"}

// GenerationContext carries the session parameters the generator scales to.
type GenerationContext struct {
	AvailableTimeMin        int
	UserLevel               int // highest domain level
	DaysInactive            int
	Intent                  models.Intent
	Persona                 models.Persona
	Location                models.Location
	InjuryCount             int
	EnergyLevel             int
	DifficultyBolts         int
	UserWeightKg            float64
	IsFirstSessionInProgram bool
	AdjustedRestSeconds     int // session-wide override from the contextual engine
	RNG                     utils.Rand
}

// Generate assembles a structured workout from the scored pool: it scales the
// exercise count to the available time, filters by difficulty bolts,
// composes priority buckets, assigns sets/reps/rest with isometric
// guardrails, orders the block, and computes duration, structure and stats.
func Generate(scored []ScoredExercise, ctx GenerationContext) *models.GeneratedWorkout {
	if ctx.DifficultyBolts < 1 || ctx.DifficultyBolts > 3 {
		ctx.DifficultyBolts = 2
	}
	if ctx.UserWeightKg <= 0 {
		ctx.UserWeightKg = DefaultUserWeightKg
	}
	if ctx.UserLevel < 1 {
		ctx.UserLevel = 1
	}
	if ctx.RNG == nil {
		ctx.RNG = utils.NewRand(0)
	}

	bolts := ctx.DifficultyBolts
	if ctx.IsFirstSessionInProgram {
		bolts = 1
	}

	countMin, countMax, includeAccessories := countRangeForTime(ctx.AvailableTimeMin)
	count := utils.IntInRange(ctx.RNG, countMin, countMax)

	candidates, overLevelIDs := filterByDifficulty(scored, bolts, ctx.UserLevel, count)
	picked := composeSelection(candidates, count, includeAccessories)

	volumeAdj := sessionVolumeAdjustment(bolts, ctx.UserLevel, ctx.DaysInactive)

	workout := &models.GeneratedWorkout{
		Title:       defaultTitle(ctx),
		Description: defaultDescription(ctx, bolts),
		Location:    ctx.Location,
		Bolts:       bolts,
	}

	for _, cand := range picked {
		we := buildWorkoutExercise(cand, bolts, ctx)
		we.IsOverLevel = overLevelIDs[cand.Exercise.ID]
		workout.Exercises = append(workout.Exercises, we)
	}

	sort.SliceStable(workout.Exercises, func(i, j int) bool {
		return workout.Exercises[i].Priority.Rank() < workout.Exercises[j].Priority.Rank()
	})

	workout.VolumeAdjustment = volumeAdj
	workout.EstimatedDurationMin = estimateDurationMin(workout.Exercises)
	workout.Structure, workout.BlastModeDetails = pickStructure(ctx, len(workout.Exercises))
	workout.MechanicalBalance = balanceOfWorkout(workout.Exercises)
	workout.Stats = computeStats(workout.Exercises, bolts, ctx.UserWeightKg, workout.EstimatedDurationMin)

	return workout
}

// countRangeForTime scales exercise count and accessory inclusion to the
// available minutes.
func countRangeForTime(minutes int) (min, max int, accessories bool) {
	switch {
	case minutes <= 10:
		return 2, 3, false
	case minutes <= 30:
		return 4, 5, false
	case minutes <= 45:
		return 6, 8, true
	default:
		return 7, 10, true
	}
}

// filterByDifficulty annotates each candidate with its level delta and keeps
// the ones the bolts setting allows, preserving the incoming score order.
// For intense sessions a capped share of over-level exercises joins the pool;
// the returned set marks those ids.
func filterByDifficulty(scored []ScoredExercise, bolts, userLevel, count int) ([]ScoredExercise, map[string]bool) {
	overLevel := make(map[string]bool)
	var kept []ScoredExercise

	switch bolts {
	case 1:
		for _, s := range scored {
			if s.ExerciseLevel-userLevel <= -1 {
				kept = append(kept, s)
			}
		}
	case 3:
		overQuota := count * 3 / 10
		if overQuota > 2 {
			overQuota = 2
		}
		// Single pass so kept preserves the global score order the engine
		// produced; over-level picks slot in where they rank.
		for _, s := range scored {
			diff := s.ExerciseLevel - userLevel
			switch {
			case diff <= 0:
				kept = append(kept, s)
			case diff <= 2 && len(overLevel) < overQuota:
				overLevel[s.Exercise.ID] = true
				kept = append(kept, s)
			}
		}
	default:
		for _, s := range scored {
			diff := s.ExerciseLevel - userLevel
			if diff >= -1 && diff <= 1 {
				kept = append(kept, s)
			}
		}
	}
	return kept, overLevel
}

// classifyPriority buckets an exercise for composition and ordering.
func classifyPriority(e *models.Exercise) models.Priority {
	switch {
	case e.HasTag("skill"):
		return models.PrioritySkill
	case e.MovementType == models.MovementTypeCompound || e.HasTag("compound"):
		return models.PriorityCompound
	case e.HasTag("isolation"):
		return models.PriorityIsolation
	case e.PrimaryMuscle == models.MuscleFullBody:
		return models.PriorityCompound
	default:
		return models.PriorityAccessory
	}
}

// composeSelection fills the block: without accessories the top skill and
// compound work wins outright; with accessories 60% of slots go to
// skill/compound and the rest to accessory/isolation, topping up from
// whatever remains.
func composeSelection(candidates []ScoredExercise, count int, includeAccessories bool) []ScoredExercise {
	var primary, secondary []ScoredExercise
	for _, c := range candidates {
		switch classifyPriority(c.Exercise) {
		case models.PrioritySkill, models.PriorityCompound:
			primary = append(primary, c)
		default:
			secondary = append(secondary, c)
		}
	}

	if !includeAccessories {
		if len(primary) > count {
			return primary[:count]
		}
		return primary
	}

	primaryQuota := int(math.Ceil(float64(count) * 0.6))
	if primaryQuota > len(primary) {
		primaryQuota = len(primary)
	}
	picked := append([]ScoredExercise{}, primary[:primaryQuota]...)

	remaining := count - len(picked)
	if remaining > len(secondary) {
		remaining = len(secondary)
	}
	picked = append(picked, secondary[:remaining]...)

	if len(picked) < count {
		used := make(map[string]bool, len(picked))
		for _, p := range picked {
			used[p.Exercise.ID] = true
		}
		for _, c := range candidates {
			if len(picked) >= count {
				break
			}
			if !used[c.Exercise.ID] {
				used[c.Exercise.ID] = true
				picked = append(picked, c)
			}
		}
	}
	return picked
}

// baseSetsForLevel saturates at 5 sets for very advanced users.
func baseSetsForLevel(level int) int {
	switch {
	case level <= 5:
		return 2
	case level <= 12:
		return 3
	case level <= 20:
		return 4
	default:
		return 5
	}
}

// sessionVolumeAdjustment stacks the easy-mode set reduction with the
// inactivity reduction and describes the result for the UI badge. After a
// long break the nominal reduction is reported even when the two-set floor
// absorbs it.
func sessionVolumeAdjustment(bolts, userLevel, daysInactive int) *models.VolumeAdjustment {
	original := baseSetsForLevel(userLevel)
	adjusted := original
	inactive := daysInactive > InactivityThresholdDays

	if bolts == 1 {
		adjusted--
		if adjusted < 2 {
			adjusted = 2
		}
	}
	if inactive {
		adjusted = adjusted * (100 - InactivityReductionPct) / 100
		if adjusted < 2 {
			adjusted = 2
		}
	}

	if adjusted >= original && !inactive {
		return nil
	}
	reduction := (original - adjusted) * 100 / original
	badge := "Lighter Day"
	if inactive {
		badge = "Recovery Mode"
		if reduction < InactivityReductionPct {
			reduction = InactivityReductionPct
		}
	}
	return &models.VolumeAdjustment{
		ReductionPercent: reduction,
		OriginalSets:     original,
		AdjustedSets:     adjusted,
		Badge:            badge,
	}
}

// buildWorkoutExercise assigns sets, reps or hold, and rest to one slot.
func buildWorkoutExercise(cand ScoredExercise, bolts int, ctx GenerationContext) models.WorkoutExercise {
	cfg := volumeByBolts[bolts]
	priority := classifyPriority(cand.Exercise)

	sets := utils.IntInRange(ctx.RNG, cfg.setsMin, cfg.setsMax)
	if priority == models.PrioritySkill && sets > 4 {
		sets = 4
	}
	if priority == models.PriorityIsolation {
		sets--
	}
	if ctx.DaysInactive > InactivityThresholdDays {
		sets = sets * (100 - InactivityReductionPct) / 100
	}
	if sets < 2 {
		sets = 2
	}

	timeBased := isTimeBased(cand.Exercise)
	var work int
	if timeBased {
		work = holdSeconds(cand.Exercise, cfg, ctx)
	} else {
		work = utils.IntInRange(ctx.RNG, cfg.repsMin, cfg.repsMax)
		if ctx.DaysInactive > InactivityThresholdDays {
			work = work * (100 - InactivityReductionPct) / 100
			if work < 1 {
				work = 1
			}
		}
	}

	rest := restByPriority[priority]
	if bolts == 3 {
		rest = 150 + ctx.RNG.IntN(30)
	} else if ctx.Intent == models.IntentBlast {
		rest /= 2
	}
	if ctx.AdjustedRestSeconds > 0 {
		rest = ctx.AdjustedRestSeconds
	}

	return models.WorkoutExercise{
		Exercise:          cand.Exercise,
		Method:            cand.Method,
		MechanicalType:    cand.Exercise.MechanicalType,
		Sets:              sets,
		RepsOrHoldSeconds: work,
		IsTimeBased:       timeBased,
		RestSeconds:       rest,
		Priority:          priority,
		Score:             cand.Score,
		Reasoning:         cand.Reasoning,
		ProgramLevel:      cand.ExerciseLevel,
	}
}

// isTimeBased detects hold work by exercise type, straight-arm mechanics, or
// name markers.
func isTimeBased(e *models.Exercise) bool {
	if e.Type == models.ExerciseTypeTime {
		return true
	}
	if e.MechanicalType == models.MechanicalStraightArm {
		return true
	}
	for _, name := range e.Name {
		lower := strings.ToLower(name)
		for _, marker := range holdNameMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}

// holdSeconds picks a hold duration from the difficulty range, adds the level
// bonus, and clamps to the isometric guardrails: handstands cap at 60s,
// core/plank work at 30+2*level, other straight-arm holds at 15s. Never
// below 5s.
func holdSeconds(e *models.Exercise, cfg volumeConfig, ctx GenerationContext) int {
	hold := utils.IntInRange(ctx.RNG, cfg.holdMin, cfg.holdMax)
	hold += 5 * (ctx.UserLevel / 5)

	switch {
	case isHandstand(e):
		if hold > 60 {
			hold = 60
		}
	case isCoreHold(e):
		limit := 30 + 2*ctx.UserLevel
		if hold > limit {
			hold = limit
		}
	case e.MechanicalType == models.MechanicalStraightArm:
		if hold > 15 {
			hold = 15
		}
	}
	if hold < 5 {
		hold = 5
	}
	return hold
}

func isHandstand(e *models.Exercise) bool {
	if e.HasTag("handstand") {
		return true
	}
	for _, name := range e.Name {
		if strings.Contains(strings.ToLower(name), "handstand") {
			return true
		}
	}
	return false
}

func isCoreHold(e *models.Exercise) bool {
	if e.PrimaryMuscle == models.MuscleCore || e.PrimaryMuscle == models.MuscleAbs {
		return true
	}
	if e.HasTag("core") {
		return true
	}
	for _, name := range e.Name {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "plank") || strings.Contains(lower, "core") {
			return true
		}
	}
	return false
}

// estimateDurationMin sums set work and rests plus 30s transition between
// exercises. A rep takes 3 seconds.
func estimateDurationMin(exercises []models.WorkoutExercise) int {
	if len(exercises) == 0 {
		return 0
	}
	totalSec := 0
	for _, we := range exercises {
		setTime := we.RepsOrHoldSeconds
		if !we.IsTimeBased {
			setTime = 3 * we.RepsOrHoldSeconds
		}
		totalSec += we.Sets*setTime + (we.Sets-1)*we.RestSeconds
	}
	totalSec += 30 * (len(exercises) - 1)
	return int(math.Round(float64(totalSec) / 60.0))
}

// pickStructure chooses the session shape. Blast sessions become emom or
// amrap; tiny sessions become a circuit.
func pickStructure(ctx GenerationContext, numExercises int) (models.WorkoutStructure, *models.BlastModeDetails) {
	if ctx.Intent == models.IntentBlast {
		if ctx.RNG.IntN(2) == 0 {
			duration := ctx.AvailableTimeMin
			if duration > 20 {
				duration = 20
			}
			return models.StructureEMOM, &models.BlastModeDetails{
				DurationMinutes: duration,
				WorkSeconds:     40,
				RestSeconds:     20,
			}
		}
		duration := ctx.AvailableTimeMin
		if duration > 15 {
			duration = 15
		}
		return models.StructureAMRAP, &models.BlastModeDetails{DurationMinutes: duration}
	}
	if numExercises <= 3 && ctx.AvailableTimeMin <= 15 {
		return models.StructureCircuit, nil
	}
	return models.StructureStandard, nil
}

// balanceOfWorkout recomputes the mechanical summary over the final block.
func balanceOfWorkout(exercises []models.WorkoutExercise) models.MechanicalBalance {
	bal := models.MechanicalBalance{}
	for _, we := range exercises {
		switch we.MechanicalType {
		case models.MechanicalStraightArm:
			bal.StraightArm++
		case models.MechanicalBentArm:
			bal.BentArm++
		case models.MechanicalHybrid:
			bal.Hybrid++
		default:
			bal.None++
		}
	}
	bal.Ratio = fmt.Sprintf("%d:%d", bal.StraightArm, bal.BentArm)
	gap := bal.StraightArm - bal.BentArm
	if gap < 0 {
		gap = -gap
	}
	bal.IsBalanced = bal.StraightArm <= 2 && gap <= 2
	if bal.StraightArm > 2 {
		bal.Warnings = append(bal.Warnings,
			fmt.Sprintf("straight-arm count %d exceeds cap of 2", bal.StraightArm))
	}
	return bal
}

// computeStats derives the MET-based calorie and coin output.
// calories = max(floor, round(MET * 0.0175 * kg * minutes)).
func computeStats(exercises []models.WorkoutExercise, bolts int, weightKg float64, durationMin int) models.WorkoutStats {
	met := metByBolts[bolts]
	calories := int(math.Round(met * 0.0175 * weightKg * float64(durationMin)))
	if calories < BaseWorkoutCalories {
		calories = BaseWorkoutCalories
	}

	stats := models.WorkoutStats{
		Calories:             calories,
		Coins:                calories + coinBonusByBolts[bolts],
		DifficultyMultiplier: difficultyMultiplier[bolts],
	}
	for _, we := range exercises {
		if we.IsTimeBased {
			stats.TotalHoldTime += we.Sets * we.RepsOrHoldSeconds
		} else {
			stats.TotalReps += we.Sets * we.RepsOrHoldSeconds
		}
	}
	return stats
}

// defaultTitle and defaultDescription are language-neutral placeholders the
// content resolver may override.
func defaultTitle(ctx GenerationContext) string {
	switch ctx.Intent {
	case models.IntentBlast:
		return "Blast Session"
	case models.IntentOnTheWay:
		return "On-the-Way Workout"
	case models.IntentField:
		return "Field Workout"
	default:
		return fmt.Sprintf("%s Workout", titleCaser.String(string(ctx.Location)))
	}
}

func defaultDescription(ctx GenerationContext, bolts int) string {
	return fmt.Sprintf("A %d-minute session at %s, difficulty %d/3.",
		ctx.AvailableTimeMin, ctx.Location, bolts)
}
