package services

import (
	"sort"

	"workout-engine/internal/models"
)

// programMovementMap maps each program key to the movement groups it covers.
// full_body is absent on purpose: it matches every exercise.
var programMovementMap = map[models.ProgramKey][]models.MovementGroup{
	models.ProgramPulling: {models.MovementHorizontalPull, models.MovementVerticalPull},
	models.ProgramPushing: {models.MovementHorizontalPush, models.MovementVerticalPush},
	models.ProgramCore:    {models.MovementCore},
	models.ProgramUpperBody: {
		models.MovementHorizontalPush, models.MovementVerticalPush,
		models.MovementHorizontalPull, models.MovementVerticalPull,
		models.MovementIsolation,
	},
}

// programMuscleMap maps each program key to the primary muscles it covers.
var programMuscleMap = map[models.ProgramKey][]models.MuscleGroup{
	models.ProgramPulling: {models.MuscleBack, models.MuscleMiddleBack, models.MuscleBiceps, models.MuscleRearDelt},
	models.ProgramPushing: {models.MuscleChest, models.MuscleShoulders, models.MuscleTriceps},
	models.ProgramCore:    {models.MuscleAbs, models.MuscleObliques, models.MuscleCore},
	models.ProgramUpperBody: {
		models.MuscleChest, models.MuscleBack, models.MuscleMiddleBack,
		models.MuscleShoulders, models.MuscleRearDelt, models.MuscleBiceps,
		models.MuscleTriceps, models.MuscleTraps, models.MuscleForearms,
	},
}

// upperBodyMuscles, lowerBodyMuscles and coreMuscles drive the domain fallback
// for isolation movements.
var upperBodyMuscles = map[models.MuscleGroup]bool{
	models.MuscleChest: true, models.MuscleBack: true, models.MuscleMiddleBack: true,
	models.MuscleShoulders: true, models.MuscleRearDelt: true, models.MuscleBiceps: true,
	models.MuscleTriceps: true, models.MuscleTraps: true, models.MuscleForearms: true,
}

var lowerBodyMuscles = map[models.MuscleGroup]bool{
	models.MuscleQuads: true, models.MuscleHamstrings: true, models.MuscleGlutes: true,
	models.MuscleCalves: true, models.MuscleLegs: true,
}

var coreMuscles = map[models.MuscleGroup]bool{
	models.MuscleAbs: true, models.MuscleObliques: true, models.MuscleCore: true,
}

// ExerciseMatchesProgram reports whether an exercise belongs to a program
// track: by explicit program id, by the full_body catch-all, by movement
// group, or by primary muscle.
func ExerciseMatchesProgram(e *models.Exercise, key models.ProgramKey) bool {
	for _, id := range e.ProgramIDs {
		if id == string(key) {
			return true
		}
	}
	if key == models.ProgramFullBody {
		return true
	}
	for _, g := range programMovementMap[key] {
		if e.MovementGroup == g {
			return true
		}
	}
	for _, m := range programMuscleMap[key] {
		if e.PrimaryMuscle == m {
			return true
		}
	}
	return false
}

// EffectiveLevel resolves the difficulty level to apply to an exercise via
// the shadow-matrix priority cascade. The cascade is a single function
// returning on first match; the step order is the contract:
//
//  0. program override (program keys in fixed order)
//  1. global override
//  2. movement-group override
//  3. muscle-group override
//  4. domain default from the user's progression
//
// Missing data resolves to 1. Never errors.
func EffectiveLevel(e *models.Exercise, user *models.UserProfile, matrix *models.ShadowMatrix) int {
	if matrix != nil {
		for _, key := range models.ProgramKeyOrder {
			entry, ok := matrix.Programs[key]
			if !ok || !entry.Override {
				continue
			}
			if ExerciseMatchesProgram(e, key) {
				return entry.Level
			}
		}
		if matrix.UseGlobalLevel {
			return matrix.GlobalLevel
		}
		if entry, ok := matrix.MovementGroups[e.MovementGroup]; ok && entry.Override {
			return entry.Level
		}
		if entry, ok := matrix.MuscleGroups[e.PrimaryMuscle]; ok && entry.Override {
			return entry.Level
		}
	}
	return domainDefaultLevel(e, user)
}

// domainDefaultLevel maps the exercise onto a progression domain and returns
// the user's current level there.
func domainDefaultLevel(e *models.Exercise, user *models.UserProfile) int {
	if user == nil {
		return 1
	}
	switch e.MovementGroup {
	case models.MovementHorizontalPush, models.MovementVerticalPush,
		models.MovementHorizontalPull, models.MovementVerticalPull:
		return user.DomainLevel(models.DomainUpperBody)
	case models.MovementSquat, models.MovementHinge:
		return user.DomainLevel(models.DomainLowerBody)
	case models.MovementCore:
		return user.DomainLevel(models.DomainCore)
	case models.MovementIsolation:
		switch {
		case upperBodyMuscles[e.PrimaryMuscle]:
			return user.DomainLevel(models.DomainUpperBody)
		case lowerBodyMuscles[e.PrimaryMuscle]:
			return user.DomainLevel(models.DomainLowerBody)
		case coreMuscles[e.PrimaryMuscle]:
			return user.DomainLevel(models.DomainCore)
		}
	}
	if _, ok := user.Progression.Domains[models.DomainFullBody]; ok {
		return user.DomainLevel(models.DomainFullBody)
	}
	if _, ok := user.Progression.Domains[models.DomainUpperBody]; ok {
		return user.DomainLevel(models.DomainUpperBody)
	}
	return 1
}

// ExerciseLevel derives the intrinsic level of an exercise record: the first
// program track level if any, else the recommended level, else 1. This is a
// record-side heuristic distinct from EffectiveLevel.
func ExerciseLevel(e *models.Exercise) int {
	for _, id := range e.ProgramIDs {
		if lvl, ok := e.ProgramLevels[id]; ok && lvl > 0 {
			return lvl
		}
	}
	if len(e.ProgramLevels) > 0 {
		keys := make([]string, 0, len(e.ProgramLevels))
		for k := range e.ProgramLevels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if lvl := e.ProgramLevels[k]; lvl > 0 {
				return lvl
			}
		}
	}
	if e.RecommendedLevel > 0 {
		return e.RecommendedLevel
	}
	return 1
}
