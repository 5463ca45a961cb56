package services

import (
	"sort"

	"workout-engine/internal/models"
)

// AppendCooldown selects up to three cooldown-role exercises, ranking those
// that match the session's muscles first, and appends them after the strength
// block. Candidates
// need a method applicable to the session location, falling back to home, and
// must not repeat an exercise already in the workout.
func AppendCooldown(workout *models.GeneratedWorkout, catalog []models.Exercise, loc models.Location) {
	used := make(map[string]bool, len(workout.Exercises))
	muscles := make(map[models.MuscleGroup]bool)
	for _, we := range workout.Exercises {
		used[we.Exercise.ID] = true
		muscles[we.Exercise.PrimaryMuscle] = true
	}

	type candidate struct {
		exercise *models.Exercise
		method   *models.ExecutionMethod
		score    int
	}
	var candidates []candidate

	for i := range catalog {
		e := &catalog[i]
		if e.Role != models.RoleCooldown || used[e.ID] {
			continue
		}
		method := methodForLocationOrHome(e, loc)
		if method == nil {
			continue
		}
		score := 0
		if muscles[e.PrimaryMuscle] {
			score += 2
		}
		if method.HasMedia() {
			score++
		}
		candidates = append(candidates, candidate{exercise: e, method: method, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	limit := 3
	if len(candidates) < limit {
		limit = len(candidates)
	}
	for _, c := range candidates[:limit] {
		timeBased := isTimeBased(c.exercise)
		reps := 10
		if timeBased {
			reps = 30
		}
		workout.Exercises = append(workout.Exercises, models.WorkoutExercise{
			Exercise:          c.exercise,
			Method:            c.method,
			MechanicalType:    c.exercise.MechanicalType,
			Sets:              1,
			RepsOrHoldSeconds: reps,
			IsTimeBased:       timeBased,
			RestSeconds:       0,
			Priority:          models.PriorityIsolation,
			Score:             float64(c.score),
			Reasoning:         []string{"mandatory cooldown — muscle match"},
		})
	}
}

// methodForLocationOrHome resolves a cooldown method for the session
// location, falling back to a home method when the location has none.
func methodForLocationOrHome(e *models.Exercise, loc models.Location) *models.ExecutionMethod {
	for i := range e.Methods {
		if e.Methods[i].AppliesTo(loc) {
			return &e.Methods[i]
		}
	}
	if loc != models.LocationHome {
		for i := range e.Methods {
			if e.Methods[i].AppliesTo(models.LocationHome) {
				return &e.Methods[i]
			}
		}
	}
	return nil
}
