package services

import (
	"fmt"
	"sort"

	"workout-engine/internal/models"
)

// LocationConstraints caps how sweaty and noisy an exercise may be at a
// location. BypassLimits marks park-style facility locations where equipment
// mapping replaces the caps.
type LocationConstraints struct {
	SweatLimit     int
	NoiseLimit     int
	MethodPriority int
	BypassLimits   bool
}

// locationConstraints is the fixed environment table.
var locationConstraints = map[models.Location]LocationConstraints{
	models.LocationOffice:  {SweatLimit: 1, NoiseLimit: 1, MethodPriority: 3},
	models.LocationAirport: {SweatLimit: 1, NoiseLimit: 1, MethodPriority: 3},
	models.LocationSchool:  {SweatLimit: 1, NoiseLimit: 1, MethodPriority: 3},
	models.LocationLibrary: {SweatLimit: 1, NoiseLimit: 1, MethodPriority: 3},
	models.LocationHome:    {SweatLimit: 2, NoiseLimit: 2, MethodPriority: 2},
	models.LocationGym:     {SweatLimit: 3, NoiseLimit: 3, MethodPriority: 1},
	models.LocationStreet:  {SweatLimit: 3, NoiseLimit: 3, MethodPriority: 1},
	models.LocationPark:    {SweatLimit: 3, NoiseLimit: 3, MethodPriority: 1, BypassLimits: true},
}

// ConstraintsFor returns the environment constraints for a location,
// defaulting to the home row for unknown values.
func ConstraintsFor(loc models.Location) LocationConstraints {
	if c, ok := locationConstraints[loc]; ok {
		return c
	}
	return locationConstraints[models.LocationHome]
}

// LevelFunc resolves the effective level for an exercise; the orchestrator
// supplies the shadow-matrix cascade here.
type LevelFunc func(e *models.Exercise) int

// EngineContext carries everything the contextual engine filters and scores
// against.
type EngineContext struct {
	Location             models.Location
	Lifestyles           []models.Persona // up to 3 personas
	Injuries             []models.InjuryArea
	Intent               models.Intent
	AvailableEquipment   []string
	GetUserLevel         LevelFunc
	LevelTolerance       int // default 3
	SelectedProgram      string
	ActiveProgramFilters []models.ProgramKey
}

// ScoredExercise is an exercise that survived the hard filters, with its
// chosen method and soft-ranking score.
type ScoredExercise struct {
	Exercise       *models.Exercise
	Method         *models.ExecutionMethod
	Score          float64
	EffectiveLevel int
	ExerciseLevel  int
	Reasoning      []string
}

// EngineResult is the contextual engine's output.
type EngineResult struct {
	Exercises           []ScoredExercise
	ActiveFilters       []string
	MechanicalBalance   models.MechanicalBalance
	ExcludedCount       int
	AICue               string
	AdjustedRestSeconds int // 0 when unset
}

// FilterAndScore runs the hard filter pipeline over the catalog, scores the
// survivors, applies the straight-arm balancer and returns the list sorted by
// score descending.
func FilterAndScore(catalog []models.Exercise, ctx EngineContext) EngineResult {
	if ctx.LevelTolerance <= 0 {
		ctx.LevelTolerance = 3
	}
	constraints := ConstraintsFor(ctx.Location)

	var (
		scored   []ScoredExercise
		excluded int
		filters  []string
	)
	if len(ctx.ActiveProgramFilters) > 0 {
		filters = append(filters, fmt.Sprintf("program_strict:%d", len(ctx.ActiveProgramFilters)))
	}
	if len(ctx.Injuries) > 0 {
		filters = append(filters, fmt.Sprintf("injury_shield:%d", len(ctx.Injuries)))
	}
	if ctx.Intent == models.IntentField {
		filters = append(filters, "field_mode")
	}

	for i := range catalog {
		e := &catalog[i]
		if e.Role == models.RoleCooldown || e.Role == models.RoleWarmup {
			continue
		}
		effLevel := 1
		if ctx.GetUserLevel != nil {
			effLevel = ctx.GetUserLevel(e)
		}
		if !passesHardFilters(e, ctx, constraints, effLevel) {
			excluded++
			continue
		}
		method := ResolveMethod(e, ctx.Location, ctx.AvailableEquipment, constraints.BypassLimits)
		if method == nil {
			excluded++
			continue
		}
		if !passesEnvironment(e, ctx, constraints) {
			excluded++
			continue
		}
		score, reasons := scoreExercise(e, method, ctx, effLevel)
		scored = append(scored, ScoredExercise{
			Exercise:       e,
			Method:         method,
			Score:          score,
			EffectiveLevel: effLevel,
			ExerciseLevel:  ExerciseLevel(e),
			Reasoning:      reasons,
		})
	}

	// A single strict program narrows the pool on purpose; capping
	// straight-arm work there would starve it.
	relaxSABA := len(ctx.ActiveProgramFilters) == 1
	if !relaxSABA {
		applyStraightArmPenalty(scored)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	result := EngineResult{
		Exercises:         scored,
		ActiveFilters:     filters,
		MechanicalBalance: summarizeMechanicalBalance(scored, relaxSABA),
		ExcludedCount:     excluded,
		AICue:             intentCue(ctx.Intent),
	}
	if ctx.Intent == models.IntentBlast {
		result.AdjustedRestSeconds = 30
	}
	return result
}

// passesHardFilters applies the program, level-range, injury, and field-mode
// gates. Method resolution and environment limits run separately.
func passesHardFilters(e *models.Exercise, ctx EngineContext, constraints LocationConstraints, effLevel int) bool {
	if len(ctx.ActiveProgramFilters) > 0 {
		matched := false
		for _, key := range ctx.ActiveProgramFilters {
			if ExerciseMatchesProgram(e, key) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if ctx.SelectedProgram != "" {
		if lvl, ok := e.ProgramLevels[ctx.SelectedProgram]; ok {
			if lvl < effLevel-ctx.LevelTolerance || lvl > effLevel+ctx.LevelTolerance {
				return false
			}
		}
	}

	if e.StressesAny(ctx.Injuries) {
		return false
	}

	if ctx.Intent == models.IntentField {
		if !e.FieldReady && !equipmentFreeOnly(ctx.AvailableEquipment) {
			return false
		}
	}

	return true
}

// equipmentFreeOnly reports whether the equipment list is empty or contains
// only the "none" marker.
func equipmentFreeOnly(equipment []string) bool {
	for _, id := range equipment {
		if id != "none" {
			return false
		}
	}
	return true
}

// passesEnvironment enforces the sweat and noise caps. Park-style locations
// bypass them; blast intent relaxes sweat only.
func passesEnvironment(e *models.Exercise, ctx EngineContext, constraints LocationConstraints) bool {
	if constraints.BypassLimits {
		return true
	}
	if ctx.Intent != models.IntentBlast {
		sweatLimit := constraints.SweatLimit
		if ctx.Intent == models.IntentOnTheWay {
			sweatLimit = 1
		}
		if e.SweatLevel > sweatLimit {
			return false
		}
	}
	return e.NoiseLevel <= constraints.NoiseLimit
}

// ResolveMethod picks the execution method for a location. Candidates are the
// methods whose primary location matches; only when none exist does the
// explicit locationMapping widen the search. There is no fuzzy inference: an
// exercise with no declared method for the location is rejected. For park
// (facility) sessions, candidates must intersect the available equipment.
// Among candidates, one with media wins.
func ResolveMethod(e *models.Exercise, loc models.Location, equipment []string, bypassLimits bool) *models.ExecutionMethod {
	var candidates []*models.ExecutionMethod
	for i := range e.Methods {
		if e.Methods[i].Location == loc {
			candidates = append(candidates, &e.Methods[i])
		}
	}
	if len(candidates) == 0 {
		for i := range e.Methods {
			m := &e.Methods[i]
			if m.Location == loc {
				continue
			}
			for _, mapped := range m.LocationMapping {
				if mapped == loc {
					candidates = append(candidates, m)
					break
				}
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	if bypassLimits {
		var equipped []*models.ExecutionMethod
		for _, m := range candidates {
			required := m.Equipment()
			if len(required) == 0 {
				equipped = append(equipped, m)
				continue
			}
			for _, need := range required {
				if containsString(equipment, need) {
					equipped = append(equipped, m)
					break
				}
			}
		}
		candidates = equipped
		if len(candidates) == 0 {
			return nil
		}
	}

	for _, m := range candidates {
		if m.HasMedia() {
			return m
		}
	}
	return candidates[0]
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// scoreExercise computes the soft ranking for a surviving exercise.
func scoreExercise(e *models.Exercise, method *models.ExecutionMethod, ctx EngineContext, effLevel int) (float64, []string) {
	var (
		score   float64
		reasons []string
	)

	for _, tag := range method.LifestyleTags {
		for _, persona := range ctx.Lifestyles {
			if tag == persona {
				score += 2
				reasons = append(reasons, fmt.Sprintf("lifestyle match: %s", tag))
			}
		}
	}

	exLevel := ExerciseLevel(e)
	diff := exLevel - effLevel
	if diff < 0 {
		diff = -diff
	}
	if proximity := 3 - diff; proximity > 0 {
		score += float64(proximity)
		reasons = append(reasons, fmt.Sprintf("level proximity +%d", proximity))
	}

	if ctx.Intent == models.IntentBlast {
		if e.MovementType == models.MovementTypeCompound {
			score += 3
			reasons = append(reasons, "blast: compound")
		}
		if e.MechanicalType == models.MechanicalHybrid {
			score += 2
			reasons = append(reasons, "blast: hybrid mechanics")
		}
		if e.HasTag("hiit_friendly") {
			score += 2
			reasons = append(reasons, "blast: hiit friendly")
		}
	}

	if method.VideoURL != "" {
		score++
		reasons = append(reasons, "has video")
	}

	return score, reasons
}

// applyStraightArmPenalty walks the list in order and penalizes every
// straight-arm exercise beyond the second by 5 per excess position.
func applyStraightArmPenalty(scored []ScoredExercise) {
	count := 0
	for i := range scored {
		if scored[i].Exercise.MechanicalType != models.MechanicalStraightArm {
			continue
		}
		count++
		if count > 2 {
			penalty := float64(5 * (count - 2))
			scored[i].Score -= penalty
			scored[i].Reasoning = append(scored[i].Reasoning,
				fmt.Sprintf("straight-arm balance penalty -%g", penalty))
		}
	}
}

// summarizeMechanicalBalance counts mechanics and flags imbalance. Balanced
// means at most 2 straight-arm slots and an SA:BA gap of at most 2.
func summarizeMechanicalBalance(scored []ScoredExercise, relaxed bool) models.MechanicalBalance {
	bal := models.MechanicalBalance{}
	for i := range scored {
		switch scored[i].Exercise.MechanicalType {
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
	if !bal.IsBalanced && !relaxed {
		if bal.StraightArm > 2 {
			bal.Warnings = append(bal.Warnings,
				fmt.Sprintf("straight-arm count %d exceeds cap of 2", bal.StraightArm))
		}
		if gap > 2 {
			bal.Warnings = append(bal.Warnings,
				fmt.Sprintf("straight-arm/bent-arm gap %d exceeds 2", gap))
		}
	}
	return bal
}

// intentCue returns the fixed coaching line for special intents.
func intentCue(intent models.Intent) string {
	switch intent {
	case models.IntentOnTheWay:
		return "אימון קצר בדרך — בלי להזיע, בלי תירוצים"
	case models.IntentBlast:
		return "מצב בלאסט: דופק גבוה, מנוחות קצרות. תן בראש!"
	case models.IntentField:
		return "אימון שטח: עובדים עם מה שיש"
	default:
		return ""
	}
}
