package models

// WorkoutExercise is a single prescribed slot in a generated session.
type WorkoutExercise struct {
	Exercise          *Exercise        `json:"exercise"`
	Method            *ExecutionMethod `json:"method"`
	MechanicalType    MechanicalType   `json:"mechanical_type"`
	Sets              int              `json:"sets"`
	RepsOrHoldSeconds int              `json:"reps_or_hold_seconds"`
	IsTimeBased       bool             `json:"is_time_based"`
	RestSeconds       int              `json:"rest_seconds"`
	Priority          Priority         `json:"priority"`
	Score             float64          `json:"score"`
	Reasoning         []string         `json:"reasoning,omitempty"`
	ProgramLevel      int              `json:"program_level,omitempty"`
	IsOverLevel       bool             `json:"is_over_level,omitempty"`
}

// VolumeAdjustment describes a session-wide set reduction and why it applies.
type VolumeAdjustment struct {
	ReductionPercent int    `json:"reduction_percent"`
	OriginalSets     int    `json:"original_sets"`
	AdjustedSets     int    `json:"adjusted_sets"`
	Badge            string `json:"badge"`
}

// BlastModeDetails carries the timing parameters of an emom/amrap session.
type BlastModeDetails struct {
	DurationMinutes int `json:"duration_minutes"`
	WorkSeconds     int `json:"work_seconds,omitempty"`
	RestSeconds     int `json:"rest_seconds,omitempty"`
}

// MechanicalBalance summarizes straight-arm vs bent-arm composition.
type MechanicalBalance struct {
	StraightArm int      `json:"straight_arm"`
	BentArm     int      `json:"bent_arm"`
	Hybrid      int      `json:"hybrid"`
	None        int      `json:"none"`
	Ratio       string   `json:"ratio"`
	IsBalanced  bool     `json:"is_balanced"`
	Warnings    []string `json:"warnings,omitempty"`
}

// WorkoutStats is the MET-based calorie/reward output of a session.
type WorkoutStats struct {
	Calories             int     `json:"calories"`
	Coins                int     `json:"coins"`
	TotalReps            int     `json:"total_reps"`
	TotalHoldTime        int     `json:"total_hold_time"`
	DifficultyMultiplier float64 `json:"difficulty_multiplier"`
}

// GeneratedWorkout is the assembled session emitted by the generator.
type GeneratedWorkout struct {
	ID                   string            `json:"id"`
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	AICue                string            `json:"ai_cue,omitempty"`
	Location             Location          `json:"location"`
	Exercises            []WorkoutExercise `json:"exercises"`
	EstimatedDurationMin int               `json:"estimated_duration_min"`
	Structure            WorkoutStructure  `json:"structure"`
	Bolts                int               `json:"bolts"`
	VolumeAdjustment     *VolumeAdjustment `json:"volume_adjustment,omitempty"`
	BlastModeDetails     *BlastModeDetails `json:"blast_mode_details,omitempty"`
	MechanicalBalance    MechanicalBalance `json:"mechanical_balance"`
	Stats                WorkoutStats      `json:"stats"`
}

// WorkoutMeta is generation metadata returned alongside the session.
type WorkoutMeta struct {
	DaysInactive        int          `json:"days_inactive"`
	Persona             Persona      `json:"persona,omitempty"`
	Location            Location     `json:"location"`
	TimeOfDay           TimeOfDay    `json:"time_of_day"`
	InjuryAreas         []InjuryArea `json:"injury_areas,omitempty"`
	ExercisesConsidered int          `json:"exercises_considered"`
	ExercisesExcluded   int          `json:"exercises_excluded"`
}

// HomeWorkoutResult is the primary API payload: the session plus its meta.
type HomeWorkoutResult struct {
	Workout *GeneratedWorkout `json:"workout"`
	Meta    WorkoutMeta       `json:"meta"`
}

// SessionOptions are the orchestration inputs built from the request.
type SessionOptions struct {
	Location                Location      `json:"location"`
	Intent                  Intent        `json:"intent"`
	AvailableTimeMin        int           `json:"available_time_min"`
	DifficultyBolts         int           `json:"difficulty_bolts"`
	ShadowMatrix            *ShadowMatrix `json:"shadow_matrix,omitempty"`
	InjuryOverride          []InjuryArea  `json:"injury_override,omitempty"`
	EquipmentOverride       []string      `json:"equipment_override,omitempty"`
	DaysInactiveOverride    *int          `json:"days_inactive_override,omitempty"`
	PersonaOverride         Persona       `json:"persona_override,omitempty"`
	TimeOfDay               TimeOfDay     `json:"time_of_day,omitempty"`
	IsFirstSessionInProgram bool          `json:"is_first_session_in_program,omitempty"`
	SelectedProgram         string        `json:"selected_program,omitempty"` // legacy programLevels filter
	LevelTolerance          int           `json:"level_tolerance,omitempty"`
}

// ApplyDefaults fills the option defaults the wire format leaves blank.
func (o *SessionOptions) ApplyDefaults() {
	if o.Location == "" {
		o.Location = LocationHome
	}
	if o.Intent == "" {
		o.Intent = IntentNormal
	}
	if o.AvailableTimeMin <= 0 {
		o.AvailableTimeMin = 30
	}
	if o.DifficultyBolts < 1 || o.DifficultyBolts > 3 {
		o.DifficultyBolts = 2
	}
	if o.LevelTolerance <= 0 {
		o.LevelTolerance = 3
	}
}

// Program is a training-track record; programs form a shallow DAG through
// SubPrograms.
type Program struct {
	ID          string   `json:"id" firestore:"id"`
	Name        string   `json:"name,omitempty" firestore:"name"`
	SportType   string   `json:"sport_type,omitempty" firestore:"sport_type"`
	SubPrograms []string `json:"sub_programs,omitempty" firestore:"sub_programs"`
}
