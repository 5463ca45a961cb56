package models

// ContentKind distinguishes the three content stores.
type ContentKind string

const (
	ContentTitles       ContentKind = "titles"
	ContentDescriptions ContentKind = "descriptions"
	ContentPhrases      ContentKind = "phrases"
)

// ContentRow is a flat content record scored against the session context.
// Scorable fields left empty or set to "any" are neutral.
type ContentRow struct {
	ID              string   `json:"id" firestore:"id"`
	Text            string   `json:"text" firestore:"text"`
	Persona         string   `json:"persona,omitempty" firestore:"persona"`
	Location        string   `json:"location,omitempty" firestore:"location"`
	TimeOfDay       string   `json:"time_of_day,omitempty" firestore:"time_of_day"`
	Gender          string   `json:"gender,omitempty" firestore:"gender"` // male|female|both|empty
	SportType       string   `json:"sport_type,omitempty" firestore:"sport_type"`
	MotivationStyle string   `json:"motivation_style,omitempty" firestore:"motivation_style"`
	ExperienceLevel string   `json:"experience_level,omitempty" firestore:"experience_level"`
	ProgressRange   string   `json:"progress_range,omitempty" firestore:"progress_range"` // "A-B"
	DayPeriod       string   `json:"day_period,omitempty" firestore:"day_period"`
	Category        string   `json:"category,omitempty" firestore:"category"`
	Tags            []string `json:"tags,omitempty" firestore:"tags"`
	ProgramID       string   `json:"program_id,omitempty" firestore:"program_id"` // empty or "all" matches everything
	MinLevel        int      `json:"min_level,omitempty" firestore:"min_level"`
	MaxLevel        int      `json:"max_level,omitempty" firestore:"max_level"`
}

// HasTag reports whether the row carries the given tag.
func (r *ContentRow) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// MetadataContext is everything the content resolver scores rows against.
// All fields except Location and TimeOfDay are optional.
type MetadataContext struct {
	Persona            Persona     `json:"persona,omitempty"`
	Location           Location    `json:"location"`
	TimeOfDay          TimeOfDay   `json:"time_of_day"`
	Gender             string      `json:"gender,omitempty"`
	DaysInactive       int         `json:"days_inactive,omitempty"`
	SportType          string      `json:"sport_type,omitempty"`
	MotivationStyle    string      `json:"motivation_style,omitempty"`
	ExperienceLevel    string      `json:"experience_level,omitempty"`
	ProgramProgress    int         `json:"program_progress,omitempty"` // 0..100
	CurrentProgram     string      `json:"current_program,omitempty"`
	TargetLevel        int         `json:"target_level,omitempty"`
	IsStudying         bool        `json:"is_studying,omitempty"`
	DayPeriod          DayPeriod   `json:"day_period,omitempty"`
	Category           string      `json:"category,omitempty"`
	DurationMinutes    int         `json:"duration_minutes,omitempty"`
	Difficulty         int         `json:"difficulty,omitempty"`
	DominantMuscle     MuscleGroup `json:"dominant_muscle,omitempty"`
	CategoryLabel      string      `json:"category_label,omitempty"`
	IsActiveReserve    bool        `json:"is_active_reserve,omitempty"`
	ActiveProgramID    string      `json:"active_program_id,omitempty"`
	ProgramLevel       int         `json:"program_level,omitempty"`
	AncestorProgramIDs []string    `json:"ancestor_program_ids,omitempty"`
	UserName           string      `json:"user_name,omitempty"`
	ProgramName        string      `json:"program_name,omitempty"`
	DistanceKm         float64     `json:"distance_km,omitempty"`
	ETAMinutes         int         `json:"eta_minutes,omitempty"`
}

// ResolvedContent is what the resolver hands back to the orchestrator; nil
// string pointers keep the generator's defaults.
type ResolvedContent struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	AICue       *string `json:"ai_cue,omitempty"`
	Source      string  `json:"source"` // "firestore" or "fallback"
}
