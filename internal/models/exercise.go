package models

// ExecutionMethod is a location-specific realization of an exercise with its
// own media and equipment requirements.
type ExecutionMethod struct {
	Location             Location          `json:"location"`
	// LocationMapping is an explicit multi-location declaration: the method
	// applies to a location L iff Location == L or L appears here. Never
	// inferred.
	LocationMapping      []Location        `json:"location_mapping,omitempty"`
	EquipmentIDs         []string          `json:"equipment_ids,omitempty"`
	EquipmentID          string            `json:"equipment_id,omitempty"` // legacy singular form
	LifestyleTags        []Persona         `json:"lifestyle_tags,omitempty"`
	VideoURL             string            `json:"video_url,omitempty"`
	ImageURL             string            `json:"image_url,omitempty"`
	InstructionalVideos  map[string]string `json:"instructional_videos,omitempty"`
	NotificationText     string            `json:"notification_text,omitempty"`
	VideoDurationSeconds int               `json:"video_duration_seconds,omitempty"`
}

// AppliesTo reports whether the method serves the given location, either as
// its primary location or via the explicit mapping.
func (m *ExecutionMethod) AppliesTo(loc Location) bool {
	if m.Location == loc {
		return true
	}
	for _, mapped := range m.LocationMapping {
		if mapped == loc {
			return true
		}
	}
	return false
}

// Equipment returns the declared equipment ids, folding in the legacy
// singular field. An empty result means no equipment restriction.
func (m *ExecutionMethod) Equipment() []string {
	if len(m.EquipmentIDs) > 0 {
		return m.EquipmentIDs
	}
	if m.EquipmentID != "" {
		return []string{m.EquipmentID}
	}
	return nil
}

// HasMedia reports whether the method carries a main video or image.
func (m *ExecutionMethod) HasMedia() bool {
	return m.VideoURL != "" || m.ImageURL != ""
}

// Exercise is a catalog entry. Records originate as JSON-shaped rows; optional
// fields are modeled explicitly rather than duck-typed.
type Exercise struct {
	ID                string            `json:"id"`
	Name              map[string]string `json:"name"` // language code -> localized name
	MovementType      MovementType      `json:"movement_type"`
	Symmetry          Symmetry          `json:"symmetry"`
	MovementGroup     MovementGroup     `json:"movement_group"`
	PrimaryMuscle     MuscleGroup       `json:"primary_muscle"`
	SecondaryMuscles  []MuscleGroup     `json:"secondary_muscles,omitempty"`
	MechanicalType    MechanicalType    `json:"mechanical_type"`
	Type              ExerciseType      `json:"type"`
	Role              ExerciseRole      `json:"role"`
	Tags              []string          `json:"tags,omitempty"`
	InjuryStressAreas []InjuryArea      `json:"injury_stress_areas,omitempty"`
	RecommendedLevel  int               `json:"recommended_level,omitempty"`
	FieldReady        bool              `json:"field_ready,omitempty"`
	NoiseLevel        int               `json:"noise_level"` // 1..3
	SweatLevel        int               `json:"sweat_level"` // 1..3
	ProgramIDs        []string          `json:"program_ids,omitempty"`
	// ProgramLevels is the legacy per-program level assignment; it coexists
	// with ProgramIDs until data is migrated.
	ProgramLevels     map[string]int    `json:"program_levels,omitempty"`
	Methods           []ExecutionMethod `json:"methods"`
}

// DisplayName returns the localized name for the language, falling back to
// English and then to any available entry.
func (e *Exercise) DisplayName(lang string) string {
	if n, ok := e.Name[lang]; ok && n != "" {
		return n
	}
	if n, ok := e.Name["en"]; ok && n != "" {
		return n
	}
	for _, n := range e.Name {
		if n != "" {
			return n
		}
	}
	return e.ID
}

// HasTag reports whether the exercise carries the given tag.
func (e *Exercise) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// StressesAny reports whether any of the exercise's injury stress areas
// appears in the given injury set.
func (e *Exercise) StressesAny(injuries []InjuryArea) bool {
	for _, area := range e.InjuryStressAreas {
		for _, inj := range injuries {
			if area == inj {
				return true
			}
		}
	}
	return false
}
