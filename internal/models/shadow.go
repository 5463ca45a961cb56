package models

// LevelOverride is a single shadow-matrix entry: a level plus whether the
// entry actively overrides the cascade.
type LevelOverride struct {
	Level    int  `json:"level"`
	Override bool `json:"override"`
}

// ShadowMatrix is the QA/override structure that resolves the effective
// difficulty level per exercise. Program entries take the highest priority,
// then the global level, then movement group, then muscle group; the domain
// default applies when nothing overrides.
type ShadowMatrix struct {
	UseGlobalLevel bool                            `json:"use_global_level"`
	GlobalLevel    int                             `json:"global_level"` // 1..20
	MovementGroups map[MovementGroup]LevelOverride `json:"movement_groups,omitempty"`
	MuscleGroups   map[MuscleGroup]LevelOverride   `json:"muscle_groups,omitempty"`
	Programs       map[ProgramKey]LevelOverride    `json:"programs,omitempty"`
}

// NewDefaultShadowMatrix returns a matrix with every override disabled and
// movement/muscle groups pre-populated with level 10.
func NewDefaultShadowMatrix() *ShadowMatrix {
	m := &ShadowMatrix{
		GlobalLevel:    10,
		MovementGroups: make(map[MovementGroup]LevelOverride),
		MuscleGroups:   make(map[MuscleGroup]LevelOverride),
		Programs:       make(map[ProgramKey]LevelOverride),
	}
	for _, g := range []MovementGroup{
		MovementSquat, MovementHinge, MovementHorizontalPush, MovementVerticalPush,
		MovementHorizontalPull, MovementVerticalPull, MovementCore, MovementIsolation,
	} {
		m.MovementGroups[g] = LevelOverride{Level: 10}
	}
	for _, g := range []MuscleGroup{
		MuscleChest, MuscleBack, MuscleMiddleBack, MuscleShoulders, MuscleRearDelt,
		MuscleAbs, MuscleObliques, MuscleForearms, MuscleBiceps, MuscleTriceps,
		MuscleQuads, MuscleHamstrings, MuscleGlutes, MuscleCalves, MuscleTraps,
		MuscleCardio, MuscleFullBody, MuscleCore, MuscleLegs,
	} {
		m.MuscleGroups[g] = LevelOverride{Level: 10}
	}
	for _, k := range ProgramKeyOrder {
		m.Programs[k] = LevelOverride{Level: 10}
	}
	return m
}

// ActiveProgramFilters returns the program keys with an active override, in
// the fixed cascade order. A non-empty result puts the contextual engine into
// strict program filtering.
func (m *ShadowMatrix) ActiveProgramFilters() []ProgramKey {
	if m == nil {
		return nil
	}
	var active []ProgramKey
	for _, k := range ProgramKeyOrder {
		if entry, ok := m.Programs[k]; ok && entry.Override {
			active = append(active, k)
		}
	}
	return active
}
