package models

import (
	"time"
)

// APIError is the JSON error envelope returned by the HTTP shell. One flat
// record; the middleware fills it directly.
type APIError struct {
	Error      string       `json:"error"`
	Message    string       `json:"message"`
	Code       string       `json:"code"`
	TraceID    string       `json:"trace_id"`
	Category   string       `json:"category,omitempty"`
	Retryable  bool         `json:"retryable,omitempty"`
	Suggestion string       `json:"suggestion,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
	Request    *RequestInfo `json:"request,omitempty"`
}

// RequestInfo ties an error to the request that produced it.
type RequestInfo struct {
	ID       string `json:"id,omitempty"`
	Method   string `json:"method"`
	Endpoint string `json:"endpoint"`
	IP       string `json:"ip,omitempty"`
}

// NewAPIError creates an error envelope stamped with the current time.
func NewAPIError(errorType, message, code string) *APIError {
	return &APIError{
		Error:     errorType,
		Message:   message,
		Code:      code,
		Timestamp: time.Now().UTC(),
	}
}

// GenerateWorkoutRequest is the API request for a session generation.
type GenerateWorkoutRequest struct {
	User    UserProfile `json:"user" validate:"required"`
	Options struct {
		Location                string        `json:"location" validate:"omitempty,oneof=home park street office school gym airport library"`
		Intent                  string        `json:"intent" validate:"omitempty,oneof=normal blast on_the_way field"`
		AvailableTimeMin        int           `json:"available_time_min" validate:"omitempty,min=0,max=240"`
		DifficultyBolts         int           `json:"difficulty_bolts" validate:"omitempty,oneof=1 2 3"`
		ShadowMatrix            *ShadowMatrix `json:"shadow_matrix,omitempty"`
		InjuryOverride          []InjuryArea  `json:"injury_override,omitempty"`
		EquipmentOverride       []string      `json:"equipment_override,omitempty"`
		DaysInactiveOverride    *int          `json:"days_inactive_override,omitempty" validate:"omitempty,min=0"`
		PersonaOverride         string        `json:"persona_override,omitempty"`
		TimeOfDay               string        `json:"time_of_day,omitempty" validate:"omitempty,oneof=morning afternoon evening night"`
		IsFirstSessionInProgram bool          `json:"is_first_session_in_program,omitempty"`
		SelectedProgram         string        `json:"selected_program,omitempty"`
	} `json:"options"`
	Seed *int64 `json:"seed,omitempty"`
}

// SessionOptions converts the wire options into SessionOptions with defaults
// applied.
func (r *GenerateWorkoutRequest) SessionOptions() SessionOptions {
	opts := SessionOptions{
		Location:                Location(r.Options.Location),
		Intent:                  Intent(r.Options.Intent),
		AvailableTimeMin:        r.Options.AvailableTimeMin,
		DifficultyBolts:         r.Options.DifficultyBolts,
		ShadowMatrix:            r.Options.ShadowMatrix,
		InjuryOverride:          r.Options.InjuryOverride,
		EquipmentOverride:       r.Options.EquipmentOverride,
		DaysInactiveOverride:    r.Options.DaysInactiveOverride,
		PersonaOverride:         Persona(r.Options.PersonaOverride),
		TimeOfDay:               TimeOfDay(r.Options.TimeOfDay),
		IsFirstSessionInProgram: r.Options.IsFirstSessionInProgram,
		SelectedProgram:         r.Options.SelectedProgram,
	}
	opts.ApplyDefaults()
	return opts
}

// ExerciseSearchParams filters the catalog listing endpoint.
type ExerciseSearchParams struct {
	Location string `query:"location" validate:"omitempty,oneof=home park street office school gym airport library"`
	Program  string `query:"program"`
	Role     string `query:"role" validate:"omitempty,oneof=warmup main cooldown"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset   int    `query:"offset" validate:"omitempty,min=0"`
}
