package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"workout-engine/internal/models"
	"workout-engine/internal/utils"
)

// ContentResolver scores content rows against the session context and picks
// titles, descriptions and coaching phrases. Among equally scored rows one is
// chosen uniformly at random so identical contexts still vary across
// sessions.
type ContentResolver struct {
	provider ContentRowProvider
	rng      utils.Rand
}

// NewContentResolver constructs a resolver over a row provider.
func NewContentResolver(provider ContentRowProvider, rng utils.Rand) *ContentResolver {
	return &ContentResolver{provider: provider, rng: rng}
}

// Resolve queries the three content stores concurrently and returns the best
// match per store. A store error or empty result yields nil for that field;
// the caller keeps the generator's default.
func (r *ContentResolver) Resolve(ctx context.Context, meta *models.MetadataContext) models.ResolvedContent {
	resolved := models.ResolvedContent{Source: "fallback"}
	if r.provider == nil {
		return resolved
	}

	kinds := []models.ContentKind{models.ContentTitles, models.ContentDescriptions, models.ContentPhrases}
	rows := make([][]models.ContentRow, len(kinds))

	var wg sync.WaitGroup
	for i, kind := range kinds {
		wg.Add(1)
		go func(i int, kind models.ContentKind) {
			defer wg.Done()
			result, err := r.provider.ListContentRows(ctx, kind)
			if err != nil {
				return
			}
			rows[i] = result
		}(i, kind)
	}
	wg.Wait()

	if text := r.pickBest(rows[0], meta); text != nil {
		resolved.Title = text
		resolved.Source = "firestore"
	}
	if text := r.pickBest(rows[1], meta); text != nil {
		resolved.Description = text
		resolved.Source = "firestore"
	}
	if text := r.pickBest(rows[2], meta); text != nil {
		resolved.AICue = text
		resolved.Source = "firestore"
	}
	return resolved
}

// pickBest scores every row, keeps the non-excluded maximum, and shuffles
// among ties. The winning text passes through the placeholder resolver.
func (r *ContentResolver) pickBest(rows []models.ContentRow, meta *models.MetadataContext) *string {
	best := -1
	var tied []int
	for i := range rows {
		score, excluded := ScoreContentRow(&rows[i], meta)
		if excluded || score < 0 {
			continue
		}
		if score > best {
			best = score
			tied = tied[:0]
		}
		if score == best {
			tied = append(tied, i)
		}
	}
	if best < 0 || len(tied) == 0 {
		return nil
	}
	choice := tied[0]
	if len(tied) > 1 && r.rng != nil {
		choice = tied[r.rng.IntN(len(tied))]
	}
	text := ResolvePlaceholders(rows[choice].Text, meta)
	return &text
}

// ScoreContentRow computes the match score of a row against the context.
// excluded marks hard mismatches (gender, program hierarchy, level range)
// that must never be selected regardless of score.
func ScoreContentRow(row *models.ContentRow, meta *models.MetadataContext) (score int, excluded bool) {
	// Gender gates before anything else: a mismatch poisons the row.
	switch row.Gender {
	case "", "both":
	default:
		if meta.Gender == "" || !strings.EqualFold(row.Gender, meta.Gender) {
			return -1, true
		}
		score++
	}

	// Program hierarchy: rows pinned to a program serve only that program
	// and its descendants.
	if row.ProgramID != "" && row.ProgramID != "all" {
		switch {
		case row.ProgramID == meta.ActiveProgramID && meta.ActiveProgramID != "":
			score += 3
		case containsString(meta.AncestorProgramIDs, row.ProgramID):
			score++
		default:
			return 0, true
		}
	}

	// Program level range.
	if (row.MinLevel > 0 || row.MaxLevel > 0) && meta.ProgramLevel > 0 {
		if meta.ProgramLevel < row.MinLevel || (row.MaxLevel > 0 && meta.ProgramLevel > row.MaxLevel) {
			return 0, true
		}
		score++
	}

	score += matchField(row.Persona, string(meta.Persona))
	score += matchField(row.Location, string(meta.Location))
	score += matchField(row.TimeOfDay, string(meta.TimeOfDay))
	score += matchField(row.SportType, meta.SportType)
	score += matchField(row.MotivationStyle, meta.MotivationStyle)
	score += matchField(row.ExperienceLevel, meta.ExperienceLevel)

	if lo, hi, ok := parseProgressRange(row.ProgressRange); ok {
		if meta.ProgramProgress >= lo && meta.ProgramProgress <= hi {
			score++
		}
		// Level-up boost: users about to finish a program get the
		// "almost there" rows.
		if meta.ProgramProgress > 90 && row.ProgressRange == "90-100" {
			score += 5
		}
	}

	score += contextualBonuses(row, meta)

	if row.DayPeriod != "" && row.DayPeriod == string(meta.DayPeriod) {
		score += 2
	}

	if meta.IsActiveReserve && row.Persona == string(models.PersonaReservist) {
		score += 20
	}

	return score, false
}

// matchField awards a point when a scorable row field is set, not the "any"
// wildcard, and equals the context value.
func matchField(rowValue, ctxValue string) int {
	if rowValue == "" || rowValue == "any" {
		return 0
	}
	if ctxValue != "" && rowValue == ctxValue {
		return 1
	}
	return 0
}

// contextualBonuses awards the situational boosts.
func contextualBonuses(row *models.ContentRow, meta *models.MetadataContext) int {
	bonus := 0

	if meta.Location == models.LocationOffice &&
		(row.Category == "mobility" || row.Category == "flexibility") {
		bonus += 3
	}

	if (meta.Location == models.LocationLibrary || meta.IsStudying) &&
		(row.Category == "mobility" || row.Category == "general") {
		bonus += 3
	}

	if (meta.TimeOfDay == models.TimeEvening || meta.TimeOfDay == models.TimeNight) &&
		meta.DurationMinutes > 0 && meta.DurationMinutes < 10 &&
		(row.Category == "mobility" || row.Category == "general") &&
		(meta.MotivationStyle == "zen" || meta.MotivationStyle == "encouraging") {
		bonus += 2
	}

	if meta.DurationMinutes > 0 && meta.DurationMinutes < 10 && row.HasTag("ShortForm") {
		bonus += 2
	}

	return bonus
}

// parseProgressRange parses "A-B" into its bounds.
func parseProgressRange(s string) (lo, hi int, ok bool) {
	if s == "" {
		return 0, 0, false
	}
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	hi, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

// placeholderPairs lists the @-tokens content authors use, longest token
// first so "@שם_תוכנית" is never clobbered by the shorter "@שם".
func placeholderPairs(meta *models.MetadataContext) []string {
	return []string{
		"@שם_תוכנית", meta.ProgramName,
		"@זמן_אימון", fmt.Sprintf("%d", meta.DurationMinutes),
		"@זמן_הגעה", fmt.Sprintf("%d", meta.ETAMinutes),
		"@רמה_הבאה", fmt.Sprintf("%d", meta.TargetLevel),
		"@קטגוריה", meta.Category,
		"@פרסונה", string(meta.Persona),
		"@עצימות", fmt.Sprintf("%d", meta.Difficulty),
		"@מיקום", string(meta.Location),
		"@מיקוד", string(meta.DominantMuscle),
		"@מרחק", fmt.Sprintf("%.1f", meta.DistanceKm),
		"@שם", meta.UserName,
	}
}

// ResolvePlaceholders substitutes known @-tokens with context values.
// Unknown tokens pass through unchanged.
func ResolvePlaceholders(text string, meta *models.MetadataContext) string {
	if !strings.Contains(text, "@") {
		return text
	}
	return strings.NewReplacer(placeholderPairs(meta)...).Replace(text)
}
