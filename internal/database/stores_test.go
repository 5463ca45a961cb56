package database

import (
	"context"
	"database/sql"
	"testing"

	"workout-engine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, createTables(db))
	return db
}

func TestCatalogStoreRoundTrip(t *testing.T) {
	store := NewCatalogStore(testDB(t))
	ctx := context.Background()

	exercise := &models.Exercise{
		ID:            "pullup",
		Name:          map[string]string{"en": "Pull-up"},
		MovementType:  models.MovementTypeCompound,
		MovementGroup: models.MovementVerticalPull,
		PrimaryMuscle: models.MuscleBack,
		Role:          models.RoleMain,
		SweatLevel:    2,
		NoiseLevel:    1,
		Methods: []models.ExecutionMethod{
			{Location: models.LocationPark, EquipmentIDs: []string{"pullup_bar"}},
		},
	}
	require.NoError(t, store.UpsertExercise(ctx, exercise))

	exercises, err := store.ListExercises(ctx)
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	assert.Equal(t, "pullup", exercises[0].ID)
	assert.Equal(t, models.MovementVerticalPull, exercises[0].MovementGroup)
	require.Len(t, exercises[0].Methods, 1)
	assert.Equal(t, models.LocationPark, exercises[0].Methods[0].Location)

	// Upsert replaces in place.
	exercise.SweatLevel = 3
	require.NoError(t, store.UpsertExercise(ctx, exercise))
	exercises, err = store.ListExercises(ctx)
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	assert.Equal(t, 3, exercises[0].SweatLevel)
}

func TestCatalogStoreSkipsMalformedRows(t *testing.T) {
	db := testDB(t)
	store := NewCatalogStore(db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO exercises (id, record, role) VALUES ('broken', '{not json', 'main')`)
	require.NoError(t, err)
	require.NoError(t, store.UpsertExercise(ctx, &models.Exercise{ID: "ok"}))

	exercises, err := store.ListExercises(ctx)
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	assert.Equal(t, "ok", exercises[0].ID)
}

func TestContentStoreKinds(t *testing.T) {
	store := NewContentStore(testDB(t))
	ctx := context.Background()

	require.NoError(t, store.UpsertContentRow(ctx, models.ContentTitles,
		&models.ContentRow{ID: "t1", Text: "Title"}))
	require.NoError(t, store.UpsertContentRow(ctx, models.ContentPhrases,
		&models.ContentRow{ID: "p1", Text: "Phrase"}))

	titles, err := store.ListContentRows(ctx, models.ContentTitles)
	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.Equal(t, "Title", titles[0].Text)

	descriptions, err := store.ListContentRows(ctx, models.ContentDescriptions)
	require.NoError(t, err)
	assert.Empty(t, descriptions)
}

func TestProgramStoreRoundTrip(t *testing.T) {
	store := NewProgramStore(testDB(t))
	ctx := context.Background()

	require.NoError(t, store.UpsertProgram(ctx, &models.Program{
		ID:          "street-workout",
		SubPrograms: []string{"pullup-mastery"},
	}))

	programs, err := store.ListPrograms(ctx)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, []string{"pullup-mastery"}, programs[0].SubPrograms)
}
