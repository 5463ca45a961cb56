// Package content provides the Firestore-backed content and program stores.
// Coaches author titles, descriptions and coaching phrases in the Firebase
// console; the engine reads them as flat rows. The sqlite stores remain the
// default backend when no project id is configured.
package content

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"workout-engine/internal/models"
)

// collectionByKind maps content kinds to their Firestore collections.
var collectionByKind = map[models.ContentKind]string{
	models.ContentTitles:       "workout_titles",
	models.ContentDescriptions: "workout_descriptions",
	models.ContentPhrases:      "coach_phrases",
}

const programsCollection = "programs"

// FirestoreStore implements the content-row and program providers over a
// Firestore project.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects to the project. The caller owns the client
// lifetime via Close.
func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// ListContentRows reads every document of one content kind. Documents that
// fail to convert are skipped.
func (s *FirestoreStore) ListContentRows(ctx context.Context, kind models.ContentKind) ([]models.ContentRow, error) {
	collection, ok := collectionByKind[kind]
	if !ok {
		return nil, fmt.Errorf("unknown content kind: %s", kind)
	}

	iter := s.client.Collection(collection).Documents(ctx)
	defer iter.Stop()

	var rows []models.ContentRow
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate %s: %w", collection, err)
		}
		var row models.ContentRow
		if err := doc.DataTo(&row); err != nil {
			continue // skip malformed documents
		}
		if row.ID == "" {
			row.ID = doc.Ref.ID
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ListPrograms reads every program record.
func (s *FirestoreStore) ListPrograms(ctx context.Context) ([]models.Program, error) {
	iter := s.client.Collection(programsCollection).Documents(ctx)
	defer iter.Stop()

	var programs []models.Program
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate programs: %w", err)
		}
		var p models.Program
		if err := doc.DataTo(&p); err != nil {
			continue
		}
		if p.ID == "" {
			p.ID = doc.Ref.ID
		}
		programs = append(programs, p)
	}
	return programs, nil
}
